package spatial

import (
	"encoding/json"
	"math"
)

// encoding/json refuses NaN and Inf, so non-finite metrics are sent as null
// and the client renders its placeholder.

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type pointJSON struct {
	Factor           *float64 `json:"factor"`
	FreqCp           *float64 `json:"freq_cp"`
	FreqLpmm         *float64 `json:"freq_lpmm"`
	SensorCycleWidth *float64 `json:"sensor_cycle_width"`
	SensorLineWidth  *float64 `json:"sensor_line_width"`
	HalfFOV          *float64 `json:"half_fov"`
	ObjectLpWidth    *float64 `json:"object_lp_width"`
	ObjectLineWidth  *float64 `json:"object_line_width"`
	TVLH             *float64 `json:"tvl_h"`
	TVLV             *float64 `json:"tvl_v"`
}

func (p PointAnalysis) MarshalJSON() ([]byte, error) {
	return json.Marshal(pointJSON{
		Factor:           finite(p.Factor),
		FreqCp:           finite(p.FreqCp),
		FreqLpmm:         finite(p.FreqLpmm),
		SensorCycleWidth: finite(p.SensorCycleWidth),
		SensorLineWidth:  finite(p.SensorLineWidth),
		HalfFOV:          finite(p.HalfFOV),
		ObjectLpWidth:    finite(p.ObjectLpWidth),
		ObjectLineWidth:  finite(p.ObjectLineWidth),
		TVLH:             finite(p.TVLH),
		TVLV:             finite(p.TVLV),
	})
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		NyLpmm       *float64      `json:"ny_lpmm"`
		NyCyclePixel float64       `json:"ny_cycle_pixel"`
		Center       PointAnalysis `json:"center"`
		Corner       PointAnalysis `json:"corner"`
	}{
		NyLpmm:       finite(r.NyLpmm),
		NyCyclePixel: r.NyCyclePixel,
		Center:       r.Center,
		Corner:       r.Corner,
	})
}
