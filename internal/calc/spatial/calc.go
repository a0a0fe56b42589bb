package spatial

import (
	"math"
)

// NyquistCyclePixel is the Nyquist frequency expressed in cycles per pixel.
const NyquistCyclePixel = 0.5

type Input struct {
	EFL          float64 `json:"efl" required:"false" doc:"Effective focal length, mm"`
	ResH         float64 `json:"res_h" required:"false" doc:"Horizontal sensor resolution, px"`
	ResV         float64 `json:"res_v" required:"false" doc:"Vertical sensor resolution, px"`
	PixelSize    float64 `json:"pixel_size" required:"false" doc:"Pixel pitch, mm"`
	CenterFactor float64 `json:"center_factor" required:"false" doc:"Center divisor of Nyquist (3 means 1/3 Ny)"`
	CornerFactor float64 `json:"corner_factor" required:"false" doc:"Corner divisor of Nyquist"`
	TestDistance float64 `json:"test_distance" required:"false" doc:"Lens to chart distance, mm"`
}

// PointAnalysis holds the metrics derived for one Nyquist factor.
type PointAnalysis struct {
	Factor           float64 `json:"factor"`
	FreqCp           float64 `json:"freq_cp"`
	FreqLpmm         float64 `json:"freq_lpmm"`
	SensorCycleWidth float64 `json:"sensor_cycle_width"`
	SensorLineWidth  float64 `json:"sensor_line_width"`
	HalfFOV          float64 `json:"half_fov"`
	ObjectLpWidth    float64 `json:"object_lp_width"`
	ObjectLineWidth  float64 `json:"object_line_width"`
	TVLH             float64 `json:"tvl_h"`
	TVLV             float64 `json:"tvl_v"`
}

type Result struct {
	NyLpmm       float64       `json:"ny_lpmm"`
	NyCyclePixel float64       `json:"ny_cycle_pixel"`
	Center       PointAnalysis `json:"center"`
	Corner       PointAnalysis `json:"corner"`
}

// Calculate derives the spatial-frequency analysis for a lens and sensor.
// It never fails: degenerate factors, pixel sizes or focal lengths give
// zeroed points instead of infinities.
func Calculate(in Input) Result {
	ny := nyquistLpmm(in.PixelSize)
	return Result{
		NyLpmm:       ny,
		NyCyclePixel: NyquistCyclePixel,
		Center:       analyzePoint(in, ny, in.CenterFactor),
		Corner:       analyzePoint(in, ny, in.CornerFactor),
	}
}

func nyquistLpmm(pixelSize float64) float64 {
	if pixelSize <= 0 {
		return 0
	}
	return 1 / (2 * pixelSize)
}

func analyzePoint(in Input, ny, f float64) PointAnalysis {
	if f <= 0 || in.PixelSize <= 0 || in.EFL <= 0 {
		return PointAnalysis{Factor: f}
	}

	freqLpmm := ny / f
	cycle := 1 / freqLpmm
	line := cycle / 2

	// The object-plane fields follow the reference spreadsheet: the projected
	// half cycle is reported as the line-pair width, half of it as the line.
	projected := line * (in.TestDistance / in.EFL)

	return PointAnalysis{
		Factor:           f,
		FreqCp:           NyquistCyclePixel / f,
		FreqLpmm:         freqLpmm,
		SensorCycleWidth: cycle,
		SensorLineWidth:  line,
		HalfFOV:          math.Atan(line/in.EFL) * 180 / math.Pi,
		ObjectLpWidth:    projected,
		ObjectLineWidth:  projected / 2,
		TVLH:             in.ResH / (f * 2),
		TVLV:             in.ResV / (f * 2),
	}
}
