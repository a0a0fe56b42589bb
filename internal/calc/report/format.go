package report

import (
	"math"
	"strconv"
	"strings"

	spatial "Lenscalc/internal/calc/spatial"
)

// Placeholder is shown in place of non-finite values.
const Placeholder = "—"

// FormatValue rounds v to decimals places and strips trailing zeros.
func FormatValue(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// Field is one labelled input value.
type Field struct {
	Label    string
	Unit     string
	Value    float64
	Decimals int
}

// Row compares one metric at the center and corner factors.
type Row struct {
	Label    string
	Unit     string
	Center   float64
	Corner   float64
	Decimals int
}

func InputFields(in spatial.Input) []Field {
	return []Field{
		{"EFL", "mm", in.EFL, 4},
		{"Resolution H", "px", in.ResH, 0},
		{"Resolution V", "px", in.ResV, 0},
		{"Pixel size", "mm", in.PixelSize, 6},
		{"Center factor (1/X Ny)", "", in.CenterFactor, 3},
		{"Corner factor (1/X Ny)", "", in.CornerFactor, 3},
		{"Test distance", "mm", in.TestDistance, 2},
	}
}

func NyquistFields(res spatial.Result) []Field {
	return []Field{
		{"Nyquist", "lp/mm", res.NyLpmm, 2},
		{"Nyquist", "cy/px", res.NyCyclePixel, 2},
	}
}

func Rows(res spatial.Result) []Row {
	c, k := res.Center, res.Corner
	return []Row{
		{"Factor (1/X Ny)", "", c.Factor, k.Factor, 3},
		{"Frequency", "cy/px", c.FreqCp, k.FreqCp, 4},
		{"Frequency", "lp/mm", c.FreqLpmm, k.FreqLpmm, 2},
		{"Sensor cycle width", "mm", c.SensorCycleWidth, k.SensorCycleWidth, 5},
		{"Sensor line width", "mm", c.SensorLineWidth, k.SensorLineWidth, 5},
		{"Half FOV", "deg", c.HalfFOV, k.HalfFOV, 4},
		{"Object LP width", "mm", c.ObjectLpWidth, k.ObjectLpWidth, 3},
		{"Object line width", "mm", c.ObjectLineWidth, k.ObjectLineWidth, 3},
		{"TVL horizontal", "", c.TVLH, k.TVLH, 2},
		{"TVL vertical", "", c.TVLV, k.TVLV, 2},
	}
}

// Caption joins a label with its unit, e.g. "Frequency, lp/mm".
func Caption(label, unit string) string {
	if unit == "" {
		return label
	}
	return label + ", " + unit
}
