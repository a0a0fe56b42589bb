package spatial

import (
	"math"
	"strconv"
	"strings"
)

// Field names shared by query strings, spreadsheet headers and CLI flags.
const (
	FieldEFL          = "efl"
	FieldResH         = "res_h"
	FieldResV         = "res_v"
	FieldPixelSize    = "pixel_size"
	FieldCenterFactor = "center_factor"
	FieldCornerFactor = "corner_factor"
	FieldTestDistance = "test_distance"
)

// Fields lists the input names in form order.
var Fields = []string{
	FieldEFL,
	FieldResH,
	FieldResV,
	FieldPixelSize,
	FieldCenterFactor,
	FieldCornerFactor,
	FieldTestDistance,
}

// DefaultInput returns the parameter set the calculator form starts with.
func DefaultInput() Input {
	return Input{
		EFL:          2.12,
		ResH:         2560,
		ResV:         1938,
		PixelSize:    0.002,
		CenterFactor: 3,
		CornerFactor: 4,
		TestDistance: 500,
	}
}

// ParseNumber converts user-entered text to a number. Anything that does not
// parse becomes 0, which the engine treats as degenerate input.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// InputFromValues builds an Input by looking up each field name with get.
func InputFromValues(get func(name string) string) Input {
	return Input{
		EFL:          ParseNumber(get(FieldEFL)),
		ResH:         ParseNumber(get(FieldResH)),
		ResV:         ParseNumber(get(FieldResV)),
		PixelSize:    ParseNumber(get(FieldPixelSize)),
		CenterFactor: ParseNumber(get(FieldCenterFactor)),
		CornerFactor: ParseNumber(get(FieldCornerFactor)),
		TestDistance: ParseNumber(get(FieldTestDistance)),
	}
}
