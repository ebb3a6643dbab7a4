package crop

import (
	"fmt"
	"strconv"
	"strings"
)

// Ratio is a named aspect ratio preset. A Value of 0 means unconstrained.
type Ratio struct {
	Name  string
	Value float64
}

// Presets lists the aspect ratios offered by the crop tool.
var Presets = []Ratio{
	{Name: "free", Value: 0},
	{Name: "1:1", Value: 1},
	{Name: "4:3", Value: 4.0 / 3.0},
	{Name: "3:2", Value: 3.0 / 2.0},
	{Name: "16:9", Value: 16.0 / 9.0},
}

// ParseRatio accepts "free", "W:H" or a plain decimal ratio.
func ParseRatio(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "free" || s == "none" {
		return 0, nil
	}
	if w, h, ok := strings.Cut(s, ":"); ok {
		wv, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return 0, fmt.Errorf("ratio width %q: %w", w, err)
		}
		hv, err := strconv.ParseFloat(h, 64)
		if err != nil {
			return 0, fmt.Errorf("ratio height %q: %w", h, err)
		}
		if wv <= 0 || hv <= 0 {
			return 0, fmt.Errorf("ratio %q must be positive", s)
		}
		return wv / hv, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("ratio %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("ratio %q must be positive", s)
	}
	return v, nil
}
