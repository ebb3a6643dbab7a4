package render

import "math"

// Filters are the non-destructive display adjustments. Percent axes use 100
// as neutral for brightness, contrast and saturation and 0 for grayscale and
// sepia. Blur is a radius in pixels and HueRotate is in degrees.
type Filters struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	Blur       float64
	Grayscale  float64
	Sepia      float64
	HueRotate  float64
}

// DefaultFilters returns the identity settings.
func DefaultFilters() Filters {
	return Filters{Brightness: 100, Contrast: 100, Saturation: 100}
}

// Clamp limits every axis to its supported range.
func (f Filters) Clamp() Filters {
	f.Brightness = clampRange(f.Brightness, 0, 200)
	f.Contrast = clampRange(f.Contrast, 0, 200)
	f.Saturation = clampRange(f.Saturation, 0, 200)
	f.Blur = clampRange(f.Blur, 0, 20)
	f.Grayscale = clampRange(f.Grayscale, 0, 100)
	f.Sepia = clampRange(f.Sepia, 0, 100)
	f.HueRotate = clampRange(f.HueRotate, 0, 360)
	return f
}

// IsIdentity reports whether f leaves pixels unchanged.
func (f Filters) IsIdentity() bool {
	f = f.Clamp()
	return f.Blur == 0 && f.colorMatrix() == identity
}

// colorMatrix folds every color axis into one matrix, applied in the order
// brightness, contrast, saturation, grayscale, sepia, hue rotation. Neutral
// axes are skipped so the identity stays exact.
func (f Filters) colorMatrix() ColorMatrix {
	m := identity
	if f.Brightness != 100 {
		m = m.Then(brightnessMatrix(f.Brightness / 100))
	}
	if f.Contrast != 100 {
		m = m.Then(contrastMatrix(f.Contrast / 100))
	}
	if f.Saturation != 100 {
		m = m.Then(saturateMatrix(f.Saturation / 100))
	}
	if f.Grayscale != 0 {
		m = m.Then(saturateMatrix(1 - f.Grayscale/100))
	}
	if f.Sepia != 0 {
		m = m.Then(sepiaMatrix(f.Sepia / 100))
	}
	if deg := math.Mod(f.HueRotate, 360); deg != 0 {
		m = m.Then(hueRotateMatrix(deg))
	}
	return m
}

func clampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
