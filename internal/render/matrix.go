package render

import "math"

// ColorMatrix is a 4x5 row-major color transform over straight-alpha values
// in the 0-255 range. The fifth column is an offset.
type ColorMatrix [20]float64

var identity = ColorMatrix{
	1, 0, 0, 0, 0,
	0, 1, 0, 0, 0,
	0, 0, 1, 0, 0,
	0, 0, 0, 1, 0,
}

// Rec. 709 luma weights.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// Then returns the matrix that applies m followed by n.
func (m ColorMatrix) Then(n ColorMatrix) ColorMatrix {
	var r ColorMatrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += n[row*5+k] * m[k*5+col]
			}
			r[row*5+col] = sum
		}
		r[row*5+4] = n[row*5+0]*m[4] + n[row*5+1]*m[9] + n[row*5+2]*m[14] + n[row*5+3]*m[19] + n[row*5+4]
	}
	return r
}

// apply transforms one straight-alpha pixel.
func (m *ColorMatrix) apply(r, g, b, a float64) (float64, float64, float64, float64) {
	return m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4],
		m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9],
		m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14],
		m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19]
}

func brightnessMatrix(f float64) ColorMatrix {
	return ColorMatrix{
		f, 0, 0, 0, 0,
		0, f, 0, 0, 0,
		0, 0, f, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// contrastMatrix scales around mid gray: (c - 127.5) * f + 127.5.
func contrastMatrix(f float64) ColorMatrix {
	off := 127.5 * (1 - f)
	return ColorMatrix{
		f, 0, 0, 0, off,
		0, f, 0, 0, off,
		0, 0, f, 0, off,
		0, 0, 0, 1, 0,
	}
}

// saturateMatrix blends between luma (0) and the identity (1).
func saturateMatrix(f float64) ColorMatrix {
	inv := 1 - f
	return ColorMatrix{
		lumR*inv + f, lumG * inv, lumB * inv, 0, 0,
		lumR * inv, lumG*inv + f, lumB * inv, 0, 0,
		lumR * inv, lumG * inv, lumB*inv + f, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// sepiaMatrix blends the identity toward the sepia tone by amount.
func sepiaMatrix(amount float64) ColorMatrix {
	inv := 1 - amount
	return ColorMatrix{
		0.393 + 0.607*inv, 0.769 - 0.769*inv, 0.189 - 0.189*inv, 0, 0,
		0.349 - 0.349*inv, 0.686 + 0.314*inv, 0.168 - 0.168*inv, 0, 0,
		0.272 - 0.272*inv, 0.534 - 0.534*inv, 0.131 + 0.869*inv, 0, 0,
		0, 0, 0, 1, 0,
	}
}

func hueRotateMatrix(degrees float64) ColorMatrix {
	rad := degrees * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return ColorMatrix{
		0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928, 0, 0,
		0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283, 0, 0,
		0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072, 0, 0,
		0, 0, 0, 1, 0,
	}
}
