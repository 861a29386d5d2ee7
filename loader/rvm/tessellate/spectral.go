package tessellate

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// spectralNorm computes the spectral norm of m, the square root of the
// largest eigenvalue of mᵀm. It bounds how much the transform can stretch any
// direction and is used to scale error bounds before solving for segment
// counts.
func spectralNorm(m mgl32.Mat3) float32 {
	// mᵀm is symmetric positive semi-definite, so power iteration converges
	// to its largest eigenvalue.
	var b [3][3]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += float64(m.At(k, r)) * float64(m.At(k, c))
			}
			b[r][c] = sum
		}
	}

	v := [3]float64{1, 1, 1}
	for iter := 0; iter < 64; iter++ {
		w := mulSym3(b, v)
		n := math.Sqrt(w[0]*w[0] + w[1]*w[1] + w[2]*w[2])
		if n == 0 {
			return 0
		}
		v = [3]float64{w[0] / n, w[1] / n, w[2] / n}
	}

	w := mulSym3(b, v)
	lambda := v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
	if lambda <= 0 {
		return 0
	}
	return float32(math.Sqrt(lambda))
}

func mulSym3(b [3][3]float64, v [3]float64) [3]float64 {
	return [3]float64{
		b[0][0]*v[0] + b[0][1]*v[1] + b[0][2]*v[2],
		b[1][0]*v[0] + b[1][1]*v[1] + b[1][2]*v[2],
		b[2][0]*v[0] + b[2][1]*v[1] + b[2][2]*v[2],
	}
}
