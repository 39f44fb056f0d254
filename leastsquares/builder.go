package leastsquares

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Number is any observation type that can be promoted to float64.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Float64s promotes observations to float64.
func Float64s[T Number](in []T) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// Build returns the design matrix A (rows [xs[i], 1]) and target vector b
// (ys) for a simple linear regression. The inputs are copied.
//
// A single observation is accepted even though the resulting system is
// under-determined; SolveNormal reports it as singular.
func Build(xs, ys []float64) (*mat.Dense, *mat.VecDense, error) {
	if len(xs) != len(ys) {
		return nil, nil, fmt.Errorf("%d x values but %d y values: %w", len(xs), len(ys), ErrInvalidInput)
	}
	if len(xs) == 0 {
		return nil, nil, fmt.Errorf("no observations: %w", ErrInvalidInput)
	}

	n := len(xs)
	data := make([]float64, 0, n*2)
	target := make([]float64, n)
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			return nil, nil, fmt.Errorf("observation %d (%v, %v) is not finite: %w", i, xs[i], ys[i], ErrInvalidInput)
		}
		data = append(data, xs[i], 1)
		target[i] = ys[i]
	}
	return mat.NewDense(n, 2, data), mat.NewVecDense(n, target), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
