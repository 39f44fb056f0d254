package leastsquares

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SolveNormal returns x̂ minimising ‖Ax̂ − b‖² by solving (AᵀA) x̂ = Aᵀb with
// an LU factorisation of the normal matrix. A may have any number of columns.
//
// A singular or ill-conditioned AᵀA yields a *SingularError and a nil vector.
func SolveNormal(a mat.Matrix, b mat.Vector, opts ...Option) (*mat.VecDense, error) {
	cfg, err := newSolveConfig(opts)
	if err != nil {
		return nil, err
	}

	r, c := a.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("empty design matrix: %w", ErrInvalidInput)
	}
	if b.Len() != r {
		return nil, fmt.Errorf("design matrix has %d rows but target has %d values: %w", r, b.Len(), ErrInvalidInput)
	}

	at := a.T()

	var m mat.Dense
	m.Mul(at, a)

	var v mat.VecDense
	v.MulVec(at, b)

	var lu mat.LU
	lu.Factorize(&m)
	if lu.Det() == 0 {
		return nil, &SingularError{Cond: math.Inf(1)}
	}
	if cond := lu.Cond(); math.IsNaN(cond) || cond > cfg.condTolerance {
		return nil, &SingularError{Cond: cond}
	}

	x := mat.NewVecDense(c, nil)
	if err := lu.SolveVecTo(x, false, &v); err != nil {
		var cond mat.Condition
		switch {
		case errors.As(err, &cond):
			return nil, &SingularError{Cond: float64(cond)}
		case errors.Is(err, mat.ErrSingular):
			return nil, &SingularError{Cond: math.Inf(1)}
		}
		return nil, err
	}
	for i := 0; i < c; i++ {
		if !finite(x.AtVec(i)) {
			return nil, &SingularError{Cond: math.Inf(1)}
		}
	}
	return x, nil
}

// Fit builds the design matrix for xs and ys and solves it.
func Fit(xs, ys []float64, opts ...Option) (Line, error) {
	a, b, err := Build(xs, ys)
	if err != nil {
		return Line{}, err
	}
	x, err := SolveNormal(a, b, opts...)
	if err != nil {
		return Line{}, err
	}
	return Line{Slope: x.AtVec(0), Intercept: x.AtVec(1)}, nil
}
