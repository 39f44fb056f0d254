package leastsquares

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput is returned for empty, mismatched or non-finite
	// observations, or a design matrix and target vector of different length.
	ErrInvalidInput = errors.New("leastsquares: invalid input")

	// ErrSingularSystem is returned when the normal matrix AᵀA has no usable
	// inverse, e.g. every x value is identical.
	ErrSingularSystem = errors.New("leastsquares: singular system")
)

// SingularError reports a normal matrix that is singular or too
// ill-conditioned to solve. It matches ErrSingularSystem with errors.Is.
type SingularError struct {
	// Cond is the estimated condition number of AᵀA, +Inf when singular.
	Cond float64
}

func (e *SingularError) Error() string {
	if math.IsInf(e.Cond, 1) {
		return ErrSingularSystem.Error()
	}
	return fmt.Sprintf("%v: condition number %.3g", ErrSingularSystem, e.Cond)
}

func (e *SingularError) Is(target error) bool {
	return target == ErrSingularSystem
}
