package leastsquares

import "fmt"

// DefaultConditionTolerance is the largest condition number of AᵀA that
// SolveNormal accepts.
const DefaultConditionTolerance = 1e12

type solveConfig struct {
	condTolerance float64
}

func newSolveConfig(opts []Option) (*solveConfig, error) {
	cfg := &solveConfig{condTolerance: DefaultConditionTolerance}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Option configures SolveNormal and Fit.
type Option func(*solveConfig) error

// WithConditionTolerance overrides DefaultConditionTolerance. The tolerance
// must be at least 1.
func WithConditionTolerance(tol float64) Option {
	return func(cfg *solveConfig) error {
		if !(tol >= 1) {
			return fmt.Errorf("condition tolerance %v must be >= 1: %w", tol, ErrInvalidInput)
		}
		cfg.condTolerance = tol
		return nil
	}
}
