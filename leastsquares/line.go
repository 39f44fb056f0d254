package leastsquares

import "fmt"

// Line is a fitted y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

func (l Line) Predict(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Coefficients returns the solution vector in solver order: [slope, intercept].
func (l Line) Coefficients() []float64 {
	return []float64{l.Slope, l.Intercept}
}

func (l Line) String() string {
	return fmt.Sprintf("y = %gx + %g", l.Slope, l.Intercept)
}
