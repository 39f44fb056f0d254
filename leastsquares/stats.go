package leastsquares

import (
	"gonum.org/v1/gonum/stat"
)

// SSE is the sum of squared errors of l over the observations.
func SSE(x, y []float64, l Line) float64 {
	s := 0.0
	for i := range x {
		d := y[i] - l.Predict(x[i])
		s += d * d
	}
	return s
}

// SST is the total sum of squares of y around its mean.
func SST(y []float64) float64 {
	m := stat.Mean(y, nil)
	s := 0.0
	for i := range y {
		d := y[i] - m
		s += d * d
	}
	return s
}

// SSR is the sum of squares explained by the regression.
func SSR(x, y []float64, l Line) float64 {
	mean := stat.Mean(y, nil)
	s := 0.0
	for i := range x {
		d := l.Predict(x[i]) - mean
		s += d * d
	}
	return s
}

// RSquared is the coefficient of determination, 1 - SSE/SST. It is 1 when y
// has no variance and the line fits it exactly.
func RSquared(x, y []float64, l Line) float64 {
	sst := SST(y)
	if sst == 0 {
		if SSE(x, y, l) == 0 {
			return 1
		}
		return 0
	}
	return 1 - SSE(x, y, l)/sst
}

// Cost is the mean squared error of l.
func Cost(x, y []float64, l Line) float64 {
	// cost = 1/N * sum((y - (m*x+c))^2)
	if len(x) == 0 {
		return 0
	}
	return SSE(x, y, l) / float64(len(x))
}

// Gradient of Cost with respect to slope and intercept. Both are zero at the
// least-squares solution.
func Gradient(x, y []float64, l Line) (dm, dc float64) {
	// cost/dm = 2/N * sum(-x * (y - (m*x+c)))
	// cost/dc = 2/N * sum(-(y - (m*x+c)))
	if len(x) == 0 {
		return 0, 0
	}
	for i := range x {
		d := y[i] - l.Predict(x[i])
		dm -= x[i] * d
		dc -= d
	}
	n := float64(len(x))
	return 2 / n * dm, 2 / n * dc
}
