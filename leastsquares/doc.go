// Package leastsquares fits a straight line through (x, y) observations with
// ordinary least squares, solved through the normal equations
//
//	(AᵀA) x̂ = Aᵀb
//
// where A is the N×2 design matrix with rows [x_i, 1] and b holds y_i.
//
// Everything in this package is a pure function of its inputs: nothing is
// logged, nothing is retained between calls and independent fits may run
// concurrently.
package leastsquares
