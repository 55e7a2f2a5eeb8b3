// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package surrogate

import (
	"fmt"
	"math"
)

// MinCorrelation is the floor applied to kernel values. Correlations
// decay as exp(-distance^2) and underflow to subnormals far outside the
// training envelope; clamping keeps the downstream weighted sums out of
// denormal arithmetic without affecting any value the solver can
// distinguish from zero. Tunable, not a hidden magic number.
const MinCorrelation = 1e-300

// GaussianKernel is the squared-exponential correlation model fitted to
// one engine deck. The correlation between a normalized query x and a
// normalized training sample s_i is
//
//	corr_i = exp(-sum_d theta_d * (x_d - s_i,d)^2)
//
// with per-dimension length-scales theta_d > 0 produced by the offline
// training step and loaded as constants.
//
// The kernel is stateless across calls and safe for concurrent use.
type GaussianKernel struct {
	theta []float64
}

// NewGaussianKernel validates the fitted length-scales.
//
// Outputs:
//   - *GaussianKernel: Kernel over len(theta) input dimensions.
//   - error: Wraps ErrDataShape if theta is empty or any entry is not
//     strictly positive and finite.
func NewGaussianKernel(theta []float64) (*GaussianKernel, error) {
	if len(theta) == 0 {
		return nil, fmt.Errorf("%w: empty length-scale vector", ErrDataShape)
	}
	own := make([]float64, len(theta))
	for d, t := range theta {
		if !(t > 0) || math.IsInf(t, 1) {
			return nil, fmt.Errorf("%w: length-scale theta[%d] = %g, want strictly positive finite", ErrDataShape, d, t)
		}
		own[d] = t
	}
	return &GaussianKernel{theta: own}, nil
}

// Dim returns the input dimensionality the kernel was fitted over.
func (k *GaussianKernel) Dim() int { return len(k.theta) }

// Theta returns a copy of the fitted length-scales.
func (k *GaussianKernel) Theta() []float64 {
	out := make([]float64, len(k.theta))
	copy(out, k.theta)
	return out
}

// Correlate computes the correlation between a normalized query point
// and every training sample. Values lie in (0, 1]; a value of exactly 1
// occurs only at zero distance to a sample. Values below MinCorrelation
// are clamped.
//
// Inputs:
//   - x: Normalized query point, len = Dim().
//   - samples: Normalized training coordinates, each row len = Dim().
//
// Outputs:
//   - []float64: Freshly allocated correlation vector, len = len(samples).
func (k *GaussianKernel) Correlate(x []float64, samples [][]float64) []float64 {
	corr := make([]float64, len(samples))
	for i, s := range samples {
		var acc float64
		for d, t := range k.theta {
			diff := x[d] - s[d]
			acc += t * diff * diff
		}
		c := math.Exp(-acc)
		if c < MinCorrelation {
			c = MinCorrelation
		}
		corr[i] = c
	}
	return corr
}

// CorrelateJacobian computes the closed-form derivative of every
// correlation value with respect to the normalized query point:
//
//	d corr_i / d x_d = -2 * theta_d * (x_d - s_i,d) * corr_i
//
// The formula is exact, never finite-differenced: the downstream Newton
// iteration requires analytic Jacobians for convergence. At zero
// distance to a sample it evaluates to zero in every dimension with no
// special-case branch.
//
// Inputs:
//   - x: Normalized query point, len = Dim().
//   - samples: Normalized training coordinates.
//   - corr: Correlation vector previously returned by Correlate for the
//     same x and samples.
//
// Outputs:
//   - []float64: Row-major len(samples) x Dim() Jacobian.
func (k *GaussianKernel) CorrelateJacobian(x []float64, samples [][]float64, corr []float64) []float64 {
	dim := len(k.theta)
	jac := make([]float64, len(samples)*dim)
	for i, s := range samples {
		row := jac[i*dim : (i+1)*dim]
		for d, t := range k.theta {
			row[d] = -2 * t * (x[d] - s[d]) * corr[i]
		}
	}
	return jac
}
