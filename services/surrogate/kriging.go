// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package surrogate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Predictor produces a scalar prediction and its gradient for one output
// quantity of one engine deck. The prediction in normalized space is
//
//	y_n = mu + corr . w
//
// where mu is the fitted trend constant and w the fitted weight vector
// (one entry per training sample), both produced by the offline training
// step. The gradient is J^T w chain-ruled through the normalization.
//
// Evaluating far outside the training envelope is permitted: the model
// stays a smooth continuous function everywhere, which is what a
// gradient-based solver probing slightly out of bounds during line
// search needs. Predictions there simply carry no fitted-error
// guarantee.
//
// Predictor is deterministic and holds no mutable state across calls;
// identical inputs always yield identical outputs.
type Predictor struct {
	store   *SampleStore
	kernel  *GaussianKernel
	trend   float64
	weights *mat.VecDense
}

// NewPredictor wires a sample store, a fitted kernel, and the fitted
// regression artifacts into a predictor.
//
// Outputs:
//   - *Predictor: Ready for concurrent evaluation.
//   - error: Wraps ErrDataShape if the kernel dimensionality disagrees
//     with the store or the weight count disagrees with the sample count.
func NewPredictor(store *SampleStore, kernel *GaussianKernel, trend float64, weights []float64) (*Predictor, error) {
	if kernel.Dim() != store.Dim() {
		return nil, fmt.Errorf("%w: kernel has %d length-scales but samples have %d dimensions", ErrDataShape, kernel.Dim(), store.Dim())
	}
	if len(weights) != store.Count() {
		return nil, fmt.Errorf("%w: %d weights for %d training samples", ErrDataShape, len(weights), store.Count())
	}
	own := make([]float64, len(weights))
	copy(own, weights)
	return &Predictor{
		store:   store,
		kernel:  kernel,
		trend:   trend,
		weights: mat.NewVecDense(len(own), own),
	}, nil
}

// Store returns the predictor's sample store.
func (p *Predictor) Store() *SampleStore { return p.store }

// Predict evaluates the surrogate at a raw-units query point.
//
// Outputs:
//   - float64: Prediction in raw output units.
//   - error: Wraps ErrDataShape if the point has the wrong width.
func (p *Predictor) Predict(point []float64) (float64, error) {
	xn, err := p.store.NormalizeInput(point)
	if err != nil {
		return 0, err
	}
	corr := p.kernel.Correlate(xn, p.store.Samples())
	return p.store.DenormalizeOutput(p.valueFromCorrelation(corr)), nil
}

// PredictWithGradient evaluates the surrogate and its exact gradient at
// a raw-units query point.
//
// Outputs:
//   - float64: Prediction in raw output units.
//   - []float64: Gradient of the prediction with respect to each raw
//     input, len = input dimensionality.
//   - error: Wraps ErrDataShape if the point has the wrong width.
func (p *Predictor) PredictWithGradient(point []float64) (float64, []float64, error) {
	xn, err := p.store.NormalizeInput(point)
	if err != nil {
		return 0, nil, err
	}
	corr := p.kernel.Correlate(xn, p.store.Samples())
	jac := p.kernel.CorrelateJacobian(xn, p.store.Samples(), corr)

	value := p.store.DenormalizeOutput(p.valueFromCorrelation(corr))
	grad := p.store.DenormalizeGradient(p.gradientFromJacobian(jac))
	return value, grad, nil
}

// valueFromCorrelation computes the normalized prediction mu + corr . w
// from a correlation vector shared across the deck's outputs.
func (p *Predictor) valueFromCorrelation(corr []float64) float64 {
	c := mat.NewVecDense(len(corr), corr)
	return p.trend + mat.Dot(c, p.weights)
}

// gradientFromJacobian computes the normalized-space gradient J^T w from
// the shared correlation Jacobian (row-major count x dim).
func (p *Predictor) gradientFromJacobian(jac []float64) []float64 {
	n := p.store.Count()
	dim := p.store.Dim()
	j := mat.NewDense(n, dim, jac)
	grad := mat.NewVecDense(dim, nil)
	grad.MulVec(j.T(), p.weights)
	return grad.RawVector().Data
}
