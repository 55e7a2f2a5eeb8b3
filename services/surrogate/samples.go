// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package surrogate

import "fmt"

// SampleStore owns the immutable training set for one engine-deck output:
// the input coordinates, the observed outputs, and the normalization
// statistics derived from both. Inputs and outputs are stored in
// normalized coordinates, mapped per dimension by midpoint and half-range
// so that the correlation kernel operates on a well-conditioned [-1, 1]
// cube regardless of the physical units of the raw table.
//
// A SampleStore is immutable after construction and safe for concurrent
// reads.
type SampleStore struct {
	dim   int
	count int

	// Normalized copies of the training table.
	samples [][]float64
	outputs []float64

	// Per-dimension input normalization: x_n = (x - mid) / half.
	inputMid  []float64
	inputHalf []float64

	// Raw input envelope, kept for out-of-domain checks.
	inputMin []float64
	inputMax []float64

	// Output normalization: y = mid + half * y_n.
	outputMid  float64
	outputHalf float64
}

// NewSampleStore constructs a store from raw training data, deriving
// min/max normalization statistics from the table itself.
//
// Inputs:
//   - rawSamples: one row per training sample, one column per input
//     dimension, in raw physical units.
//   - rawOutputs: one observed output per sample.
//
// Outputs:
//   - *SampleStore: Immutable store holding normalized copies.
//   - error: Wraps ErrDataShape if the row counts disagree, a row has the
//     wrong width, or an input dimension is constant (zero range).
func NewSampleStore(rawSamples [][]float64, rawOutputs []float64) (*SampleStore, error) {
	count := len(rawSamples)
	if count == 0 {
		return nil, fmt.Errorf("%w: empty sample table", ErrDataShape)
	}
	if len(rawOutputs) != count {
		return nil, fmt.Errorf("%w: %d input rows but %d outputs", ErrDataShape, count, len(rawOutputs))
	}

	dim := len(rawSamples[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-width sample row", ErrDataShape)
	}
	for i, row := range rawSamples {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: sample row %d has %d coordinates, want %d", ErrDataShape, i, len(row), dim)
		}
	}

	s := &SampleStore{
		dim:       dim,
		count:     count,
		inputMid:  make([]float64, dim),
		inputHalf: make([]float64, dim),
		inputMin:  make([]float64, dim),
		inputMax:  make([]float64, dim),
	}

	for d := 0; d < dim; d++ {
		lo, hi := rawSamples[0][d], rawSamples[0][d]
		for _, row := range rawSamples {
			if row[d] < lo {
				lo = row[d]
			}
			if row[d] > hi {
				hi = row[d]
			}
		}
		if hi == lo {
			return nil, fmt.Errorf("%w: input dimension %d is constant (%g), range-based normalization undefined", ErrDataShape, d, lo)
		}
		s.inputMin[d] = lo
		s.inputMax[d] = hi
		s.inputMid[d] = (hi + lo) / 2
		s.inputHalf[d] = (hi - lo) / 2
	}

	outLo, outHi := rawOutputs[0], rawOutputs[0]
	for _, y := range rawOutputs {
		if y < outLo {
			outLo = y
		}
		if y > outHi {
			outHi = y
		}
	}
	s.outputMid = (outHi + outLo) / 2
	s.outputHalf = (outHi - outLo) / 2
	if s.outputHalf == 0 {
		// A constant output is legal; identity scale keeps the transforms
		// invertible.
		s.outputHalf = 1
	}

	s.samples = make([][]float64, count)
	for i, row := range rawSamples {
		norm := make([]float64, dim)
		for d, v := range row {
			norm[d] = (v - s.inputMid[d]) / s.inputHalf[d]
		}
		s.samples[i] = norm
	}

	s.outputs = make([]float64, count)
	for i, y := range rawOutputs {
		s.outputs[i] = (y - s.outputMid) / s.outputHalf
	}

	return s, nil
}

// Dim returns the input dimensionality.
func (s *SampleStore) Dim() int { return s.dim }

// Count returns the number of training samples.
func (s *SampleStore) Count() int { return s.count }

// Samples returns the normalized training coordinates. Callers must not
// mutate the returned rows.
func (s *SampleStore) Samples() [][]float64 { return s.samples }

// NormalizedOutputs returns the normalized observed outputs. Callers
// must not mutate the returned slice.
func (s *SampleStore) NormalizedOutputs() []float64 { return s.outputs }

// Envelope returns the raw training bounds for one input dimension.
func (s *SampleStore) Envelope(d int) (lo, hi float64) {
	return s.inputMin[d], s.inputMax[d]
}

// NormalizeInput maps a raw query point into normalized coordinates.
// Pure and deterministic; the input slice is not retained.
//
// Outputs:
//   - []float64: Freshly allocated normalized point.
//   - error: Wraps ErrDataShape if the point has the wrong width.
func (s *SampleStore) NormalizeInput(point []float64) ([]float64, error) {
	if len(point) != s.dim {
		return nil, fmt.Errorf("%w: query point has %d coordinates, want %d", ErrDataShape, len(point), s.dim)
	}
	norm := make([]float64, s.dim)
	for d, v := range point {
		norm[d] = (v - s.inputMid[d]) / s.inputHalf[d]
	}
	return norm, nil
}

// DenormalizeOutput maps a normalized prediction back to raw units.
func (s *SampleStore) DenormalizeOutput(value float64) float64 {
	return s.outputMid + s.outputHalf*value
}

// DenormalizeGradient applies the chain rule to a gradient computed in
// normalized coordinates: dy/dx_d = (outHalf / inHalf_d) * dy_n/dx_n,d.
// The scale factors matter; rescaling only the value would silently
// corrupt the Jacobian handed to the solver. Mutates grad in place and
// returns it.
func (s *SampleStore) DenormalizeGradient(grad []float64) []float64 {
	for d := range grad {
		grad[d] *= s.outputHalf / s.inputHalf[d]
	}
	return grad
}
