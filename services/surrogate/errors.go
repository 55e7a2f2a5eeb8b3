// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package surrogate evaluates trained engine-deck surrogate models.
//
// An engine deck maps an operating point (altitude, Mach number, throttle
// setting) to engine outputs (net thrust, fuel flow, and for hybrid
// variants shaft power or battery draw) by interpolating a Kriging
// surrogate fitted offline to tabulated engine-deck data. Alongside each
// output the deck returns the closed-form partial derivatives of that
// output with respect to the inputs, which a Newton-based coupled solver
// needs for convergence.
//
// # Ownership Model
//
// A Deck owns its training samples, normalization statistics, and fitted
// kernel parameters. All of them are fixed at construction and never
// mutated afterwards.
//
// # Thread Safety
//
// Decks are read-only after construction. Any number of goroutines may
// call Evaluate on the same Deck concurrently without locking; every
// evaluation allocates its own workspace.
//
// # Lifecycle
//
//  1. Load an artifact with LoadDeck (or construct with NewDeck).
//  2. Call Evaluate repeatedly, from any number of goroutines.
//
// There is no teardown; a Deck holds no resources beyond memory.
package surrogate

import (
	"errors"
	"fmt"
)

// Sentinel errors for deck construction.
var (
	// ErrDataShape is returned when a training artifact is internally
	// inconsistent: mismatched row counts between inputs, outputs, and
	// weights, a length-scale count that disagrees with the input
	// dimensionality, or a constant (zero-range) input dimension.
	// Construction aborts; the deck is unusable.
	ErrDataShape = errors.New("training data shape mismatch")

	// ErrModelLoad is returned when a packaged engine-deck artifact is
	// missing, unreadable, or malformed. Construction aborts; callers
	// cannot evaluate an engine without its artifact.
	ErrModelLoad = errors.New("engine deck model load failed")
)

// DomainWarning flags a query point that lies outside the training
// envelope of one input dimension by more than the configured margin.
//
// The warning is non-fatal: the prediction is still computed and
// returned, because the surrogate is a smooth continuous approximation
// that a gradient-based solver may legitimately probe slightly outside
// its bounds during line search. The caller decides whether to proceed
// or to clip the trial point. Predictions outside the envelope carry no
// fitted-error guarantee.
type DomainWarning struct {
	// Input is the name of the offending input dimension.
	Input string

	// Value is the queried coordinate in raw physical units.
	Value float64

	// Low and High bound the accepted range for this dimension:
	// the training envelope widened by the configured margin.
	Low  float64
	High float64
}

// String formats the warning for logs and CLI output.
func (w DomainWarning) String() string {
	return fmt.Sprintf("input %q = %g outside training envelope [%g, %g]",
		w.Input, w.Value, w.Low, w.High)
}
