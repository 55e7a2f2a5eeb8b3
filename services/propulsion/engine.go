// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package propulsion adapts engine-deck surrogates to the component
// contract a multidisciplinary solver consumes.
//
// The adapter is called once per solver iteration per flight condition.
// It forwards the deck's outputs and Jacobian into the coupled system,
// applies the rated-thrust scaling of the installed engine, and derives
// true airspeed from Mach and the standard atmosphere, with partials
// chain-ruled through every step. It makes no assumption about solver
// iteration order beyond "called repeatedly with varying operating
// points, potentially many times per second".
//
// # Thread Safety
//
// Engine is read-only after construction; Evaluate and EvaluateBatch
// are safe for concurrent use.
package propulsion

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/openconcept/enginedeck/services/atmosphere"
	"github.com/openconcept/enginedeck/services/surrogate"
)

// metersPerFoot converts the solver's altitude unit to the atmosphere
// model's.
const metersPerFoot = 0.3048

// FlightCondition is one operating point in solver units.
type FlightCondition struct {
	// AltitudeFt is the pressure altitude, ft.
	AltitudeFt float64
	// Mach is the flight Mach number.
	Mach float64
	// Throttle is the normalized power setting, typically in [0, 1].
	Throttle float64
}

// point orders the condition like the deck's input dimensions.
func (c FlightCondition) point() []float64 {
	return []float64{c.AltitudeFt, c.Mach, c.Throttle}
}

// Options configures an Engine.
type Options struct {
	// ThrustScale multiplies thrust-like outputs and their partials,
	// implementing rated-thrust scaling of the installed engine against
	// the deck's reference rating. Default: 1.
	ThrustScale float64

	// ScaledOutputs names the deck outputs ThrustScale applies to.
	// Default: ["thrust"].
	ScaledOutputs []string
}

// Evaluation is the adapter's transient per-condition product.
type Evaluation struct {
	// Outputs maps output name to value in deck units, after scaling.
	Outputs map[string]float64

	// Jacobian maps output name to partials with respect to
	// [altitude (ft), Mach, throttle], after scaling.
	Jacobian map[string][]float64

	// TrueAirspeed is Mach times the local speed of sound, m/s.
	TrueAirspeed float64

	// TrueAirspeedJac holds the partials of TrueAirspeed with respect
	// to [altitude (ft), Mach, throttle].
	TrueAirspeedJac []float64

	// Warnings carries the deck's out-of-domain flags, if any.
	Warnings []surrogate.DomainWarning
}

// Engine wraps one engine deck behind the solver-facing contract.
type Engine struct {
	deck   *surrogate.Deck
	scale  float64
	scaled map[string]bool
}

// NewEngine wires a deck into the adapter.
//
// Inputs:
//   - deck: A three-input deck ordered (altitude, Mach, throttle).
//   - opts: Scaling options; zero value for defaults.
//
// Outputs:
//   - *Engine: Ready for concurrent evaluation.
//   - error: Non-nil if the deck does not have exactly three inputs.
func NewEngine(deck *surrogate.Deck, opts Options) (*Engine, error) {
	if n := len(deck.Inputs()); n != 3 {
		return nil, fmt.Errorf("engine %q: deck has %d input dimensions, adapter expects (altitude, mach, throttle)", deck.Engine(), n)
	}

	scale := opts.ThrustScale
	if scale == 0 {
		scale = 1
	}
	names := opts.ScaledOutputs
	if names == nil {
		names = []string{"thrust"}
	}
	scaled := make(map[string]bool, len(names))
	for _, n := range names {
		scaled[n] = true
	}

	return &Engine{deck: deck, scale: scale, scaled: scaled}, nil
}

// Deck returns the wrapped surrogate deck.
func (e *Engine) Deck() *surrogate.Deck { return e.deck }

// Evaluate runs one flight condition through the deck and derives the
// atmospheric quantities.
//
// Outputs:
//   - *Evaluation: Scaled outputs, Jacobian, airspeed, warnings.
//   - error: Propagated from the deck (wrong input width).
func (e *Engine) Evaluate(ctx context.Context, cond FlightCondition) (*Evaluation, error) {
	res, err := e.deck.Evaluate(ctx, cond.point())
	if err != nil {
		return nil, err
	}

	ev := &Evaluation{
		Outputs:  make(map[string]float64, len(res.Outputs)),
		Jacobian: make(map[string][]float64, len(res.Jacobian)),
		Warnings: res.Warnings,
	}
	for name, value := range res.Outputs {
		grad := res.Jacobian[name]
		if e.scaled[name] {
			value *= e.scale
			for i := range grad {
				grad[i] *= e.scale
			}
		}
		ev.Outputs[name] = value
		ev.Jacobian[name] = grad
	}

	a, dAdM := atmosphere.SpeedOfSound(cond.AltitudeFt * metersPerFoot)
	ev.TrueAirspeed = cond.Mach * a
	ev.TrueAirspeedJac = []float64{cond.Mach * dAdM * metersPerFoot, a, 0}

	return ev, nil
}

// EvaluateBatch evaluates many flight conditions concurrently. Each
// evaluation is independent pure arithmetic over read-only state, so
// the batch needs no coordination beyond fan-out and collection.
//
// Inputs:
//   - ctx: Cancels outstanding evaluations.
//   - conds: Conditions to evaluate.
//   - parallelism: Concurrent evaluations; values < 1 mean unbounded.
//
// Outputs:
//   - []*Evaluation: One entry per condition, in input order.
//   - error: First evaluation error, if any.
func (e *Engine) EvaluateBatch(ctx context.Context, conds []FlightCondition, parallelism int) ([]*Evaluation, error) {
	out := make([]*Evaluation, len(conds))

	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, cond := range conds {
		i, cond := i, cond
		g.Go(func() error {
			ev, err := e.Evaluate(ctx, cond)
			if err != nil {
				return fmt.Errorf("condition %d: %w", i, err)
			}
			out[i] = ev
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
