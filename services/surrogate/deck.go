// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package surrogate

import (
	"context"
	"fmt"
	"time"

	"github.com/openconcept/enginedeck/pkg/logging"
)

// DefaultDomainMargin widens the training envelope by 5% of each
// dimension's range before a query is flagged as out of domain. Line
// searches routinely probe a little past the table edges; flagging every
// such probe would drown the caller in warnings.
const DefaultDomainMargin = 0.05

// Config tunes deck behavior. The zero value is usable.
type Config struct {
	// DomainMargin is the out-of-domain tolerance as a fraction of each
	// input dimension's training range. Negative values disable the
	// check entirely. Default: DefaultDomainMargin.
	DomainMargin float64

	// Logger receives a Warn entry per out-of-domain dimension.
	// Default: logging.Default().
	Logger *logging.Logger
}

// InputSpec names one input dimension of a deck.
type InputSpec struct {
	// Name identifies the dimension, e.g. "altitude".
	Name string
	// Units is a display hint, e.g. "ft". May be empty.
	Units string
}

// OutputSpec names one output quantity of a deck.
type OutputSpec struct {
	// Name identifies the quantity, e.g. "thrust".
	Name string
	// Units is a display hint, e.g. "lbf". May be empty.
	Units string
}

// Result is the transient product of one Evaluate call. It is valid for
// the lifetime of the call that produced it and shares no state with the
// deck.
type Result struct {
	// Outputs maps output name to predicted value in raw units.
	Outputs map[string]float64

	// Jacobian maps output name to the gradient of that output with
	// respect to each input dimension, in raw units, ordered like
	// Deck.Inputs.
	Jacobian map[string][]float64

	// Warnings lists the input dimensions, if any, on which the query
	// left the training envelope by more than the configured margin.
	// Non-empty warnings do not invalidate Outputs or Jacobian.
	Warnings []DomainWarning
}

// Deck is the public-facing engine-deck surrogate: one Kriging predictor
// per output quantity of a single named engine, sharing one correlation
// model, behind a single evaluate-with-derivatives contract.
//
// The output set is configuration-driven per engine. A turbofan deck
// typically exposes thrust and fuel flow; hybrid variants add shaft
// power or battery draw. Nothing in the deck hard-codes the quantity
// names.
//
// Decks are immutable after construction and safe for concurrent
// Evaluate calls.
type Deck struct {
	engine  string
	inputs  []InputSpec
	outputs []OutputSpec

	kernel     *GaussianKernel
	predictors []*Predictor

	margin float64
	logger *logging.Logger
}

// NewDeck assembles a deck from a validated artifact.
//
// Inputs:
//   - art: Training artifact for one engine (see Artifact).
//   - cfg: Deck configuration; zero value for defaults.
//
// Outputs:
//   - *Deck: Immutable deck ready for concurrent evaluation.
//   - error: Wraps ErrDataShape on any inconsistency between the sample
//     table, the length-scales, and the per-output weight vectors.
func NewDeck(art Artifact, cfg Config) (*Deck, error) {
	if err := art.validateShape(); err != nil {
		return nil, fmt.Errorf("engine %q: %w", art.Engine, err)
	}

	kernel, err := NewGaussianKernel(art.Theta)
	if err != nil {
		return nil, fmt.Errorf("engine %q: %w", art.Engine, err)
	}

	d := &Deck{
		engine: art.Engine,
		kernel: kernel,
		margin: cfg.DomainMargin,
		logger: cfg.Logger,
	}
	if d.margin == 0 {
		d.margin = DefaultDomainMargin
	}
	if d.logger == nil {
		d.logger = logging.Default()
	}

	for _, in := range art.Inputs {
		d.inputs = append(d.inputs, InputSpec{Name: in.Name, Units: in.Units})
	}

	for _, out := range art.Outputs {
		store, err := NewSampleStore(art.Samples, out.Observed)
		if err != nil {
			return nil, fmt.Errorf("engine %q output %q: %w", art.Engine, out.Name, err)
		}
		pred, err := NewPredictor(store, kernel, out.Trend, out.Weights)
		if err != nil {
			return nil, fmt.Errorf("engine %q output %q: %w", art.Engine, out.Name, err)
		}
		d.predictors = append(d.predictors, pred)
		d.outputs = append(d.outputs, OutputSpec{Name: out.Name, Units: out.Units})
	}

	return d, nil
}

// Engine returns the deck's engine name.
func (d *Deck) Engine() string { return d.engine }

// Inputs returns the ordered input dimension specs.
func (d *Deck) Inputs() []InputSpec { return d.inputs }

// Outputs returns the ordered output quantity specs.
func (d *Deck) Outputs() []OutputSpec { return d.outputs }

// SampleCount returns the number of training samples behind the deck.
func (d *Deck) SampleCount() int { return d.predictors[0].Store().Count() }

// Evaluate computes every output and the full Jacobian at one operating
// point in a single pass. The correlation vector and its Jacobian are
// computed once per call and shared by all outputs; they live in a
// per-call workspace, never in deck state, so concurrent calls do not
// interact.
//
// Inputs:
//   - ctx: Used for metric attribution only; evaluation never blocks.
//   - point: Operating point in raw units, ordered like Inputs().
//
// Outputs:
//   - *Result: Values, Jacobian, and any domain warnings.
//   - error: Wraps ErrDataShape if the point has the wrong width.
func (d *Deck) Evaluate(ctx context.Context, point []float64) (*Result, error) {
	start := time.Now()

	// All predictors share the sample coordinates and normalization
	// statistics, so the first store normalizes for everyone.
	base := d.predictors[0].Store()
	xn, err := base.NormalizeInput(point)
	if err != nil {
		return nil, fmt.Errorf("engine %q: %w", d.engine, err)
	}

	res := &Result{
		Outputs:  make(map[string]float64, len(d.outputs)),
		Jacobian: make(map[string][]float64, len(d.outputs)),
		Warnings: d.checkDomain(point),
	}

	corr := d.kernel.Correlate(xn, base.Samples())
	jac := d.kernel.CorrelateJacobian(xn, base.Samples(), corr)

	for i, pred := range d.predictors {
		name := d.outputs[i].Name
		store := pred.Store()
		res.Outputs[name] = store.DenormalizeOutput(pred.valueFromCorrelation(corr))
		res.Jacobian[name] = store.DenormalizeGradient(pred.gradientFromJacobian(jac))
	}

	recordEvaluation(ctx, d.engine, len(res.Warnings), time.Since(start))
	return res, nil
}

// checkDomain compares the raw query against the training envelope
// widened by the configured margin and logs one warning per offending
// dimension.
func (d *Deck) checkDomain(point []float64) []DomainWarning {
	if d.margin < 0 {
		return nil
	}
	base := d.predictors[0].Store()
	var warnings []DomainWarning
	for i := range d.inputs {
		lo, hi := base.Envelope(i)
		slack := (hi - lo) * d.margin
		low, high := lo-slack, hi+slack
		if point[i] < low || point[i] > high {
			w := DomainWarning{Input: d.inputs[i].Name, Value: point[i], Low: low, High: high}
			warnings = append(warnings, w)
			d.logger.Warn("query outside training envelope",
				"engine", d.engine,
				"input", w.Input,
				"value", w.Value,
				"low", w.Low,
				"high", w.High,
			)
		}
	}
	return warnings
}
