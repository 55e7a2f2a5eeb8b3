// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package geometry provides wing planform relations with analytic
// partial derivatives.
//
// Each function returns its value together with the exact partials with
// respect to its inputs, in the documented order, so callers can feed
// them straight into a gradient-based solver next to the engine-deck
// Jacobians. The quarter-chord sweep is the one exception: its partials
// are central-differenced, matching the original formulation.
package geometry

import (
	"fmt"
	"math"
)

// TrapezoidalMAC computes the mean aerodynamic chord of a trapezoidal
// planform from planform area (m^2), aspect ratio, and taper ratio.
//
// Outputs:
//   - float64: MAC in m.
//   - []float64: Partials [dMAC/dArea, dMAC/dAspect, dMAC/dTaper].
func TrapezoidalMAC(area, aspect, taper float64) (float64, []float64) {
	cRoot := math.Sqrt(area/aspect) * 2 / (1 + taper)
	cTip := taper * cRoot

	mac := 2.0 / 3.0 * (cRoot + cTip - cRoot*cTip/(cRoot+cTip))

	dcrDArea := 0.5 / math.Sqrt(area*aspect) * 2 / (1 + taper)
	dcrDAspect := -0.5 * math.Sqrt(area) / math.Pow(aspect, 1.5) * 2 / (1 + taper)
	dcrDTaper := -math.Sqrt(area/aspect) * 2 / ((1 + taper) * (1 + taper))

	sum := cRoot + cTip
	dmacDcr := 2.0 / 3.0 * (1 - cTip*cTip/(sum*sum))
	dmacDct := 2.0 / 3.0 * (1 - cRoot*cRoot/(sum*sum))

	return mac, []float64{
		(dmacDcr + dmacDct*taper) * dcrDArea,
		(dmacDcr + dmacDct*taper) * dcrDAspect,
		(dmacDcr+dmacDct*taper)*dcrDTaper + dmacDct*cRoot,
	}
}

// Span computes the wing span from planform area (m^2) and aspect
// ratio: b = sqrt(S * AR).
//
// Outputs:
//   - float64: Span in m.
//   - []float64: Partials [dSpan/dArea, dSpan/dAspect].
func Span(area, aspect float64) (float64, []float64) {
	b := math.Sqrt(area * aspect)
	return b, []float64{
		0.5 * math.Sqrt(aspect/area),
		0.5 * math.Sqrt(area/aspect),
	}
}

// AspectRatio computes the aspect ratio from span (m) and planform area
// (m^2): AR = b^2 / S.
//
// Outputs:
//   - float64: Aspect ratio.
//   - []float64: Partials [dAR/dArea, dAR/dSpan].
func AspectRatio(area, span float64) (float64, []float64) {
	return span * span / area, []float64{
		-span * span / (area * area),
		2 * span / area,
	}
}

// SectionPlanform defines a wing half-span by sections, outboard (tip)
// first and moving inboard toward the root, as a sectional
// aerostructural mesh would.
type SectionPlanform struct {
	// LeadingEdgeX is the streamwise offset of each section's leading
	// edge, m. Length = number of sections.
	LeadingEdgeX []float64

	// SpanY is the spanwise location of each section except the root,
	// m; the root is always at 0 and is not listed. Most negative value
	// first (wing tip). Length = number of sections - 1.
	SpanY []float64

	// Chord is the chord of each section, m. Length = number of
	// sections.
	Chord []float64
}

// validate checks section-count consistency.
func (p SectionPlanform) validate() error {
	n := len(p.LeadingEdgeX)
	if n < 2 {
		return fmt.Errorf("planform needs at least 2 sections, have %d", n)
	}
	if len(p.Chord) != n {
		return fmt.Errorf("planform has %d chords for %d sections", len(p.Chord), n)
	}
	if len(p.SpanY) != n-1 {
		return fmt.Errorf("planform has %d span stations for %d sections, want %d", len(p.SpanY), n, n-1)
	}
	return nil
}

// QuarterChordSweep computes the average quarter-chord sweep angle of a
// sectional planform, weighted by panel areas, in degrees.
//
// Outputs:
//   - float64: Area-weighted quarter-chord sweep, deg.
//   - error: Non-nil if the section counts are inconsistent.
func QuarterChordSweep(p SectionPlanform) (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}

	n := len(p.LeadingEdgeX)
	y := make([]float64, n)
	copy(y, p.SpanY)
	y[n-1] = 0 // root station

	quarter := make([]float64, n)
	for i := range quarter {
		quarter[i] = p.LeadingEdgeX[i] + 0.25*p.Chord[i]
	}

	var weighted, total float64
	for i := 0; i < n-1; i++ {
		width := y[i+1] - y[i]
		setback := quarter[i] - quarter[i+1]
		sweep := math.Atan(setback/width) * 180 / math.Pi
		area := 0.5 * (p.Chord[i] + p.Chord[i+1]) * width
		weighted += sweep * area
		total += area
	}
	return weighted / total, nil
}

// sweepStep is the central-difference step for sweep partials, m.
const sweepStep = 1e-6

// QuarterChordSweepPartials computes the partials of the area-weighted
// sweep with respect to every planform coordinate by central
// differences, mirroring the original formulation which declared these
// partials numerically rather than in closed form.
//
// The planform's slices are perturbed and restored in place; do not
// share them with another goroutine during this call.
//
// Outputs:
//   - []float64: d(sweep)/d(LeadingEdgeX), one per section.
//   - []float64: d(sweep)/d(SpanY), one per interior station.
//   - []float64: d(sweep)/d(Chord), one per section.
//   - error: Non-nil if the section counts are inconsistent.
func QuarterChordSweepPartials(p SectionPlanform) (dLE, dY, dChord []float64, err error) {
	if err := p.validate(); err != nil {
		return nil, nil, nil, err
	}

	diff := func(values []float64, i int) (float64, error) {
		orig := values[i]
		values[i] = orig + sweepStep
		hi, err := QuarterChordSweep(p)
		if err != nil {
			values[i] = orig
			return 0, err
		}
		values[i] = orig - sweepStep
		lo, err := QuarterChordSweep(p)
		values[i] = orig
		if err != nil {
			return 0, err
		}
		return (hi - lo) / (2 * sweepStep), nil
	}

	dLE = make([]float64, len(p.LeadingEdgeX))
	for i := range p.LeadingEdgeX {
		if dLE[i], err = diff(p.LeadingEdgeX, i); err != nil {
			return nil, nil, nil, err
		}
	}
	dY = make([]float64, len(p.SpanY))
	for i := range p.SpanY {
		if dY[i], err = diff(p.SpanY, i); err != nil {
			return nil, nil, nil, err
		}
	}
	dChord = make([]float64, len(p.Chord))
	for i := range p.Chord {
		if dChord[i], err = diff(p.Chord, i); err != nil {
			return nil, nil, nil, err
		}
	}
	return dLE, dY, dChord, nil
}
