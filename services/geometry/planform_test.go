// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrapezoidalMAC(t *testing.T) {
	t.Run("known trapezoid", func(t *testing.T) {
		// S = 100 m^2, AR = 8, taper 0.5: c_root = 2*sqrt(S/AR)/(1+taper),
		// MAC = (2/3) c_root (1 + t + t^2)/(1 + t).
		mac, _ := TrapezoidalMAC(100, 8, 0.5)
		cRoot := 2 * math.Sqrt(100.0/8.0) / 1.5
		want := 2.0 / 3.0 * cRoot * 1.75 / 1.5
		assert.InDelta(t, want, mac, 1e-12)
	})

	t.Run("rectangular wing MAC equals chord", func(t *testing.T) {
		// taper 1: chord = sqrt(S/AR) everywhere.
		mac, _ := TrapezoidalMAC(90, 10, 1)
		assert.InDelta(t, math.Sqrt(9), mac, 1e-12)
	})

	t.Run("partials match central differences", func(t *testing.T) {
		const h = 1e-6
		area, aspect, taper := 135.0, 9.5, 0.42

		_, grad := TrapezoidalMAC(area, aspect, taper)
		require.Len(t, grad, 3)

		eval := func(s, ar, tp float64) float64 {
			mac, _ := TrapezoidalMAC(s, ar, tp)
			return mac
		}
		numeric := []float64{
			(eval(area+h, aspect, taper) - eval(area-h, aspect, taper)) / (2 * h),
			(eval(area, aspect+h, taper) - eval(area, aspect-h, taper)) / (2 * h),
			(eval(area, aspect, taper+h) - eval(area, aspect, taper-h)) / (2 * h),
		}
		for d := range grad {
			assert.InDelta(t, numeric[d], grad[d], 1e-6, "dim %d", d)
		}
	})
}

func TestSpan(t *testing.T) {
	b, grad := Span(100, 9)
	assert.InDelta(t, 30, b, 1e-12)

	const h = 1e-6
	numArea := (math.Sqrt((100+h)*9) - math.Sqrt((100-h)*9)) / (2 * h)
	numAspect := (math.Sqrt(100*(9+h)) - math.Sqrt(100*(9-h))) / (2 * h)
	assert.InDelta(t, numArea, grad[0], 1e-9)
	assert.InDelta(t, numAspect, grad[1], 1e-9)
}

func TestAspectRatio(t *testing.T) {
	ar, grad := AspectRatio(100, 30)
	assert.InDelta(t, 9, ar, 1e-12)
	assert.InDelta(t, -9.0/100.0, grad[0], 1e-12)
	assert.InDelta(t, 60.0/100.0, grad[1], 1e-12)

	// Span and AspectRatio invert each other.
	b, _ := Span(100, ar)
	assert.InDelta(t, 30, b, 1e-9)
}

// sweptTestPlanform is a three-section half-wing, tip section first.
func sweptTestPlanform() SectionPlanform {
	return SectionPlanform{
		LeadingEdgeX: []float64{5.2, 2.6, 0},
		SpanY:        []float64{-14, -7},
		Chord:        []float64{1.5, 3.0, 4.5},
	}
}

func TestQuarterChordSweep(t *testing.T) {
	t.Run("unswept rectangular wing", func(t *testing.T) {
		p := SectionPlanform{
			LeadingEdgeX: []float64{0, 0},
			SpanY:        []float64{-10},
			Chord:        []float64{2, 2},
		}
		sweep, err := QuarterChordSweep(p)
		require.NoError(t, err)
		assert.InDelta(t, 0, sweep, 1e-12)
	})

	t.Run("uniformly swept wing", func(t *testing.T) {
		// Constant chord with the quarter-chord line set back 1 m per
		// 1 m of span gives 45 degrees on every panel.
		p := SectionPlanform{
			LeadingEdgeX: []float64{10, 5, 0},
			SpanY:        []float64{-10, -5},
			Chord:        []float64{2, 2, 2},
		}
		sweep, err := QuarterChordSweep(p)
		require.NoError(t, err)
		assert.InDelta(t, 45, sweep, 1e-9)
	})

	t.Run("section count validation", func(t *testing.T) {
		p := sweptTestPlanform()
		p.Chord = p.Chord[:2]
		_, err := QuarterChordSweep(p)
		assert.Error(t, err)

		p = sweptTestPlanform()
		p.SpanY = append(p.SpanY, -1)
		_, err = QuarterChordSweep(p)
		assert.Error(t, err)

		_, err = QuarterChordSweep(SectionPlanform{LeadingEdgeX: []float64{0}, Chord: []float64{1}})
		assert.Error(t, err)
	})
}

func TestQuarterChordSweepPartials(t *testing.T) {
	p := sweptTestPlanform()

	dLE, dY, dChord, err := QuarterChordSweepPartials(p)
	require.NoError(t, err)
	require.Len(t, dLE, 3)
	require.Len(t, dY, 2)
	require.Len(t, dChord, 3)

	t.Run("planform restored after differencing", func(t *testing.T) {
		assert.Equal(t, sweptTestPlanform(), p)
	})

	t.Run("partials match an independent difference", func(t *testing.T) {
		const h = 1e-5
		check := func(values []float64, i int, got float64) {
			orig := values[i]
			values[i] = orig + h
			hi, err := QuarterChordSweep(p)
			require.NoError(t, err)
			values[i] = orig - h
			lo, err := QuarterChordSweep(p)
			require.NoError(t, err)
			values[i] = orig
			assert.InDelta(t, (hi-lo)/(2*h), got, 1e-4)
		}
		for i := range p.LeadingEdgeX {
			check(p.LeadingEdgeX, i, dLE[i])
		}
		for i := range p.SpanY {
			check(p.SpanY, i, dY[i])
		}
		for i := range p.Chord {
			check(p.Chord, i, dChord[i])
		}
	})
}
