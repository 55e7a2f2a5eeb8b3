// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package surrogate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testArtifact builds a two-output deck artifact over the thrust table,
// fitting both weight vectors in place of the offline training step.
func testArtifact(t *testing.T) Artifact {
	t.Helper()

	samples := [][]float64{
		{0, 0.2},
		{10000, 0.2},
		{0, 0.8},
		{10000, 0.8},
	}
	theta := []float64{1, 1}
	observed := map[string][]float64{
		"thrust":    {10000, 8000, 9000, 7200},
		"fuel_flow": {3000, 2600, 3900, 3300},
	}

	kernel, err := NewGaussianKernel(theta)
	require.NoError(t, err)

	art := Artifact{
		Engine: "testdeck",
		Inputs: []ArtifactInput{
			{Name: "altitude", Units: "ft"},
			{Name: "mach"},
		},
		Theta:   theta,
		Samples: samples,
	}
	for _, name := range []string{"thrust", "fuel_flow"} {
		store, err := NewSampleStore(samples, observed[name])
		require.NoError(t, err)
		art.Outputs = append(art.Outputs, ArtifactOutput{
			Name:     name,
			Units:    "lbf",
			Observed: observed[name],
			Weights:  fitWeights(t, store, kernel),
		})
	}
	return art
}

func TestNewDeck_PropagatesShapeErrors(t *testing.T) {
	t.Run("theta count mismatch", func(t *testing.T) {
		art := testArtifact(t)
		art.Theta = []float64{1}
		_, err := NewDeck(art, Config{})
		assert.True(t, errors.Is(err, ErrDataShape))
	})

	t.Run("observed count mismatch", func(t *testing.T) {
		art := testArtifact(t)
		art.Outputs[0].Observed = art.Outputs[0].Observed[:3]
		_, err := NewDeck(art, Config{})
		assert.True(t, errors.Is(err, ErrDataShape))
	})

	t.Run("weight count mismatch", func(t *testing.T) {
		art := testArtifact(t)
		art.Outputs[1].Weights = art.Outputs[1].Weights[:2]
		_, err := NewDeck(art, Config{})
		assert.True(t, errors.Is(err, ErrDataShape))
	})
}

func TestDeck_Accessors(t *testing.T) {
	deck, err := NewDeck(testArtifact(t), Config{})
	require.NoError(t, err)

	assert.Equal(t, "testdeck", deck.Engine())
	assert.Equal(t, 4, deck.SampleCount())

	inputs := deck.Inputs()
	require.Len(t, inputs, 2)
	assert.Equal(t, "altitude", inputs[0].Name)
	assert.Equal(t, "ft", inputs[0].Units)
	assert.Equal(t, "mach", inputs[1].Name)

	outputs := deck.Outputs()
	require.Len(t, outputs, 2)
	assert.Equal(t, "thrust", outputs[0].Name)
	assert.Equal(t, "fuel_flow", outputs[1].Name)
}

func TestDeck_Evaluate(t *testing.T) {
	art := testArtifact(t)
	deck, err := NewDeck(art, Config{})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("every output carries a value and full-width gradient", func(t *testing.T) {
		res, err := deck.Evaluate(ctx, []float64{5000, 0.5})
		require.NoError(t, err)

		require.Len(t, res.Outputs, 2)
		require.Len(t, res.Jacobian, 2)
		for _, spec := range deck.Outputs() {
			assert.Contains(t, res.Outputs, spec.Name)
			assert.Len(t, res.Jacobian[spec.Name], 2)
		}
		assert.Empty(t, res.Warnings)
	})

	t.Run("matches the per-output predictors", func(t *testing.T) {
		// The shared-workspace path must agree with evaluating each
		// output's predictor on its own.
		kernel, err := NewGaussianKernel(art.Theta)
		require.NoError(t, err)

		point := []float64{3000, 0.33}
		res, err := deck.Evaluate(ctx, point)
		require.NoError(t, err)

		for _, out := range art.Outputs {
			store, err := NewSampleStore(art.Samples, out.Observed)
			require.NoError(t, err)
			pred, err := NewPredictor(store, kernel, out.Trend, out.Weights)
			require.NoError(t, err)

			value, grad, err := pred.PredictWithGradient(point)
			require.NoError(t, err)
			assert.InDelta(t, value, res.Outputs[out.Name], 1e-9)
			for d := range grad {
				assert.InDelta(t, grad[d], res.Jacobian[out.Name][d], 1e-9)
			}
		}
	})

	t.Run("reproduces the training table", func(t *testing.T) {
		res, err := deck.Evaluate(ctx, []float64{10000, 0.8})
		require.NoError(t, err)
		assert.InDelta(t, 7200, res.Outputs["thrust"], 1e-6)
		assert.InDelta(t, 3300, res.Outputs["fuel_flow"], 1e-6)
	})

	t.Run("wrong point width", func(t *testing.T) {
		_, err := deck.Evaluate(ctx, []float64{5000})
		assert.True(t, errors.Is(err, ErrDataShape))
	})
}

func TestDeck_DomainWarnings(t *testing.T) {
	ctx := context.Background()

	t.Run("inside the margin is silent", func(t *testing.T) {
		deck, err := NewDeck(testArtifact(t), Config{})
		require.NoError(t, err)

		// 5% margin on a 10000 ft envelope allows 500 ft of slack.
		res, err := deck.Evaluate(ctx, []float64{10400, 0.5})
		require.NoError(t, err)
		assert.Empty(t, res.Warnings)
	})

	t.Run("beyond the margin warns without failing", func(t *testing.T) {
		deck, err := NewDeck(testArtifact(t), Config{})
		require.NoError(t, err)

		res, err := deck.Evaluate(ctx, []float64{12000, 0.95})
		require.NoError(t, err)
		require.Len(t, res.Warnings, 2)

		w := res.Warnings[0]
		assert.Equal(t, "altitude", w.Input)
		assert.Equal(t, 12000.0, w.Value)
		assert.Equal(t, -500.0, w.Low)
		assert.Equal(t, 10500.0, w.High)

		assert.Equal(t, "mach", res.Warnings[1].Input)

		// Prediction still present for every output.
		assert.Len(t, res.Outputs, 2)
	})

	t.Run("negative margin disables the check", func(t *testing.T) {
		deck, err := NewDeck(testArtifact(t), Config{DomainMargin: -1})
		require.NoError(t, err)

		res, err := deck.Evaluate(ctx, []float64{1e6, 10})
		require.NoError(t, err)
		assert.Empty(t, res.Warnings)
	})
}
