// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package surrogate

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Artifact is the persisted training product for one engine deck: the
// tabulated input coordinates, the observed outputs per quantity, and
// the fitted kernel, weight, and trend parameters. The offline training
// step writes these as YAML; the runtime only ever reads them.
//
// In a dynamically-typed host these would be loosely-typed dictionaries
// of floats. Here they are fixed-shape numeric vectors validated at
// load time.
type Artifact struct {
	// Engine is the deck name, e.g. "n3" or "n3-hybrid".
	Engine string `yaml:"engine" validate:"required"`

	// Inputs names the input dimensions in sample-column order.
	Inputs []ArtifactInput `yaml:"inputs" validate:"required,min=1,dive"`

	// Theta holds the fitted per-dimension length-scales, one per input.
	Theta []float64 `yaml:"theta" validate:"required,min=1"`

	// Samples is the raw training table, one row per sample, one column
	// per input dimension.
	Samples [][]float64 `yaml:"samples" validate:"required,min=1"`

	// Outputs holds one block per output quantity.
	Outputs []ArtifactOutput `yaml:"outputs" validate:"required,min=1,dive"`
}

// ArtifactInput names one input dimension.
type ArtifactInput struct {
	Name  string `yaml:"name" validate:"required"`
	Units string `yaml:"units"`
}

// ArtifactOutput is the fitted model for one output quantity.
type ArtifactOutput struct {
	Name  string `yaml:"name" validate:"required"`
	Units string `yaml:"units"`

	// Observed lists the raw observed outputs, one per training sample.
	Observed []float64 `yaml:"observed" validate:"required,min=1"`

	// Trend is the fitted regression constant in normalized space.
	Trend float64 `yaml:"trend"`

	// Weights is the fitted weight vector, one entry per training sample.
	Weights []float64 `yaml:"weights" validate:"required,min=1"`
}

// structValidate is shared; validator instances cache struct metadata.
var structValidate = validator.New(validator.WithRequiredStructEnabled())

// validateShape checks the cross-field consistency the struct tags
// cannot express: sample-count agreement across inputs, outputs, and
// weights, and length-scale count equal to the input dimensionality.
func (a Artifact) validateShape() error {
	if err := structValidate.Struct(a); err != nil {
		return fmt.Errorf("%w: %v", ErrDataShape, err)
	}

	dim := len(a.Inputs)
	if len(a.Theta) != dim {
		return fmt.Errorf("%w: %d length-scales for %d input dimensions", ErrDataShape, len(a.Theta), dim)
	}
	for i, row := range a.Samples {
		if len(row) != dim {
			return fmt.Errorf("%w: sample row %d has %d coordinates, want %d", ErrDataShape, i, len(row), dim)
		}
	}
	count := len(a.Samples)
	for _, out := range a.Outputs {
		if len(out.Observed) != count {
			return fmt.Errorf("%w: output %q has %d observations for %d samples", ErrDataShape, out.Name, len(out.Observed), count)
		}
		if len(out.Weights) != count {
			return fmt.Errorf("%w: output %q has %d weights for %d samples", ErrDataShape, out.Name, len(out.Weights), count)
		}
	}
	return nil
}

// LoadArtifact reads and shape-validates a deck artifact file.
//
// Outputs:
//   - Artifact: Parsed artifact, valid for NewDeck.
//   - error: Wraps ErrModelLoad for a missing or unparseable file, and
//     additionally ErrDataShape when the contents are inconsistent.
func LoadArtifact(path string) (Artifact, error) {
	var art Artifact

	data, err := os.ReadFile(path)
	if err != nil {
		return art, fmt.Errorf("%w: %s: %v", ErrModelLoad, path, err)
	}
	if err := yaml.Unmarshal(data, &art); err != nil {
		return art, fmt.Errorf("%w: %s: %v", ErrModelLoad, path, err)
	}
	if err := art.validateShape(); err != nil {
		return art, fmt.Errorf("%w: %s: %w", ErrModelLoad, path, err)
	}
	return art, nil
}

// LoadDeck loads an artifact file and constructs the deck in one step.
// Failure here is fatal for the engine: the deck is unusable without its
// packaged data.
//
// Outputs:
//   - *Deck: Ready for concurrent evaluation.
//   - error: Wraps ErrModelLoad.
func LoadDeck(path string, cfg Config) (*Deck, error) {
	art, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	deck, err := NewDeck(art, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelLoad, path, err)
	}
	return deck, nil
}
