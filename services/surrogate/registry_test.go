// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package surrogate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDeckDir lays out a registry directory with the named artifacts,
// each declaring its file stem as its engine.
func writeDeckDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		content := strings.Replace(validArtifactYAML, "engine: mini", "engine: "+name, 1)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0o644))
	}
	return dir
}

func TestOpenRegistry(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := OpenRegistry(filepath.Join(t.TempDir(), "absent"), Config{})
		assert.True(t, errors.Is(err, ErrModelLoad))
	})

	t.Run("directory without artifacts", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))
		_, err := OpenRegistry(dir, Config{})
		assert.True(t, errors.Is(err, ErrModelLoad))
	})

	t.Run("names are sorted", func(t *testing.T) {
		reg, err := OpenRegistry(writeDeckDir(t, "zeta", "alpha", "mid"), Config{})
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Names())
	})
}

func TestRegistry_Deck(t *testing.T) {
	t.Run("loads and caches", func(t *testing.T) {
		reg, err := OpenRegistry(writeDeckDir(t, "alpha"), Config{})
		require.NoError(t, err)

		first, err := reg.Deck("alpha")
		require.NoError(t, err)
		assert.Equal(t, "alpha", first.Engine())

		second, err := reg.Deck("alpha")
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("path-shaped name rejected", func(t *testing.T) {
		reg, err := OpenRegistry(writeDeckDir(t, "alpha"), Config{})
		require.NoError(t, err)
		for _, name := range []string{"../alpha", "decks/alpha", ""} {
			_, err = reg.Deck(name)
			assert.True(t, errors.Is(err, ErrModelLoad), "name %q", name)
		}
	})

	t.Run("unknown engine", func(t *testing.T) {
		reg, err := OpenRegistry(writeDeckDir(t, "alpha"), Config{})
		require.NoError(t, err)
		_, err = reg.Deck("beta")
		assert.True(t, errors.Is(err, ErrModelLoad))
	})

	t.Run("engine field must match file stem", func(t *testing.T) {
		dir := t.TempDir()
		// Artifact declares "mini" but the file is named other.yaml.
		require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte(validArtifactYAML), 0o644))

		reg, err := OpenRegistry(dir, Config{})
		require.NoError(t, err)
		_, err = reg.Deck("other")
		assert.True(t, errors.Is(err, ErrModelLoad))
	})
}
