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
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/openconcept/enginedeck/pkg/validation"
)

// Registry maps engine names to deck artifacts in a directory and
// constructs decks on first use. Construction is the only I/O in the
// package; once built, a deck is cached and shared.
//
// Registry is safe for concurrent use.
type Registry struct {
	cfg   Config
	paths map[string]string

	mu    sync.Mutex
	decks map[string]*Deck
}

// OpenRegistry scans dir for deck artifacts (*.yaml, *.yml). The engine
// name is the file stem; the artifact's own engine field is checked
// against it at load time.
//
// Outputs:
//   - *Registry: Lazy deck registry.
//   - error: Wraps ErrModelLoad if the directory cannot be read or holds
//     no artifacts.
func OpenRegistry(dir string, cfg Config) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelLoad, dir, err)
	}

	paths := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		paths[name] = filepath.Join(dir, e.Name())
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no deck artifacts in %s", ErrModelLoad, dir)
	}

	return &Registry{
		cfg:   cfg,
		paths: paths,
		decks: make(map[string]*Deck),
	}, nil
}

// Names returns the registered engine names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.paths))
	for name := range r.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Deck returns the deck for an engine name, constructing and caching it
// on first call.
//
// Outputs:
//   - *Deck: Shared deck instance; safe for concurrent evaluation.
//   - error: Wraps ErrModelLoad for invalid or unknown engine names, unreadable
//     artifacts, or an artifact whose engine field disagrees with its
//     file name.
func (r *Registry) Deck(name string) (*Deck, error) {
	// Names often arrive from CLI flags; reject anything path-shaped
	// before it gets near the filesystem.
	if err := validation.ValidateEngineName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if deck, ok := r.decks[name]; ok {
		return deck, nil
	}

	path, ok := r.paths[name]
	if !ok {
		return nil, fmt.Errorf("%w: no artifact for engine %q", ErrModelLoad, name)
	}

	deck, err := LoadDeck(path, r.cfg)
	if err != nil {
		return nil, err
	}
	if deck.Engine() != name {
		return nil, fmt.Errorf("%w: artifact %s declares engine %q, file stem is %q", ErrModelLoad, path, deck.Engine(), name)
	}

	r.decks[name] = deck
	return deck, nil
}
