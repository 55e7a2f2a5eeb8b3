// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation for values that end up
// in file paths.
//
// Deck names arrive from CLI flags and are joined into artifact paths;
// validating them first rules out path traversal ("../../etc/passwd")
// and separator smuggling.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// enginePattern matches valid engine deck names.
// Allows: lowercase letters, digits, then dots, hyphens, underscores.
// Max length: 64 characters.
var enginePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._\-]{0,63}$`)

// ValidateEngineName validates an engine deck name before it is used as
// a file stem.
//
// Valid names:
//   - 1-64 characters
//   - Lowercase letters a-z and digits 0-9
//   - Dots (.), hyphens (-), and underscores (_) after the first character
//
// Outputs:
//   - error: Non-nil with the reason when the name is invalid.
func ValidateEngineName(name string) error {
	if name == "" {
		return fmt.Errorf("engine name is empty")
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("engine name %q contains a parent-directory reference", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("engine name %q contains a path separator", name)
	}
	if !enginePattern.MatchString(name) {
		return fmt.Errorf("engine name %q is invalid: want 1-64 chars of [a-z0-9._-] starting with a letter or digit", name)
	}
	return nil
}
