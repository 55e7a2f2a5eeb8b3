// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command deckctl inspects and evaluates packaged engine-deck
// surrogates from the command line.
//
// Usage:
//
//	deckctl decks
//	deckctl eval --deck n3 --alt 5000 --mach 0.5 --throttle 0.7
//	deckctl gradcheck --deck n3
//	deckctl sweep --deck n3 --alt 0:35000 --mach 0.2:0.8 --steps 10
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
