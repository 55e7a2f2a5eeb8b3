package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openconcept/enginedeck/services/surrogate"
)

// deckInfo is the JSON shape for one listed deck.
type deckInfo struct {
	Engine  string   `json:"engine"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
	Samples int      `json:"samples"`
}

// runDecks lists every deck artifact in the deck directory along with
// its input and output quantities.
func runDecks(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	defer logger.Close()

	reg, err := surrogate.OpenRegistry(deckDir, surrogate.Config{Logger: logger})
	if err != nil {
		return err
	}

	var infos []deckInfo
	for _, name := range reg.Names() {
		deck, err := reg.Deck(name)
		if err != nil {
			return err
		}
		info := deckInfo{Engine: deck.Engine()}
		for _, in := range deck.Inputs() {
			info.Inputs = append(info.Inputs, in.Name)
		}
		for _, out := range deck.Outputs() {
			info.Outputs = append(info.Outputs, out.Name)
		}
		info.Samples = deck.SampleCount()
		infos = append(infos, info)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	for _, info := range infos {
		fmt.Printf("%s\n", info.Engine)
		fmt.Printf("  inputs:  %v\n", info.Inputs)
		fmt.Printf("  outputs: %v\n", info.Outputs)
	}
	return nil
}
