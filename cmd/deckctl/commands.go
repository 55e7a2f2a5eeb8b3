package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openconcept/enginedeck/pkg/logging"
	"github.com/openconcept/enginedeck/services/surrogate"
)

// --- Global Command Variables ---
var (
	deckDir    string
	deckName   string
	jsonOutput bool
	verbose    bool

	altFt    float64
	mach     float64
	throttle float64

	gradSteps int

	sweepAlt      string
	sweepMach     string
	sweepThrottle float64
	sweepSteps    int
	sweepParallel int

	rootCmd = &cobra.Command{
		Use:   "deckctl",
		Short: "Inspect and evaluate packaged engine-deck surrogates",
		Long: `deckctl loads trained engine-deck surrogate artifacts and
evaluates them at operating points, including their analytic Jacobians.`,
	}

	decksCmd = &cobra.Command{
		Use:   "decks",
		Short: "List the engine decks in the deck directory",
		RunE:  runDecks, // Defined in cmd_decks.go
	}

	evalCmd = &cobra.Command{
		Use:   "eval",
		Short: "Evaluate one deck at one operating point",
		RunE:  runEval, // Defined in cmd_eval.go
	}

	gradcheckCmd = &cobra.Command{
		Use:   "gradcheck",
		Short: "Compare analytic Jacobians against central differences",
		RunE:  runGradcheck, // Defined in cmd_gradcheck.go
	}

	sweepCmd = &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate a deck over an altitude/Mach grid",
		RunE:  runSweep, // Defined in cmd_sweep.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&deckDir, "deck-dir", "data/decks", "Directory holding deck artifacts")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of text")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(decksCmd)

	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&deckName, "deck", "", "Engine deck name (required)")
	evalCmd.Flags().Float64Var(&altFt, "alt", 0, "Altitude, ft")
	evalCmd.Flags().Float64Var(&mach, "mach", 0, "Mach number")
	evalCmd.Flags().Float64Var(&throttle, "throttle", 1, "Throttle setting")
	_ = evalCmd.MarkFlagRequired("deck")

	rootCmd.AddCommand(gradcheckCmd)
	gradcheckCmd.Flags().StringVar(&deckName, "deck", "", "Engine deck name (required)")
	gradcheckCmd.Flags().IntVar(&gradSteps, "steps", 5, "Grid points per input dimension")
	_ = gradcheckCmd.MarkFlagRequired("deck")

	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().StringVar(&deckName, "deck", "", "Engine deck name (required)")
	sweepCmd.Flags().StringVar(&sweepAlt, "alt", "0:35000", "Altitude range, ft (lo:hi)")
	sweepCmd.Flags().StringVar(&sweepMach, "mach", "0:0.8", "Mach range (lo:hi)")
	sweepCmd.Flags().Float64Var(&sweepThrottle, "throttle", 1, "Fixed throttle setting")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "Grid points per axis")
	sweepCmd.Flags().IntVar(&sweepParallel, "parallel", 0, "Concurrent evaluations (0 = unbounded)")
	_ = sweepCmd.MarkFlagRequired("deck")
}

// cliLogger builds the logger all commands share.
func cliLogger() *logging.Logger {
	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	return logging.New(logging.Config{Level: level, Service: "deckctl", JSON: jsonOutput})
}

// openDeck loads the named deck from the deck directory.
func openDeck(logger *logging.Logger) (*surrogate.Deck, error) {
	reg, err := surrogate.OpenRegistry(deckDir, surrogate.Config{Logger: logger})
	if err != nil {
		return nil, err
	}
	deck, err := reg.Deck(deckName)
	if err != nil {
		return nil, fmt.Errorf("open deck %q: %w", deckName, err)
	}
	return deck, nil
}
