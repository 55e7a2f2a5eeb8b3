package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/openconcept/enginedeck/services/propulsion"
)

// sweepReport is the serialized product of one grid sweep.
type sweepReport struct {
	RunID    string       `json:"run_id" yaml:"run_id"`
	Engine   string       `json:"engine" yaml:"engine"`
	Throttle float64      `json:"throttle" yaml:"throttle"`
	Points   []sweepPoint `json:"points" yaml:"points"`
}

// sweepPoint is one grid evaluation.
type sweepPoint struct {
	AltitudeFt  float64            `json:"altitude_ft" yaml:"altitude_ft"`
	Mach        float64            `json:"mach" yaml:"mach"`
	Outputs     map[string]float64 `json:"outputs" yaml:"outputs"`
	OutOfDomain bool               `json:"out_of_domain,omitempty" yaml:"out_of_domain,omitempty"`
}

// runSweep evaluates a deck over an altitude/Mach grid at fixed
// throttle, in parallel, and emits the table as YAML or JSON.
func runSweep(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	defer logger.Close()

	altLo, altHi, err := parseRange(sweepAlt)
	if err != nil {
		return fmt.Errorf("parse --alt: %w", err)
	}
	machLo, machHi, err := parseRange(sweepMach)
	if err != nil {
		return fmt.Errorf("parse --mach: %w", err)
	}
	if sweepSteps < 2 {
		return fmt.Errorf("--steps must be >= 2, have %d", sweepSteps)
	}

	deck, err := openDeck(logger)
	if err != nil {
		return err
	}
	engine, err := propulsion.NewEngine(deck, propulsion.Options{})
	if err != nil {
		return err
	}

	var conds []propulsion.FlightCondition
	for i := 0; i < sweepSteps; i++ {
		alt := altLo + float64(i)/float64(sweepSteps-1)*(altHi-altLo)
		for j := 0; j < sweepSteps; j++ {
			m := machLo + float64(j)/float64(sweepSteps-1)*(machHi-machLo)
			conds = append(conds, propulsion.FlightCondition{
				AltitudeFt: alt,
				Mach:       m,
				Throttle:   sweepThrottle,
			})
		}
	}

	evals, err := engine.EvaluateBatch(context.Background(), conds, sweepParallel)
	if err != nil {
		return err
	}

	report := sweepReport{
		RunID:    uuid.NewString(),
		Engine:   deck.Engine(),
		Throttle: sweepThrottle,
	}
	for i, ev := range evals {
		report.Points = append(report.Points, sweepPoint{
			AltitudeFt:  conds[i].AltitudeFt,
			Mach:        conds[i].Mach,
			Outputs:     ev.Outputs,
			OutOfDomain: len(ev.Warnings) > 0,
		})
	}

	logger.Info("sweep complete", "run_id", report.RunID, "points", len(report.Points))

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(report)
}

// parseRange parses "lo:hi" into two floats.
func parseRange(s string) (lo, hi float64, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want lo:hi, have %q", s)
	}
	if lo, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return 0, 0, err
	}
	if hi, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}
