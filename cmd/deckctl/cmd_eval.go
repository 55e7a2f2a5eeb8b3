package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openconcept/enginedeck/services/propulsion"
)

// evalReport is the JSON shape for one evaluation.
type evalReport struct {
	Engine       string               `json:"engine"`
	AltitudeFt   float64              `json:"altitude_ft"`
	Mach         float64              `json:"mach"`
	Throttle     float64              `json:"throttle"`
	Outputs      map[string]float64   `json:"outputs"`
	Jacobian     map[string][]float64 `json:"jacobian"`
	TrueAirspeed float64              `json:"true_airspeed_ms"`
	Warnings     []string             `json:"warnings,omitempty"`
}

// runEval evaluates one deck at one operating point and prints the
// outputs with their Jacobian.
func runEval(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	defer logger.Close()

	deck, err := openDeck(logger)
	if err != nil {
		return err
	}
	engine, err := propulsion.NewEngine(deck, propulsion.Options{})
	if err != nil {
		return err
	}

	cond := propulsion.FlightCondition{AltitudeFt: altFt, Mach: mach, Throttle: throttle}
	ev, err := engine.Evaluate(context.Background(), cond)
	if err != nil {
		return err
	}

	report := evalReport{
		Engine:       deck.Engine(),
		AltitudeFt:   altFt,
		Mach:         mach,
		Throttle:     throttle,
		Outputs:      ev.Outputs,
		Jacobian:     ev.Jacobian,
		TrueAirspeed: ev.TrueAirspeed,
	}
	for _, w := range ev.Warnings {
		report.Warnings = append(report.Warnings, w.String())
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("engine %s at alt=%g ft, mach=%g, throttle=%g\n", report.Engine, altFt, mach, throttle)
	for _, out := range deck.Outputs() {
		name := out.Name
		fmt.Printf("  %-12s %12.2f %s\n", name, ev.Outputs[name], out.Units)
		fmt.Printf("  %-12s d/dalt=%.4g d/dmach=%.4g d/dthrottle=%.4g\n",
			"", ev.Jacobian[name][0], ev.Jacobian[name][1], ev.Jacobian[name][2])
	}
	fmt.Printf("  %-12s %12.2f m/s\n", "TAS", ev.TrueAirspeed)
	for _, w := range report.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	return nil
}
