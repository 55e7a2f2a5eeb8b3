package main

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openconcept/enginedeck/services/surrogate"
)

// gradcheckStep scales the central-difference step per input dimension,
// as a fraction of that dimension's training range.
const gradcheckStep = 1e-6

// runGradcheck sweeps a grid of interior operating points and reports
// the worst relative disagreement between the analytic Jacobian and a
// central-difference approximation. This is a field diagnostic for deck
// artifacts; the same property is locked down in the package tests.
func runGradcheck(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	defer logger.Close()

	deck, err := openDeck(logger)
	if err != nil {
		return err
	}

	inputs := deck.Inputs()
	dim := len(inputs)

	// Interior grid: avoid the envelope edges so the differences do not
	// straddle the domain margin.
	art, err := surrogate.LoadArtifact(deckArtifactPath())
	if err != nil {
		return err
	}
	lo := make([]float64, dim)
	hi := make([]float64, dim)
	for d := 0; d < dim; d++ {
		lo[d], hi[d] = art.Samples[0][d], art.Samples[0][d]
		for _, row := range art.Samples {
			lo[d] = math.Min(lo[d], row[d])
			hi[d] = math.Max(hi[d], row[d])
		}
		span := hi[d] - lo[d]
		lo[d] += 0.1 * span
		hi[d] -= 0.1 * span
	}

	ctx := context.Background()
	var worst float64
	var worstOutput string
	checked := 0

	grid := make([]int, dim)
	for {
		point := make([]float64, dim)
		for d := 0; d < dim; d++ {
			frac := 0.5
			if gradSteps > 1 {
				frac = float64(grid[d]) / float64(gradSteps-1)
			}
			point[d] = lo[d] + frac*(hi[d]-lo[d])
		}

		res, err := deck.Evaluate(ctx, point)
		if err != nil {
			return err
		}
		for d := 0; d < dim; d++ {
			step := gradcheckStep * (hi[d] - lo[d]) / 0.8 // full-range step
			fwd := append([]float64(nil), point...)
			bwd := append([]float64(nil), point...)
			fwd[d] += step
			bwd[d] -= step
			rf, err := deck.Evaluate(ctx, fwd)
			if err != nil {
				return err
			}
			rb, err := deck.Evaluate(ctx, bwd)
			if err != nil {
				return err
			}
			for name, grad := range res.Jacobian {
				numeric := (rf.Outputs[name] - rb.Outputs[name]) / (2 * step)
				denom := math.Max(math.Abs(grad[d]), math.Abs(numeric))
				if denom < 1e-12 {
					continue
				}
				rel := math.Abs(grad[d]-numeric) / denom
				if rel > worst {
					worst = rel
					worstOutput = fmt.Sprintf("%s/d%s at %v", name, deck.Inputs()[d].Name, point)
				}
			}
		}
		checked++

		// Advance the mixed-radix grid counter.
		d := 0
		for d < dim {
			grid[d]++
			if grid[d] < gradSteps {
				break
			}
			grid[d] = 0
			d++
		}
		if d == dim {
			break
		}
	}

	fmt.Printf("checked %d interior points: max relative error %.3g (%s)\n", checked, worst, worstOutput)
	if worst > 1e-4 {
		return fmt.Errorf("analytic Jacobian disagrees with central differences: %.3g > 1e-4", worst)
	}
	return nil
}

// deckArtifactPath points at the named deck's artifact file. The name
// has already been validated by the registry lookup in openDeck.
func deckArtifactPath() string {
	return filepath.Join(deckDir, deckName+".yaml")
}
