package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/dcf-simulator/internal/models"
	"github.com/yourusername/dcf-simulator/internal/valuation"
)

type sample struct {
	price            float64
	robotaxiSucceeds bool
	optimusSucceeds  bool
}

// RunMonteCarlo values base once unperturbed and then cfg.Iterations times with
// randomised drivers. The returned result is the deterministic valuation with
// MonteCarloDistribution populated.
//
// Iteration i draws from a PCG source seeded with (seed, i), so a fixed seed
// reproduces the same distribution for any worker count. Cancelling ctx stops
// the workers between iterations.
func RunMonteCarlo(ctx context.Context, base models.ValuationParameters, cfg Config) (models.ValuationResult, error) {
	if err := cfg.Validate(); err != nil {
		return models.ValuationResult{}, err
	}
	result, err := valuation.CalculateValuation(base)
	if err != nil {
		return models.ValuationResult{}, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	workers := EffectiveWorkers(cfg.Workers, cfg.Iterations)

	samples := make([]sample, cfg.Iterations)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := w; i < len(samples); i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				draw := Perturb(base, rand.NewPCG(seed, uint64(i)))
				drawn := valuation.Compute(draw.Params)
				if err := valuation.CheckFinite(drawn); err != nil {
					return fmt.Errorf("iteration %d: %w", i, err)
				}
				samples[i] = sample{
					price:            drawn.SharePrice,
					robotaxiSucceeds: draw.RobotaxiSucceeds,
					optimusSucceeds:  draw.OptimusSucceeds,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.ValuationResult{}, fmt.Errorf("monte carlo aborted: %w", err)
	}

	result.MonteCarloDistribution = summarize(samples, seed)
	return result, nil
}

// EffectiveWorkers resolves the worker count used for a run of iterations.
func EffectiveWorkers(requested, iterations int) int {
	workers := requested
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > iterations {
		workers = iterations
	}
	return workers
}
