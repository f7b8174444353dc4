package simulation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/dcf-simulator/internal/models"
)

// FloorPercentile returns sorted[floor(p*N)], clamped to the last index. sorted
// must be ascending and non-empty. No interpolation is done.
func FloorPercentile(sorted []float64, p float64) float64 {
	idx := int(math.Floor(p * float64(len(sorted))))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func summarize(samples []sample, seed uint64) *models.MonteCarloDistribution {
	values := make([]float64, len(samples))
	var robotaxiHits, optimusHits int
	for i, s := range samples {
		values[i] = s.price
		if s.robotaxiSucceeds {
			robotaxiHits++
		}
		if s.optimusSucceeds {
			optimusHits++
		}
	}
	sort.Float64s(values)

	n := float64(len(values))
	dist := &models.MonteCarloDistribution{
		Iterations:          len(values),
		Seed:                seed,
		Min:                 values[0],
		Max:                 values[len(values)-1],
		Median:              FloorPercentile(values, 0.5),
		P10:                 FloorPercentile(values, 0.1),
		P90:                 FloorPercentile(values, 0.9),
		Mean:                stat.Mean(values, nil),
		RobotaxiSuccessRate: float64(robotaxiHits) / n,
		OptimusSuccessRate:  float64(optimusHits) / n,
		Values:              values,
	}
	// sample standard deviation is undefined for a single draw
	if len(values) > 1 {
		dist.StdDev = stat.StdDev(values, nil)
	}
	return dist
}
