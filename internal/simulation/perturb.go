package simulation

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/yourusername/dcf-simulator/internal/models"
)

// Perturbation spans. A multiplicative span s draws a factor from
// U[1-s/2, 1+s/2]; the margin shift is additive in percentage points.
const (
	DeliveriesSpan     = 0.12
	AspSpan            = 0.06
	AutoMarginShiftPts = 2.0

	RobotaxiCitiesSpan    = 0.2
	RobotaxiCarsSpan      = 0.25
	RobotaxiRevPerCarSpan = 0.25
	OptimusUnitsSpan      = 0.5
	OptimusPriceSpan      = 0.15

	AutoMarginFloorPct   = -20.0
	AutoMarginCeilingPct = 60.0

	succeededProbability = 100.0
	failedProbability    = 0.0
)

// Draw is one randomised parameter set and the outcome of its two gates.
type Draw struct {
	Params           models.ValuationParameters
	RobotaxiSucceeds bool
	OptimusSucceeds  bool
}

// Perturb returns a randomised copy of base. The draw order is fixed so a given
// source always yields the same parameters. base is not modified.
func Perturb(base models.ValuationParameters, src rand.Source) Draw {
	p := base.Clone()

	p.Auto.DeliveriesM = p.Auto.DeliveriesM.Scale(factor(DeliveriesSpan, src))
	p.Auto.AspK = p.Auto.AspK.Scale(factor(AspSpan, src))
	marginShift := distuv.Uniform{Min: -AutoMarginShiftPts, Max: AutoMarginShiftPts, Src: src}.Rand()
	p.Auto.GrossMarginPct = p.Auto.GrossMarginPct.Shift(marginShift)

	// Success gates replace the expected-value weight with an all-or-nothing outcome.
	robotaxiOK := gate(p.Robotaxi.Probability, src)
	optimusOK := gate(p.Optimus.Probability, src)
	p.Robotaxi.Probability = outcomeProbability(robotaxiOK)
	p.Optimus.Probability = outcomeProbability(optimusOK)

	p.Robotaxi.CitiesCovered = p.Robotaxi.CitiesCovered.Scale(factor(RobotaxiCitiesSpan, src))
	p.Robotaxi.CarsPerCity = p.Robotaxi.CarsPerCity.Scale(factor(RobotaxiCarsSpan, src))
	p.Robotaxi.AnnualRevenuePerCarK = p.Robotaxi.AnnualRevenuePerCarK.Scale(factor(RobotaxiRevPerCarSpan, src))
	p.Optimus.UnitsM = p.Optimus.UnitsM.Scale(factor(OptimusUnitsSpan, src))
	p.Optimus.PriceK = p.Optimus.PriceK.Scale(factor(OptimusPriceSpan, src))

	clampToDomain(&p)

	return Draw{Params: p, RobotaxiSucceeds: robotaxiOK, OptimusSucceeds: optimusOK}
}

func factor(span float64, src rand.Source) float64 {
	return distuv.Uniform{Min: 1 - span/2, Max: 1 + span/2, Src: src}.Rand()
}

func gate(probabilityPct float64, src rand.Source) bool {
	return distuv.Bernoulli{P: probabilityPct / 100, Src: src}.Rand() == 1
}

func outcomeProbability(ok bool) float64 {
	if ok {
		return succeededProbability
	}
	return failedProbability
}

func clampToDomain(p *models.ValuationParameters) {
	p.Auto.DeliveriesM = p.Auto.DeliveriesM.FloorAt(0)
	p.Auto.AspK = p.Auto.AspK.FloorAt(0)
	p.Auto.GrossMarginPct = p.Auto.GrossMarginPct.Clamp(AutoMarginFloorPct, AutoMarginCeilingPct)

	p.Robotaxi.CitiesCovered = p.Robotaxi.CitiesCovered.FloorAt(0)
	p.Robotaxi.CarsPerCity = p.Robotaxi.CarsPerCity.FloorAt(0)
	p.Robotaxi.AnnualRevenuePerCarK = p.Robotaxi.AnnualRevenuePerCarK.FloorAt(0)

	p.Optimus.UnitsM = p.Optimus.UnitsM.FloorAt(0)
	p.Optimus.PriceK = p.Optimus.PriceK.FloorAt(0)
}
