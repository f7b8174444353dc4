// Package valuation implements the deterministic DCF engine: segment revenue and
// EBIT build-up, free cash flow, discounting and the terminal value.
package valuation

import "github.com/yourusername/dcf-simulator/internal/models"

// Units: volumes in millions times prices in thousands of dollars give billions.

// AutoRevenueB returns vehicle revenue ($B) for forecast offset i.
func AutoRevenueB(a models.AutoAssumptions, i int) float64 {
	return a.DeliveriesM[i] * a.AspK[i]
}

// RobotaxiFleetM returns the robotaxi fleet in millions of cars.
func RobotaxiFleetM(r models.RobotaxiAssumptions, i int) float64 {
	return r.CitiesCovered[i] * r.CarsPerCity[i] / 1_000_000
}

// RobotaxiRevenueB returns unweighted robotaxi revenue ($B).
func RobotaxiRevenueB(r models.RobotaxiAssumptions, i int) float64 {
	return RobotaxiFleetM(r, i) * r.AnnualRevenuePerCarK[i]
}

// OptimusRevenueB returns unweighted Optimus revenue ($B).
func OptimusRevenueB(o models.OptimusAssumptions, i int) float64 {
	return o.UnitsM[i] * o.PriceK[i]
}

// SegmentEBIT approximates operating profit as revenue times (gross margin - opex).
// A negative result is a valid loss-making segment.
func SegmentEBIT(revenueB, grossMarginPct, opexPctOfRevenue float64) float64 {
	return revenueB * (grossMarginPct - opexPctOfRevenue) / 100
}

// ProbabilityWeight converts a success probability in percent to a fraction.
func ProbabilityWeight(probabilityPct float64) float64 {
	return probabilityPct / 100
}

type segmentYear struct {
	revenue models.SegmentBreakdown
	ebit    models.SegmentBreakdown
}

func buildSegments(p models.ValuationParameters, i int) segmentYear {
	var s segmentYear

	s.revenue.Auto = AutoRevenueB(p.Auto, i)
	s.revenue.Energy = p.Energy.RevenueB[i]
	s.revenue.Services = p.Services.RevenueB[i]
	s.revenue.Robotaxi = RobotaxiRevenueB(p.Robotaxi, i)
	s.revenue.Optimus = OptimusRevenueB(p.Optimus, i)

	s.ebit.Auto = SegmentEBIT(s.revenue.Auto, p.Auto.GrossMarginPct[i], p.Auto.OpexPctOfRevenue[i])
	s.ebit.Energy = SegmentEBIT(s.revenue.Energy, p.Energy.GrossMarginPct[i], p.Energy.OpexPctOfRevenue[i])
	s.ebit.Services = SegmentEBIT(s.revenue.Services, p.Services.GrossMarginPct[i], p.Services.OpexPctOfRevenue[i])

	// Speculative segments contribute their expected value.
	s.ebit.Robotaxi = SegmentEBIT(s.revenue.Robotaxi, p.Robotaxi.GrossMarginPct[i], p.Robotaxi.OpexPctOfRevenue[i]) *
		ProbabilityWeight(p.Robotaxi.Probability)
	s.ebit.Optimus = SegmentEBIT(s.revenue.Optimus, p.Optimus.GrossMarginPct[i], p.Optimus.OpexPctOfRevenue[i]) *
		ProbabilityWeight(p.Optimus.Probability)

	return s
}
