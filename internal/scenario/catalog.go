// Package scenario provides the built-in valuation presets, reported history and
// the market quote used for comparison.
package scenario

import (
	"github.com/yourusername/dcf-simulator/internal/models"
)

// Preset ids
const (
	BaseID    = "base"
	AnalystID = "analyst"
	ElonID    = "elon"
)

var ym = models.NewYearlyMetric

// BaseParams returns the business-driven base case.
func BaseParams() models.ValuationParameters {
	return models.ValuationParameters{
		Macro: models.MacroAssumptions{
			DiscountRate:               10,
			TerminalGrowthRate:         3,
			TaxRate:                    21,
			CapexPctOfRevenue:          ym(6, 6, 6),
			WorkingCapitalPctOfRevenue: ym(1, 1, 1),
			ShareCount:                 3.19,
			CurrentCash:                29,
			CurrentDebt:                5,
			ElonCompDilution:           5,
		},
		Auto: models.AutoAssumptions{
			DeliveriesM:      ym(2.1, 2.4, 2.8),
			AspK:             ym(43, 42, 41),
			GrossMarginPct:   ym(18, 19, 20),
			OpexPctOfRevenue: ym(8, 8, 8),
		},
		Energy: models.EnergyAssumptions{
			RevenueB:         ym(12, 16, 22),
			GrossMarginPct:   ym(18, 20, 22),
			OpexPctOfRevenue: ym(6, 6, 6),
		},
		Services: models.ServicesAssumptions{
			RevenueB:         ym(10, 12, 15),
			GrossMarginPct:   ym(30, 32, 34),
			OpexPctOfRevenue: ym(20, 20, 20),
		},
		Robotaxi: models.RobotaxiAssumptions{
			CitiesCovered:        ym(0, 5, 25),
			CarsPerCity:          ym(0, 1000, 8000),
			AnnualRevenuePerCarK: ym(0, 35, 30),
			GrossMarginPct:       ym(0, 45, 50),
			OpexPctOfRevenue:     ym(0, 15, 12),
			Probability:          20,
		},
		Optimus: models.OptimusAssumptions{
			UnitsM:           ym(0, 0.001, 0.02),
			PriceK:           ym(0, 50, 35),
			GrossMarginPct:   ym(0, 20, 30),
			OpexPctOfRevenue: ym(0, 25, 18),
			Probability:      10,
		},
	}
}

// AnalystParams is the base case with faster energy growth and robotaxi rollout.
func AnalystParams() models.ValuationParameters {
	p := BaseParams()
	p.Energy = models.EnergyAssumptions{
		RevenueB:         ym(14, 20, 28),
		GrossMarginPct:   ym(20, 22, 24),
		OpexPctOfRevenue: ym(6, 6, 6),
	}
	p.Robotaxi = models.RobotaxiAssumptions{
		CitiesCovered:        ym(0, 10, 60),
		CarsPerCity:          ym(0, 1500, 12000),
		AnnualRevenuePerCarK: ym(0, 45, 40),
		GrossMarginPct:       ym(0, 50, 55),
		OpexPctOfRevenue:     ym(0, 14, 10),
		Probability:          40,
	}
	return p
}

// ElonParams is the aggressive case with higher success odds and more dilution.
func ElonParams() models.ValuationParameters {
	p := BaseParams()
	p.Macro.ElonCompDilution = 12
	p.Auto = models.AutoAssumptions{
		DeliveriesM:      ym(2.4, 3.0, 3.8),
		AspK:             ym(44, 43, 42),
		GrossMarginPct:   ym(20, 22, 24),
		OpexPctOfRevenue: ym(8, 8, 8),
	}
	p.Robotaxi = models.RobotaxiAssumptions{
		CitiesCovered:        ym(0, 20, 120),
		CarsPerCity:          ym(0, 2000, 15000),
		AnnualRevenuePerCarK: ym(0, 55, 50),
		GrossMarginPct:       ym(0, 55, 60),
		OpexPctOfRevenue:     ym(0, 12, 9),
		Probability:          60,
	}
	p.Optimus = models.OptimusAssumptions{
		UnitsM:           ym(0, 0.01, 0.2),
		PriceK:           ym(0, 45, 30),
		GrossMarginPct:   ym(0, 25, 35),
		OpexPctOfRevenue: ym(0, 20, 14),
		Probability:      50,
	}
	return p
}

// Presets returns fresh copies of the built-in scenarios in display order.
func Presets() []models.Scenario {
	return []models.Scenario{
		{
			ID:          BaseID,
			Name:        "Base case (business drivers)",
			ShortLabel:  "Base",
			Description: "Built from the operating drivers: auto = deliveries x ASP x margin; robotaxi = cities x cars per city x revenue per car. New businesses enter at a low probability of success.",
			AssumptionsNotes: []string{
				"Auto: deliveries grow moderately, ASP drifts lower, margins recover gradually.",
				"Robotaxi/Optimus: modelled as coverage or volume times unit economics, weighted by probability of success.",
				"FCF: EBIT(1-T) less CapEx and working capital as a share of revenue, adjustable per year.",
			},
			References: []models.Reference{
				{Title: "Tesla Investor Relations", URL: "https://ir.tesla.com/"},
				{Title: "Tesla Form 10-K (SEC search)", URL: "https://www.sec.gov/edgar/search/"},
			},
			Params: BaseParams(),
		},
		{
			ID:          AnalystID,
			Name:        "Analyst case (higher penetration)",
			ShortLabel:  "Analyst",
			Description: "Closer to sell-side narratives: stronger energy and services, faster robotaxi city rollout and ramp, uncertainty still priced in.",
			AssumptionsNotes: []string{
				"Energy: faster deployment growth and quicker margin improvement.",
				"Robotaxi: more cities sooner and higher revenue per car from better utilisation.",
				"Success probabilities are kept so uncertain cash flows are not treated as certain.",
			},
			References: []models.Reference{
				{Title: "Ark Invest Tesla Model", URL: "https://ark-invest.com/articles/valuation-models/ark-tesla-price-target-2029/"},
				{Title: "Seeking Alpha (estimates hub)", URL: "https://seekingalpha.com/symbol/TSLA/earnings"},
			},
			Params: AnalystParams(),
		},
		{
			ID:          ElonID,
			Name:        "CEO award case (aggressive)",
			ShortLabel:  "Elon",
			Description: "Aggressive growth and new-business delivery with the extra dilution of hitting award milestones. Stress-tests the net effect of high growth plus higher dilution.",
			AssumptionsNotes: []string{
				"Auto deliveries grow faster and margins recover sooner.",
				"Higher robotaxi and Optimus success probabilities.",
				"Dilution raised to model award milestones being met.",
			},
			References: []models.Reference{
				{Title: "2018 CEO Performance Award (SEC)", URL: "https://www.sec.gov/Archives/edgar/data/1318605/000119312518035345/d524719ddef14a.htm"},
				{Title: "Growth target statement (CNBC)", URL: "https://www.cnbc.com/2021/01/27/tesla-says-it-expects-50percent-growth-in-deliveries-in-2021.html"},
			},
			Params: ElonParams(),
		},
	}
}

// Lookup returns the preset with id.
func Lookup(id string) (models.Scenario, bool) {
	for _, s := range Presets() {
		if s.ID == id {
			return s, true
		}
	}
	return models.Scenario{}, false
}

// Historical returns reported results for the years before the forecast.
func Historical() []models.HistoricalYear {
	return []models.HistoricalYear{
		{Year: 2022, Revenue: 81.5, EBIT: 13.7, Deliveries: 1.31},
		{Year: 2023, Revenue: 96.8, EBIT: 8.9, Deliveries: 1.81},
		{Year: 2024, Revenue: 98.5, EBIT: 6.5, Deliveries: 1.80},
	}
}

// Market returns the reference quote used for upside comparison.
func Market() models.MarketReference {
	return models.MarketReference{
		SharePrice: 415,
		MarketCap:  1320,
		Date:       "2024-12-31",
	}
}
