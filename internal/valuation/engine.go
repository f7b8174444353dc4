package valuation

import (
	"fmt"
	"math"

	"github.com/yourusername/dcf-simulator/internal/models"
)

// CalculateValuation validates params and runs the DCF. It never mutates params.
// Finite inputs large enough to overflow are rejected after the run.
func CalculateValuation(params models.ValuationParameters) (models.ValuationResult, error) {
	if err := Validate(params); err != nil {
		return models.ValuationResult{}, err
	}
	result := Compute(params)
	if err := CheckFinite(result); err != nil {
		return models.ValuationResult{}, err
	}
	return result, nil
}

// CheckFinite returns ErrInvalidParameters when a headline value is NaN or infinite.
func CheckFinite(result models.ValuationResult) error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"enterprise value", result.EnterpriseValue},
		{"equity value", result.EquityValue},
		{"share price", result.SharePrice},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("%w: %s is not finite", models.ErrInvalidParameters, v.name)
		}
	}
	return nil
}

// Compute runs the DCF on already validated parameters. It holds no state and is
// safe for concurrent use.
func Compute(params models.ValuationParameters) models.ValuationResult {
	macro := params.Macro
	projections := make([]models.SimulationResult, 0, models.ForecastYears)

	var sumDiscountedFCF float64
	for i := 0; i < models.ForecastYears; i++ {
		year := models.ForecastYear(i)
		seg := buildSegments(params, i)

		revenue := seg.revenue.Total()
		ebit := seg.ebit.Total()
		fcf := FreeCashFlow(ebit, revenue, macro.TaxRate,
			macro.CapexPctOfRevenue[i], macro.WorkingCapitalPctOfRevenue[i])
		discounted := fcf * DiscountFactor(macro.DiscountRate, year-models.BaseYear)

		sumDiscountedFCF += discounted
		projections = append(projections, models.SimulationResult{
			Year:             year,
			Revenue:          revenue,
			EBIT:             ebit,
			FCF:              fcf,
			DiscountedFCF:    discounted,
			SegmentBreakdown: seg.ebit,
		})
	}

	lastFCF := projections[len(projections)-1].FCF
	terminalValue := TerminalValue(lastFCF, macro.DiscountRate, macro.TerminalGrowthRate)
	discountedTV := terminalValue * DiscountFactor(macro.DiscountRate, models.ForecastYears)

	enterpriseValue := sumDiscountedFCF + discountedTV
	equityValue := enterpriseValue + macro.CurrentCash - macro.CurrentDebt

	// Dilution is always applied; the deterministic path has no gate for it.
	dilutedShares := macro.ShareCount * (1 + macro.ElonCompDilution/100)

	return models.ValuationResult{
		EnterpriseValue:         enterpriseValue,
		EquityValue:             equityValue,
		SharePrice:              equityValue / dilutedShares,
		TerminalValue:           terminalValue,
		DiscountedTerminalValue: discountedTV,
		DilutedShareCount:       dilutedShares,
		YearlyProjections:       projections,
	}
}
