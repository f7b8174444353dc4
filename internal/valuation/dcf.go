package valuation

import "math"

// DiscountFactor returns 1 / (1 + rate)^period for a rate in percent.
func DiscountFactor(discountRatePct float64, period int) float64 {
	return 1 / math.Pow(1+discountRatePct/100, float64(period))
}

// TerminalValue capitalises the final year's FCF with the Gordon growth formula.
// Callers must ensure discountRatePct > terminalGrowthPct.
func TerminalValue(lastFCF, discountRatePct, terminalGrowthPct float64) float64 {
	return lastFCF * (1 + terminalGrowthPct/100) / ((discountRatePct - terminalGrowthPct) / 100)
}

// FreeCashFlow computes NOPAT less CapEx and the working capital build, both
// expressed as a percent of revenue.
func FreeCashFlow(ebit, revenue, taxRatePct, capexPct, workingCapitalPct float64) float64 {
	nopat := ebit * (1 - taxRatePct/100)
	capex := revenue * capexPct / 100
	deltaWC := revenue * workingCapitalPct / 100
	return nopat - capex - deltaWC
}
