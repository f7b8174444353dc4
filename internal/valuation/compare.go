package valuation

import (
	"github.com/yourusername/dcf-simulator/internal/models"
)

// MarketComparison relates a computed valuation to an external quote.
type MarketComparison struct {
	ReferencePrice     float64 `json:"reference_price"`
	ReferenceMarketCap float64 `json:"reference_market_cap"`
	ReferenceDate      string  `json:"reference_date"`
	SharePrice         float64 `json:"share_price"`
	ImpliedMarketCap   float64 `json:"implied_market_cap"`
	Upside             float64 `json:"upside"` // fraction, 0.25 = +25%
	AboveMarket        bool    `json:"above_market"`
}

// Compare returns the upside of result's share price over ref. Upside is zero when
// the reference price is not positive.
func Compare(result models.ValuationResult, ref models.MarketReference) MarketComparison {
	cmp := MarketComparison{
		ReferencePrice:     ref.SharePrice,
		ReferenceMarketCap: ref.MarketCap,
		ReferenceDate:      ref.Date,
		SharePrice:         result.SharePrice,
		ImpliedMarketCap:   result.EquityValue,
	}
	if ref.SharePrice > 0 {
		cmp.Upside = result.SharePrice/ref.SharePrice - 1
	}
	cmp.AboveMarket = result.SharePrice >= ref.SharePrice
	return cmp
}

// YearRevenue is total revenue for one forecast year.
type YearRevenue struct {
	Year    int     `json:"year"`
	Revenue float64 `json:"revenue"`
}

// RevenuePreview sums segment revenue per forecast year without computing cash
// flows. Robotaxi and Optimus revenue is unweighted, as in the engine.
func RevenuePreview(params models.ValuationParameters) []YearRevenue {
	out := make([]YearRevenue, models.ForecastYears)
	for i := range out {
		out[i] = YearRevenue{
			Year:    models.ForecastYear(i),
			Revenue: buildSegments(params, i).revenue.Total(),
		}
	}
	return out
}

// EBITPoint is one row of the EBIT history chart. Segments is nil for
// historical years, which only carry a total.
type EBITPoint struct {
	Year      int                      `json:"year"`
	EBIT      float64                  `json:"ebit"`
	Projected bool                     `json:"projected"`
	Segments  *models.SegmentBreakdown `json:"segments,omitempty"`
}

// EBITSeries joins reported EBIT with the projected per-segment EBIT of result.
func EBITSeries(result models.ValuationResult, history []models.HistoricalYear) []EBITPoint {
	series := make([]EBITPoint, 0, len(history)+len(result.YearlyProjections))
	for _, h := range history {
		series = append(series, EBITPoint{Year: h.Year, EBIT: h.EBIT})
	}
	for _, p := range result.YearlyProjections {
		segments := p.SegmentBreakdown
		series = append(series, EBITPoint{
			Year:      p.Year,
			EBIT:      p.EBIT,
			Projected: true,
			Segments:  &segments,
		})
	}
	return series
}
