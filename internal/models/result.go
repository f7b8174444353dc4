package models

// SegmentBreakdown is the per-segment EBIT for one forecast year. Robotaxi and
// Optimus are already weighted by their success probability.
type SegmentBreakdown struct {
	Auto     float64 `json:"auto"`
	Energy   float64 `json:"energy"`
	Services float64 `json:"services"`
	Robotaxi float64 `json:"robotaxi"`
	Optimus  float64 `json:"optimus"`
}

// Total sums the five segments.
func (s SegmentBreakdown) Total() float64 {
	return s.Auto + s.Energy + s.Services + s.Robotaxi + s.Optimus
}

// SimulationResult is the projection for a single forecast year ($B).
type SimulationResult struct {
	Year             int              `json:"year"`
	Revenue          float64          `json:"revenue"`
	EBIT             float64          `json:"ebit"`
	FCF              float64          `json:"fcf"`
	DiscountedFCF    float64          `json:"discounted_fcf"`
	SegmentBreakdown SegmentBreakdown `json:"segment_breakdown"`
}

// MonteCarloDistribution summarises the sampled share prices.
type MonteCarloDistribution struct {
	Iterations          int       `json:"iterations"`
	Seed                uint64    `json:"seed"`
	Min                 float64   `json:"min"`
	Max                 float64   `json:"max"`
	Median              float64   `json:"median"`
	P10                 float64   `json:"p10"`
	P90                 float64   `json:"p90"`
	Mean                float64   `json:"mean"`
	StdDev              float64   `json:"std_dev"`
	RobotaxiSuccessRate float64   `json:"robotaxi_success_rate"`
	OptimusSuccessRate  float64   `json:"optimus_success_rate"`
	Values              []float64 `json:"values"` // ascending
}

// ValuationResult is the DCF output. MonteCarloDistribution is nil unless the
// sampler produced the result.
type ValuationResult struct {
	EnterpriseValue         float64                 `json:"enterprise_value"`
	EquityValue             float64                 `json:"equity_value"`
	SharePrice              float64                 `json:"share_price"`
	TerminalValue           float64                 `json:"terminal_value"`
	DiscountedTerminalValue float64                 `json:"discounted_terminal_value"`
	DilutedShareCount       float64                 `json:"diluted_share_count"`
	YearlyProjections       []SimulationResult      `json:"yearly_projections"`
	MonteCarloDistribution  *MonteCarloDistribution `json:"monte_carlo_distribution,omitempty"`
}
