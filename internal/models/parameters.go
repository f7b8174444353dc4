package models

// MacroAssumptions holds the discounting, tax, reinvestment and capital structure inputs.
type MacroAssumptions struct {
	DiscountRate               float64      `json:"discount_rate" yaml:"discount_rate" validate:"finite,gt=-100"`         // %
	TerminalGrowthRate         float64      `json:"terminal_growth_rate" yaml:"terminal_growth_rate" validate:"finite"`   // %
	TaxRate                    float64      `json:"tax_rate" yaml:"tax_rate" validate:"finite"`                           // %
	CapexPctOfRevenue          YearlyMetric `json:"capex_pct_of_revenue" yaml:"capex_pct_of_revenue" validate:"dive,finite"`
	WorkingCapitalPctOfRevenue YearlyMetric `json:"working_capital_pct_of_revenue" yaml:"working_capital_pct_of_revenue" validate:"dive,finite"`
	ShareCount                 float64      `json:"share_count" yaml:"share_count" validate:"finite,gt=0"`         // billions
	CurrentCash                float64      `json:"current_cash" yaml:"current_cash" validate:"finite"`            // $B
	CurrentDebt                float64      `json:"current_debt" yaml:"current_debt" validate:"finite"`            // $B
	ElonCompDilution           float64      `json:"elon_comp_dilution" yaml:"elon_comp_dilution" validate:"finite,gt=-100"` // %
}

// AutoAssumptions drives vehicle revenue from deliveries and average selling price.
type AutoAssumptions struct {
	DeliveriesM      YearlyMetric `json:"deliveries_m" yaml:"deliveries_m" validate:"dive,finite"` // millions of vehicles
	AspK             YearlyMetric `json:"asp_k" yaml:"asp_k" validate:"dive,finite"`               // $K per vehicle
	GrossMarginPct   YearlyMetric `json:"gross_margin_pct" yaml:"gross_margin_pct" validate:"dive,finite"`
	OpexPctOfRevenue YearlyMetric `json:"opex_pct_of_revenue" yaml:"opex_pct_of_revenue" validate:"dive,finite"`
}

// EnergyAssumptions takes revenue directly in billions.
type EnergyAssumptions struct {
	RevenueB         YearlyMetric `json:"revenue_b" yaml:"revenue_b" validate:"dive,finite"`
	GrossMarginPct   YearlyMetric `json:"gross_margin_pct" yaml:"gross_margin_pct" validate:"dive,finite"`
	OpexPctOfRevenue YearlyMetric `json:"opex_pct_of_revenue" yaml:"opex_pct_of_revenue" validate:"dive,finite"`
}

// ServicesAssumptions takes revenue directly in billions.
type ServicesAssumptions struct {
	RevenueB         YearlyMetric `json:"revenue_b" yaml:"revenue_b" validate:"dive,finite"`
	GrossMarginPct   YearlyMetric `json:"gross_margin_pct" yaml:"gross_margin_pct" validate:"dive,finite"`
	OpexPctOfRevenue YearlyMetric `json:"opex_pct_of_revenue" yaml:"opex_pct_of_revenue" validate:"dive,finite"`
}

// RobotaxiAssumptions drives fleet size from city coverage and cars per city.
type RobotaxiAssumptions struct {
	CitiesCovered        YearlyMetric `json:"cities_covered" yaml:"cities_covered" validate:"dive,finite"`
	CarsPerCity          YearlyMetric `json:"cars_per_city" yaml:"cars_per_city" validate:"dive,finite"`
	AnnualRevenuePerCarK YearlyMetric `json:"annual_revenue_per_car_k" yaml:"annual_revenue_per_car_k" validate:"dive,finite"`
	GrossMarginPct       YearlyMetric `json:"gross_margin_pct" yaml:"gross_margin_pct" validate:"dive,finite"`
	OpexPctOfRevenue     YearlyMetric `json:"opex_pct_of_revenue" yaml:"opex_pct_of_revenue" validate:"dive,finite"`
	Probability          float64      `json:"probability" yaml:"probability" validate:"finite,gte=0,lte=100"` // % chance of success
}

// OptimusAssumptions drives humanoid robot revenue from unit volume and price.
type OptimusAssumptions struct {
	UnitsM           YearlyMetric `json:"units_m" yaml:"units_m" validate:"dive,finite"`
	PriceK           YearlyMetric `json:"price_k" yaml:"price_k" validate:"dive,finite"`
	GrossMarginPct   YearlyMetric `json:"gross_margin_pct" yaml:"gross_margin_pct" validate:"dive,finite"`
	OpexPctOfRevenue YearlyMetric `json:"opex_pct_of_revenue" yaml:"opex_pct_of_revenue" validate:"dive,finite"`
	Probability      float64      `json:"probability" yaml:"probability" validate:"finite,gte=0,lte=100"` // % chance of success
}

// ValuationParameters is the full assumption set for one valuation. It contains
// no pointers, slices or maps, so a plain assignment is a deep copy.
type ValuationParameters struct {
	Macro    MacroAssumptions    `json:"macro" yaml:"macro"`
	Auto     AutoAssumptions     `json:"auto" yaml:"auto"`
	Energy   EnergyAssumptions   `json:"energy" yaml:"energy"`
	Services ServicesAssumptions `json:"services" yaml:"services"`
	Robotaxi RobotaxiAssumptions `json:"robotaxi" yaml:"robotaxi"`
	Optimus  OptimusAssumptions  `json:"optimus" yaml:"optimus"`
}

// Clone returns an independent copy of the parameters.
func (p ValuationParameters) Clone() ValuationParameters {
	return p
}
