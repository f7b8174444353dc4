package models

import "time"

// Reference is a source link attached to a scenario.
type Reference struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// Scenario is a named preset bundling a complete parameter set with notes.
type Scenario struct {
	ID               string              `json:"id" yaml:"id" validate:"required,max=64"`
	Name             string              `json:"name" yaml:"name" validate:"required,max=255"`
	ShortLabel       string              `json:"short_label" yaml:"short_label"`
	Description      string              `json:"description" yaml:"description"`
	AssumptionsNotes []string            `json:"assumptions_notes" yaml:"assumptions_notes"`
	References       []Reference         `json:"references" yaml:"references"`
	Params           ValuationParameters `json:"params" yaml:"params"`
	UpdatedAt        time.Time           `json:"updated_at,omitempty" yaml:"-"`
}

// HistoricalYear is reported data for a year before the forecast horizon.
type HistoricalYear struct {
	Year       int     `json:"year"`
	Revenue    float64 `json:"revenue"`              // $B
	EBIT       float64 `json:"ebit"`                 // $B
	Deliveries float64 `json:"deliveries,omitempty"` // millions
}

// MarketReference is an external quote used only for comparison.
type MarketReference struct {
	SharePrice float64 `json:"share_price"`
	MarketCap  float64 `json:"market_cap"` // $B
	Date       string  `json:"date"`
}
