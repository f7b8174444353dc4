package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// BaseYear is the last historical year; discounting periods are measured from it.
	BaseYear = 2024
	// ForecastYears is the length of the explicit forecast horizon.
	ForecastYears = 3
)

// ForecastYear returns the calendar year for forecast offset i (0 -> 2025).
func ForecastYear(i int) int {
	return BaseYear + 1 + i
}

// YearlyMetric holds one value per forecast year. It is an array so that
// assignment copies it.
type YearlyMetric [ForecastYears]float64

// NewYearlyMetric builds a metric from the three forecast-year values.
func NewYearlyMetric(y1, y2, y3 float64) YearlyMetric {
	return YearlyMetric{y1, y2, y3}
}

// Scale multiplies every year by factor.
func (m YearlyMetric) Scale(factor float64) YearlyMetric {
	for i := range m {
		m[i] *= factor
	}
	return m
}

// Shift adds delta to every year.
func (m YearlyMetric) Shift(delta float64) YearlyMetric {
	for i := range m {
		m[i] += delta
	}
	return m
}

// Clamp bounds every year to [lo, hi].
func (m YearlyMetric) Clamp(lo, hi float64) YearlyMetric {
	for i := range m {
		m[i] = math.Max(lo, math.Min(hi, m[i]))
	}
	return m
}

// FloorAt raises every year below lo up to lo.
func (m YearlyMetric) FloorAt(lo float64) YearlyMetric {
	for i := range m {
		m[i] = math.Max(lo, m[i])
	}
	return m
}

// Last returns the final forecast year's value.
func (m YearlyMetric) Last() float64 {
	return m[ForecastYears-1]
}

// ByYear returns the metric keyed by calendar year label.
func (m YearlyMetric) ByYear() map[string]float64 {
	out := make(map[string]float64, ForecastYears)
	for i, v := range m {
		out[strconv.Itoa(ForecastYear(i))] = v
	}
	return out
}

// MarshalJSON encodes the metric as {"2025": v, "2026": v, "2027": v}.
func (m YearlyMetric) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ByYear())
}

// UnmarshalJSON accepts either the year-keyed object or a three element array.
func (m *YearlyMetric) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var values []float64
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return fmt.Errorf("yearly metric: %w", err)
		}
		return m.fromSlice(values)
	}

	var byYear map[string]float64
	if err := json.Unmarshal(trimmed, &byYear); err != nil {
		return fmt.Errorf("yearly metric: %w", err)
	}
	return m.fromYearMap(byYear)
}

// MarshalYAML encodes the metric as a year-keyed mapping.
func (m YearlyMetric) MarshalYAML() (interface{}, error) {
	return m.ByYear(), nil
}

// UnmarshalYAML accepts either a year-keyed mapping or a three element sequence.
func (m *YearlyMetric) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var values []float64
		if err := value.Decode(&values); err != nil {
			return fmt.Errorf("yearly metric: %w", err)
		}
		return m.fromSlice(values)
	case yaml.MappingNode:
		var byYear map[string]float64
		if err := value.Decode(&byYear); err != nil {
			return fmt.Errorf("yearly metric: %w", err)
		}
		return m.fromYearMap(byYear)
	default:
		return fmt.Errorf("yearly metric: line %d: expected mapping or sequence", value.Line)
	}
}

func (m *YearlyMetric) fromSlice(values []float64) error {
	if len(values) != ForecastYears {
		return fmt.Errorf("yearly metric: expected %d values, got %d", ForecastYears, len(values))
	}
	copy(m[:], values)
	return nil
}

func (m *YearlyMetric) fromYearMap(byYear map[string]float64) error {
	if len(byYear) != ForecastYears {
		return fmt.Errorf("yearly metric: expected years %d-%d, got %d entries",
			ForecastYear(0), ForecastYear(ForecastYears-1), len(byYear))
	}
	var out YearlyMetric
	for i := range out {
		year := strconv.Itoa(ForecastYear(i))
		v, ok := byYear[year]
		if !ok {
			return fmt.Errorf("yearly metric: missing year %s", year)
		}
		out[i] = v
	}
	*m = out
	return nil
}
