package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/dcf-simulator/internal/models"
	"github.com/yourusername/dcf-simulator/internal/valuation"
)

func TestPresetsAreValid(t *testing.T) {
	presets := Presets()
	require.Len(t, presets, 3)

	ids := []string{BaseID, AnalystID, ElonID}
	for i, s := range presets {
		t.Run(s.ID, func(t *testing.T) {
			assert.Equal(t, ids[i], s.ID)
			assert.NotEmpty(t, s.References)
			assert.NoError(t, valuation.ValidateScenario(s))

			result, err := valuation.CalculateValuation(s.Params)
			require.NoError(t, err)
			assert.Greater(t, result.SharePrice, 0.0)
		})
	}
}

func TestDerivedPresetsOverrideWholeGroups(t *testing.T) {
	base := BaseParams()
	analyst := AnalystParams()
	elon := ElonParams()

	assert.Equal(t, base.Auto, analyst.Auto)
	assert.Equal(t, base.Optimus, analyst.Optimus)
	assert.Equal(t, 40.0, analyst.Robotaxi.Probability)
	assert.Equal(t, models.NewYearlyMetric(14, 20, 28), analyst.Energy.RevenueB)

	assert.Equal(t, 12.0, elon.Macro.ElonCompDilution)
	assert.Equal(t, base.Macro.DiscountRate, elon.Macro.DiscountRate)
	assert.Equal(t, base.Energy, elon.Energy)
	assert.Equal(t, 50.0, elon.Optimus.Probability)
}

func TestPresetsReturnCopies(t *testing.T) {
	first := Presets()
	first[0].Params.Auto.DeliveriesM[0] = 99
	first[0].References[0].URL = "changed"

	second := Presets()
	assert.Equal(t, 2.1, second[0].Params.Auto.DeliveriesM[0])
	assert.Equal(t, "https://ir.tesla.com/", second[0].References[0].URL)
}

func TestLookup(t *testing.T) {
	s, ok := Lookup(ElonID)
	require.True(t, ok)
	assert.Equal(t, "Elon", s.ShortLabel)

	_, ok = Lookup("missing")
	assert.False(t, ok)
}

func TestReferenceData(t *testing.T) {
	history := Historical()
	require.Len(t, history, 3)
	assert.Equal(t, models.BaseYear, history[len(history)-1].Year)

	market := Market()
	assert.Equal(t, 415.0, market.SharePrice)
	assert.Equal(t, 1320.0, market.MarketCap)
}

const customPreset = `
id: conservative
name: Conservative
short_label: Cons
extends: base
params:
  macro:
    discount_rate: 12
  robotaxi:
    probability: 5
`

func TestParseExtendsPreset(t *testing.T) {
	s, err := Parse([]byte(customPreset))
	require.NoError(t, err)

	base := BaseParams()
	assert.Equal(t, "conservative", s.ID)
	assert.Equal(t, 12.0, s.Params.Macro.DiscountRate)
	assert.Equal(t, 5.0, s.Params.Robotaxi.Probability)
	assert.Equal(t, base.Macro.TerminalGrowthRate, s.Params.Macro.TerminalGrowthRate)
	assert.Equal(t, base.Robotaxi.CitiesCovered, s.Params.Robotaxi.CitiesCovered)
	assert.Equal(t, base.Auto, s.Params.Auto)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "unknown parent",
			input:   "id: x\nname: X\nextends: nope\n",
			wantErr: models.ErrScenarioNotFound,
		},
		{
			name:    "missing name",
			input:   "id: x\nextends: base\n",
			wantErr: models.ErrInvalidParameters,
		},
		{
			name:    "degenerate terminal value",
			input:   "id: x\nname: X\nextends: base\nparams:\n  macro:\n    discount_rate: 2\n",
			wantErr: models.ErrDegenerateTerminalValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conservative.yaml"), []byte(customPreset), 0o644))
	override := "id: base\nname: Base override\nextends: base\nparams:\n  macro:\n    tax_rate: 25\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yml"), []byte(override), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	scenarios, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 4)

	assert.Equal(t, "Base override", scenarios[0].Name)
	assert.Equal(t, 25.0, scenarios[0].Params.Macro.TaxRate)
	assert.Equal(t, "conservative", scenarios[3].ID)
}

func TestLoadDirEmptyPath(t *testing.T) {
	scenarios, err := LoadDir("")
	require.NoError(t, err)
	assert.Len(t, scenarios, 3)
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
