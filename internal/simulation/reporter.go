package simulation

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/dcf-simulator/internal/models"
	"github.com/yourusername/dcf-simulator/internal/valuation"
)

// Report bundles a valuation with the context needed to present it.
type Report struct {
	ScenarioID   string                     `json:"scenario_id"`
	ScenarioName string                     `json:"scenario_name"`
	Result       models.ValuationResult     `json:"result"`
	Comparison   valuation.MarketComparison `json:"comparison"`
}

// NewReport builds a report and compares the result with ref.
func NewReport(s models.Scenario, result models.ValuationResult, ref models.MarketReference) Report {
	return Report{
		ScenarioID:   s.ID,
		ScenarioName: s.Name,
		Result:       result,
		Comparison:   valuation.Compare(result, ref),
	}
}

// Dollars and billions are shown to the cent / ten million.
const notAvailable = "n/a"

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func money(v float64) string {
	if !finite(v) {
		return notAvailable
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func percent(fraction float64) string {
	if !finite(fraction * 100) {
		return notAvailable
	}
	return decimal.NewFromFloat(fraction * 100).StringFixed(1)
}

// GenerateConsoleReport formats a valuation for terminal output
func GenerateConsoleReport(r Report) string {
	res := r.Result
	var builder strings.Builder
	builder.WriteString("Valuation Report\n")
	builder.WriteString("================\n")
	if r.ScenarioName != "" {
		builder.WriteString(fmt.Sprintf("Scenario: %s (%s)\n", r.ScenarioName, r.ScenarioID))
	}
	builder.WriteString(fmt.Sprintf("Share Price: $%s\n", money(res.SharePrice)))
	builder.WriteString(fmt.Sprintf("Upside vs $%s (%s): %s%%\n",
		money(r.Comparison.ReferencePrice), r.Comparison.ReferenceDate, percent(r.Comparison.Upside)))
	builder.WriteString(fmt.Sprintf("Enterprise Value: $%sB\n", money(res.EnterpriseValue)))
	builder.WriteString(fmt.Sprintf("Equity Value: $%sB\n", money(res.EquityValue)))
	builder.WriteString(fmt.Sprintf("Terminal Value: $%sB (discounted $%sB)\n",
		money(res.TerminalValue), money(res.DiscountedTerminalValue)))
	builder.WriteString(fmt.Sprintf("Diluted Shares: %sB\n", money(res.DilutedShareCount)))

	builder.WriteString("\nYear  Revenue   EBIT      FCF       PV(FCF)\n")
	for _, y := range res.YearlyProjections {
		builder.WriteString(fmt.Sprintf("%d  %-8s  %-8s  %-8s  %s\n",
			y.Year, money(y.Revenue), money(y.EBIT), money(y.FCF), money(y.DiscountedFCF)))
	}

	if d := res.MonteCarloDistribution; d != nil {
		builder.WriteString(fmt.Sprintf("\nMonte Carlo (%d iterations, seed %d)\n", d.Iterations, d.Seed))
		builder.WriteString(fmt.Sprintf("P10: $%s  Median: $%s  P90: $%s\n", money(d.P10), money(d.Median), money(d.P90)))
		builder.WriteString(fmt.Sprintf("Min: $%s  Max: $%s\n", money(d.Min), money(d.Max)))
		builder.WriteString(fmt.Sprintf("Mean: $%s  Std Dev: $%s\n", money(d.Mean), money(d.StdDev)))
		builder.WriteString(fmt.Sprintf("Robotaxi success: %s%%  Optimus success: %s%%\n",
			percent(d.RobotaxiSuccessRate), percent(d.OptimusSuccessRate)))
	}
	return builder.String()
}

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"money":   money,
	"percent": percent,
}).Parse(`<!DOCTYPE html>
<html>
<head><title>Valuation Report</title></head>
<body>
<h1>Valuation Report{{if .ScenarioName}}: {{.ScenarioName}}{{end}}</h1>
<p><strong>Share Price:</strong> ${{money .Result.SharePrice}}</p>
<p><strong>Upside vs Market:</strong> {{percent .Comparison.Upside}}%</p>
<p><strong>Enterprise Value:</strong> ${{money .Result.EnterpriseValue}}B</p>
<p><strong>Equity Value:</strong> ${{money .Result.EquityValue}}B</p>
<table>
<tr><th>Year</th><th>Revenue</th><th>EBIT</th><th>FCF</th><th>Discounted FCF</th></tr>
{{range .Result.YearlyProjections}}<tr><td>{{.Year}}</td><td>{{money .Revenue}}</td><td>{{money .EBIT}}</td><td>{{money .FCF}}</td><td>{{money .DiscountedFCF}}</td></tr>
{{end}}</table>
{{with .Result.MonteCarloDistribution}}<h2>Monte Carlo ({{.Iterations}} iterations)</h2>
<p><strong>P10:</strong> ${{money .P10}} <strong>Median:</strong> ${{money .Median}} <strong>P90:</strong> ${{money .P90}}</p>
<p><strong>Min:</strong> ${{money .Min}} <strong>Max:</strong> ${{money .Max}}</p>
{{end}}</body>
</html>
`))

// GenerateHTMLReport writes a simple HTML report
func GenerateHTMLReport(r Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return WriteFile(outputPath, func(w io.Writer) error {
		return htmlReport.Execute(w, r)
	})
}

// GenerateCSVExport writes headline metrics followed by every sampled price.
func GenerateCSVExport(r Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return WriteFile(outputPath, func(w io.Writer) error {
		return WriteCSV(w, r)
	})
}

// WriteFile creates path and fills it with write. A failed close is returned
// when the write itself succeeded.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return writeAndClose(f, write)
}

func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()
	return write(wc)
}

// WriteCSV writes the CSV export to w.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	res := r.Result
	rows := [][]string{
		{"metric", "value"},
		{"scenario", r.ScenarioID},
		{"share_price", formatFloat(res.SharePrice)},
		{"enterprise_value", formatFloat(res.EnterpriseValue)},
		{"equity_value", formatFloat(res.EquityValue)},
		{"upside", formatFloat(r.Comparison.Upside)},
	}
	if d := res.MonteCarloDistribution; d != nil {
		rows = append(rows,
			[]string{"iterations", strconv.Itoa(d.Iterations)},
			[]string{"seed", strconv.FormatUint(d.Seed, 10)},
			[]string{"min", formatFloat(d.Min)},
			[]string{"p10", formatFloat(d.P10)},
			[]string{"median", formatFloat(d.Median)},
			[]string{"p90", formatFloat(d.P90)},
			[]string{"max", formatFloat(d.Max)},
			[]string{"mean", formatFloat(d.Mean)},
			[]string{"std_dev", formatFloat(d.StdDev)},
		)
		for i, v := range d.Values {
			rows = append(rows, []string{"sample_" + strconv.Itoa(i), formatFloat(v)})
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
