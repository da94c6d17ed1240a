// Package report prints the analysis results to the console.
package report

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/KaramelBytes/gotystats/internal/analysis"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Separator is printed between the preprocessing notes and the statistics.
var Separator = strings.Repeat("-", 50)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Plain strips terminal colour codes from captured report output.
func Plain(b []byte) []byte {
	return ansiEscape.ReplaceAll(b, nil)
}

// Printer writes report sections to w in pipeline order.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Skewness prints the skewness of the raw vote counts.
func (p *Printer) Skewness(v float64) {
	fmt.Fprintf(p.w, "skewness (assimetria) da coluna votes: %.2f\n", v)
}

// TransformNotice announces the log transform and closes the preprocessing block.
func (p *Printer) TransformNotice() {
	fmt.Fprintln(p.w, "transformação log aplicada na coluna 'votes' para normalizar a escala.")
	fmt.Fprintln(p.w, Separator)
}

// Describe prints the summary with one row per statistic and one column per variable.
func (p *Printer) Describe(s *analysis.Summary) {
	fmt.Fprintln(p.w, "### resumo estatístico completo")
	header := []string{""}
	for _, c := range s.Columns {
		header = append(header, c.Name)
	}
	table := tablewriter.NewWriter(p.w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeaderAlignment(tablewriter.ALIGN_RIGHT)

	rows := []struct {
		label string
		get   func(analysis.ColumnStats) float64
	}{
		{"count", func(c analysis.ColumnStats) float64 { return float64(c.Count) }},
		{"mean", func(c analysis.ColumnStats) float64 { return c.Mean }},
		{"std", func(c analysis.ColumnStats) float64 { return c.Std }},
		{"min", func(c analysis.ColumnStats) float64 { return c.Min }},
		{"25%", func(c analysis.ColumnStats) float64 { return c.Q25 }},
		{"50%", func(c analysis.ColumnStats) float64 { return c.Q50 }},
		{"75%", func(c analysis.ColumnStats) float64 { return c.Q75 }},
		{"max", func(c analysis.ColumnStats) float64 { return c.Max }},
	}
	for _, r := range rows {
		line := []string{r.label}
		for _, c := range s.Columns {
			line = append(line, fmt.Sprintf("%.2f", r.get(c)))
		}
		table.Append(line)
	}
	table.Render()
}

// Regression prints the full model summary.
func (p *Printer) Regression(r *analysis.OLSResult) {
	fmt.Fprint(p.w, r.Summary())
}

// Hypothesis prints the slope, its p-value and the verdict.
func (p *Printer) Hypothesis(coef, pValue float64, v analysis.Verdict) {
	fmt.Fprintln(p.w, "--- resultado da hipótese ---")
	fmt.Fprintf(p.w, "coeficiente: %.4f\n", coef)
	fmt.Fprintf(p.w, "p-value: %.4f\n", pValue)
	lines := v.Lines()
	verdictColor(v).Fprintln(p.w, lines[0])
	for _, l := range lines[1:] {
		fmt.Fprintln(p.w, l)
	}
}

func verdictColor(v analysis.Verdict) *color.Color {
	switch v {
	case analysis.Confirmed:
		return color.New(color.FgGreen, color.Bold)
	case analysis.Inverted:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
