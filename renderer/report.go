package renderer

import (
	"fmt"

	money "github.com/Rhymond/go-money"
	"github.com/ekvall/depot"
)

// placeholder stands in for any figure that could not be resolved.
const placeholder = "-"

// Report is the finished formatting of one valuation run, ready to hand to a
// delivery mechanism. Text is markdown and doubles as the plain-text email
// body; HTML is a self-contained inline-styled document.
type Report struct {
	Subject string
	Text    string
	HTML    string
}

// Build formats the valuation. It never fails: unknown figures render as a
// placeholder, and the warning section is emitted whenever the valuation has
// problem symbols.
func Build(v *depot.Valuation) Report {
	data := newReportData(v)
	return Report{
		Subject: fmt.Sprintf("Portfolio update %s", v.AsOf.Format("2006-01-02 15:04")),
		Text: renderTemplate("report", "templates/report.md",
			map[string]string{"report_warnings": "templates/report_warnings.md"}, data),
		HTML: renderHTML(data),
	}
}

// reportData is the flattened, pre-formatted view the templates consume.
type reportData struct {
	AsOf        string
	Base        string
	TotalValue  string
	TotalChange string
	TotalColor  string
	Rows        []reportRow
	Problems    []string
}

type reportRow struct {
	Name   string
	Symbol string
	Shares string
	Price  string
	Value  string
	Change string
	Color  string
}

func newReportData(v *depot.Valuation) reportData {
	data := reportData{
		AsOf:        v.AsOf.Format("2006-01-02 15:04"),
		Base:        v.Base,
		TotalValue:  formatMoney(v.TotalValue, v.Base),
		TotalChange: formatSigned(v.TotalChange, v.Base),
		TotalColor:  colorFor(v.TotalChange),
		Problems:    v.Problems,
	}
	for _, row := range v.Rows {
		data.Rows = append(data.Rows, reportRow{
			Name:   row.Holding.Name,
			Symbol: row.Holding.Symbol,
			Shares: fmt.Sprintf("%.0f", row.Holding.Shares),
			Price:  formatMoney(row.PriceBase, v.Base),
			Value:  formatMoney(row.Value, v.Base),
			Change: formatSigned(row.Change, v.Base),
			Color:  colorFor(row.Change),
		})
	}
	return data
}

// formatMoney renders a known amount with the currency's own format (symbol,
// fraction digits, separators), and the placeholder otherwise.
func formatMoney(a depot.Amount, code string) string {
	if !a.Known() {
		return placeholder
	}
	// the Money constructor guarantees a non-nil currency
	cur := money.New(0, code).Currency()
	minor := a.Decimal().Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// formatSigned is formatMoney with an explicit leading sign on gains.
func formatSigned(a depot.Amount, code string) string {
	if !a.Known() {
		return placeholder
	}
	s := formatMoney(a, code)
	if a.IsPositive() {
		return "+" + s
	}
	return s
}

// colorFor derives the display color from the sign of a change figure:
// gains blue, losses red, flat or unknown black.
func colorFor(a depot.Amount) string {
	switch {
	case a.IsPositive():
		return "blue"
	case a.IsNegative():
		return "red"
	default:
		return "black"
	}
}
