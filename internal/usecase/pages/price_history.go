package pages

import (
	"SteelDash/internal/domain/models"
	"SteelDash/internal/services/stats"
	"SteelDash/pkg/util"
)

func (r *renderer) priceHistory(ds *models.Datasets, in Input) models.Page {
	p := models.Page{ID: models.PagePriceHistory, Title: "Historical Price Data"}
	if ds.Prices == nil {
		return p
	}
	selected := r.selectSymbols(ds.Prices, in.Symbols)
	p.Controls = []models.Control{{
		ID:       "symbols",
		Label:    "Select Symbols",
		Kind:     models.ControlMultiSelect,
		Options:  ds.Prices.Symbols(),
		Selected: selected,
	}}
	if len(selected) == 0 {
		return p
	}

	chart := models.Chart{
		ID:         "price_history",
		Title:      "Historical Prices",
		Kind:       models.ChartLine,
		XTitle:     "Date",
		YTitle:     "Price",
		ShowLegend: true,
		Height:     500,
	}
	summary := models.Table{
		ID:      "summary_statistics",
		Columns: []string{"Symbol", "Current", "Mean", "Std Dev", "Min", "Max"},
	}
	for _, sym := range selected {
		t := ds.Prices.ForSymbol(sym)
		prices := t.Prices()
		chart.Series = append(chart.Series, models.Series{
			Name:  util.HumanizeSymbol(sym),
			Dates: t.Dates(),
			Y:     prices,
			Mode:  "lines",
		})

		cur, curErr := stats.Latest(prices)
		mean, meanErr := stats.Mean(prices)
		std, stdErr := stats.Std(prices)
		lo, loErr := stats.Min(prices)
		hi, hiErr := stats.Max(prices)
		summary.Rows = append(summary.Rows, []string{
			sym,
			cell(cur, curErr, usd),
			cell(mean, meanErr, usd),
			cell(std, stdErr, usd),
			cell(lo, loErr, usd),
			cell(hi, hiErr, usd),
		})
	}

	chartSection := models.Section{ID: "price_chart", Title: "Historical Prices"}
	chartSection.Add(models.ChartBlock(chart))
	statsSection := models.Section{ID: "summary_statistics", Title: "Summary Statistics"}
	statsSection.Add(models.TableBlock(summary))
	p.Sections = append(p.Sections, chartSection, statsSection)
	return p
}

// selectSymbols keeps requested symbols present in the table, in request
// order and without duplicates. Nil requests fall back to the defaults.
func (r *renderer) selectSymbols(t *models.PriceTable, requested []string) []string {
	if requested == nil {
		requested = r.s.DefaultSymbols
	}
	known := make(map[string]struct{})
	for _, s := range t.Symbols() {
		known[s] = struct{}{}
	}
	out := make([]string, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	for _, s := range requested {
		if _, ok := known[s]; !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
