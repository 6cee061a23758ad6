package pages

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"SteelDash/internal/domain/models"
)

const notAvailable = "n/a"

var printer = message.NewPrinter(language.English)

func usd(v float64) string      { return fmt.Sprintf("$%.2f", v) }
func perMT(v float64) string    { return fmt.Sprintf("$%.2f/mt", v) }
func pct2(v float64) string     { return fmt.Sprintf("%.2f%%", v) }
func ratio4(v float64) string   { return fmt.Sprintf("%.4f", v) }
func wholeUSD(v float64) string { return printer.Sprintf("$%.0f", v) }

// metric builds a metric block from a reduction result. Degenerate input
// renders as n/a; any other error omits the block.
func metric(label string, v float64, err error, format func(float64) string) models.Block {
	switch {
	case err == nil && !finite(v):
		return models.MetricBlock(models.Metric{Label: label, Display: notAvailable})
	case err == nil:
		return models.MetricBlock(models.Metric{Label: label, Value: &v, Display: format(v)})
	case errors.Is(err, models.ErrDegenerateInput):
		return models.MetricBlock(models.Metric{Label: label, Display: notAvailable})
	default:
		return models.Block{}
	}
}

// cell formats a table cell with the same n/a policy as metric.
func cell(v float64, err error, format func(float64) string) string {
	if err != nil || !finite(v) {
		return notAvailable
	}
	return format(v)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func withDelta(b models.Block, delta string) models.Block {
	if b.Metric != nil {
		b.Metric.Delta = delta
	}
	return b
}
