package pages

import (
	"fmt"

	"github.com/shopspring/decimal"

	"SteelDash/internal/domain/models"
)

// PassThrough is the share of an error reduction assumed to become savings.
var PassThrough = decimal.NewFromFloat(0.5)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// BusinessInputs are the calculator inputs. Bounds are enforced where the
// values enter the process.
type BusinessInputs struct {
	MonthlyVolume float64
	CurrentPrice  float64
	BaselineMAE   float64
	ModelMAE      float64
}

// Bound describes one numeric input control.
type Bound struct {
	Min, Max, Step, Default float64
}

var (
	VolumeBound      = Bound{Min: 100, Max: 100000, Step: 100, Default: 1000}
	PriceBound       = Bound{Min: 400, Max: 1000, Step: 10, Default: 607.50}
	BaselineMAEBound = Bound{Min: 0.5, Max: 50, Step: 0.5, Default: 5.0}
	ModelMAEBound    = Bound{Min: 0.1, Max: 10, Step: 0.1, Default: 0.78}
)

func DefaultBusinessInputs() BusinessInputs {
	return BusinessInputs{
		MonthlyVolume: VolumeBound.Default,
		CurrentPrice:  PriceBound.Default,
		BaselineMAE:   BaselineMAEBound.Default,
		ModelMAE:      ModelMAEBound.Default,
	}
}

// BusinessResult holds the derived savings figures.
type BusinessResult struct {
	ErrorReduction decimal.Decimal
	ImprovementPct decimal.Decimal
	SavingsPerUnit decimal.Decimal
	MonthlySavings decimal.Decimal
	AnnualSavings  decimal.Decimal
	AnnualSpend    decimal.Decimal
	// ROIPct is nil when annual spend is zero.
	ROIPct *decimal.Decimal
}

// CalculateBusinessValue applies the linear savings model.
func CalculateBusinessValue(in BusinessInputs) BusinessResult {
	volume := decimal.NewFromFloat(in.MonthlyVolume)
	price := decimal.NewFromFloat(in.CurrentPrice)
	baseline := decimal.NewFromFloat(in.BaselineMAE)
	model := decimal.NewFromFloat(in.ModelMAE)

	var res BusinessResult
	res.ErrorReduction = baseline.Sub(model)
	if !baseline.IsZero() {
		res.ImprovementPct = res.ErrorReduction.Mul(hundred).Div(baseline)
	}
	res.SavingsPerUnit = res.ErrorReduction.Mul(PassThrough)
	res.MonthlySavings = res.SavingsPerUnit.Mul(volume)
	res.AnnualSavings = res.MonthlySavings.Mul(twelve)
	res.AnnualSpend = volume.Mul(price).Mul(twelve)
	if !res.AnnualSpend.IsZero() {
		roi := res.AnnualSavings.Div(res.AnnualSpend).Mul(hundred)
		res.ROIPct = &roi
	}
	return res
}

const businessUseCases = `### 1. Procurement Planning
**Question**: Should we buy now or wait?
**How**: Compare 1-day forecast with current price. If forecast shows decrease, delay purchase.
**Value**: Optimize timing to capture lower prices.

### 2. Contract Pricing
**Question**: What price should we quote in contracts?
**How**: Use 30-day forecast + confidence interval to set contract prices.
**Value**: Price contracts competitively while managing risk.

### 3. Budget Forecasting
**Question**: What should we budget for next quarter?
**How**: Use 30-day and 90-day forecasts to project costs.
**Value**: More accurate financial planning.

### 4. Risk Management
**Question**: Should we hedge price risk?
**How**: Compare forecast volatility (std dev) against hedge costs.
**Value**: Data-driven hedging decisions.`

func numberControl(id, label, help string, b Bound, value float64) models.Control {
	return models.Control{ID: id, Label: label, Kind: models.ControlNumber, Min: b.Min, Max: b.Max, Step: b.Step, Value: value, Help: help}
}

func (r *renderer) businessValue(_ *models.Datasets, in Input) models.Page {
	b := in.Business
	p := models.Page{
		ID:    models.PageBusinessValue,
		Title: "Business Value Calculator",
		Controls: []models.Control{
			numberControl("monthly_volume", "Monthly Procurement Volume (mt)", "", VolumeBound, b.MonthlyVolume),
			numberControl("current_price", "Current Price (USD/mt)", "", PriceBound, b.CurrentPrice),
			numberControl("baseline_mae", "Baseline MAE (USD/mt)", "MAE without forecasting model", BaselineMAEBound, b.BaselineMAE),
			numberControl("model_mae", "Model MAE (USD/mt)", "MAE with forecasting model", ModelMAEBound, b.ModelMAE),
		},
	}
	res := CalculateBusinessValue(b)

	intro := models.Section{ID: "intro", Title: "Business Value Calculator"}
	intro.Add(models.TextBlock(models.Text{Body: "Use this tool to estimate cost savings from improved forecasting accuracy."}))

	savings := models.Section{ID: "savings", Title: "Estimated Cost Savings"}
	savings.Add(
		withDelta(
			metric("Error Reduction", res.ErrorReduction.InexactFloat64(), nil, perMT),
			fmt.Sprintf("%.1f%% improvement", res.ImprovementPct.InexactFloat64()),
		),
		metric("Monthly Savings", res.MonthlySavings.InexactFloat64(), nil, wholeUSD),
		metric("Annual Savings", res.AnnualSavings.InexactFloat64(), nil, wholeUSD),
	)

	roi := models.Section{ID: "roi", Title: "ROI Analysis"}
	roi.Add(
		metric("Annual Procurement Spend", res.AnnualSpend.InexactFloat64(), nil, wholeUSD),
		metric("Annual Savings", res.AnnualSavings.InexactFloat64(), nil, wholeUSD),
	)
	if res.ROIPct != nil {
		roi.Add(metric("ROI", res.ROIPct.InexactFloat64(), nil, func(v float64) string {
			return fmt.Sprintf("%.2f%% of procurement budget", v)
		}))
	} else {
		roi.Add(metric("ROI", 0, models.ErrDegenerateInput, nil))
	}

	cases := models.Section{ID: "use_cases", Title: "Business Use Cases"}
	cases.Add(models.TextBlock(models.Text{Body: businessUseCases}))

	p.Sections = []models.Section{intro, savings, roi, cases}
	return p
}
