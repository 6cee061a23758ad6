package pages

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SteelDash/internal/domain/models"
)

func day(d int) time.Time { return time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d) }

func priceRows(symbol string, prices ...float64) []models.PriceRecord {
	out := make([]models.PriceRecord, len(prices))
	for i, p := range prices {
		out[i] = models.PriceRecord{Symbol: symbol, Date: day(i), PriceMid: p}
	}
	return out
}

func validation(errs ...float64) *models.ValidationTable {
	t := &models.ValidationTable{Columns: []string{models.ColTestDate, models.ColActual, models.ColPredicted, models.ColError}}
	for i, e := range errs {
		actual := 600 + float64(i)
		t.Rows = append(t.Rows, models.ValidationRecord{TestDate: day(i), Actual: actual, Predicted: actual - e, Error: e})
	}
	return t
}

func walkForward() *models.ValidationTable {
	t := validation(1, -2, 0.5, 1.5)
	t.Columns = append(t.Columns, models.ColMAE, models.ColMAPE)
	for i := range t.Rows {
		e := t.Rows[i].Error
		if e < 0 {
			e = -e
		}
		t.Rows[i].MAE = e
		t.Rows[i].MAPE = e / t.Rows[i].Actual * 100
	}
	return t
}

func fixture() *models.Datasets {
	rows := append(priceRows("brent_crude_oil", 80, 81, 82), priceRows("rebar_uae_import", 600, 604, 606)...)
	rows = append(rows, priceRows("scrap_hms", 300)...)
	return &models.Datasets{
		Prices:      &models.PriceTable{Rows: rows},
		WalkForward: walkForward(),
		MultiStep: map[models.Horizon]*models.ValidationTable{
			models.Horizon1D:  validation(-2, 0, 2),
			models.Horizon7D:  validation(-4, 0, 4),
			models.Horizon30D: validation(1),
		},
		Summary: &models.SummaryTable{
			Header: []string{"Horizon (days)", "MAE ($/mt)"},
			Raw:    [][]string{{"1", "0.78"}, {"7", "2.1"}, {"30", "4.95"}},
			Rows:   []models.SummaryRecord{{HorizonDays: 1, MAE: 0.78}, {HorizonDays: 7, MAE: 2.1}, {HorizonDays: 30, MAE: 4.95}},
		},
	}
}

func render(t *testing.T, id models.PageID, ds *models.Datasets, in Input) models.Page {
	t.Helper()
	p, err := NewRegistry(DefaultSettings(), nil).Render(id, ds, in)
	require.NoError(t, err)
	return p
}

func TestNavigation(t *testing.T) {
	nav := NewRegistry(DefaultSettings(), nil).Navigation()
	require.Len(t, nav, 5)
	assert.Equal(t, models.PageOverview, nav[0].ID)
	assert.Equal(t, models.PageBusinessValue, nav[4].ID)
}

func TestUnknownPage(t *testing.T) {
	_, err := NewRegistry(DefaultSettings(), nil).Render("nope", fixture(), Input{})
	assert.ErrorIs(t, err, models.ErrUnknownPage)
}

func TestForecastIntervals(t *testing.T) {
	ci68, ci95 := ForecastIntervals(605, 2)
	assert.Equal(t, Interval{603, 607}, ci68)
	assert.Equal(t, Interval{601, 609}, ci95)
}

func TestOverviewForecastTable(t *testing.T) {
	p := render(t, models.PageOverview, fixture(), Input{})
	s, ok := p.Section("latest_forecast")
	require.True(t, ok)
	tbl := s.Blocks[0].Table
	require.Len(t, tbl.Rows, 3)

	// current 606, offset 1 => 605; sigma of [-2,0,2] is 2
	assert.Equal(t, []string{"1-Day", "2024-09-04", "$605.00", "$603.00 - $607.00", "$601.00 - $609.00"}, tbl.Rows[0])
	assert.Equal(t, "7-Day", tbl.Rows[1][0])
	assert.Equal(t, "2024-09-10", tbl.Rows[1][1])
	// single-row 30-day table: sigma undefined
	assert.Equal(t, []string{"30-Day", "2024-10-03", "$601.00", "n/a", "n/a"}, tbl.Rows[2])
}

func TestOverviewKeyMetrics(t *testing.T) {
	p := render(t, models.PageOverview, fixture(), Input{})
	s, ok := p.Section("key_metrics")
	require.True(t, ok)

	cur, ok := s.Metric("Current Price")
	require.True(t, ok)
	assert.Equal(t, "$606.00/mt", cur.Display)
	assert.Equal(t, "+2.00 (+0.3%)", cur.Delta)

	avg, ok := s.Metric("30-Day Average")
	require.True(t, ok)
	assert.InDelta(t, 603.3333, *avg.Value, 1e-3)

	_, ok = s.Metric("Model MAE")
	assert.True(t, ok)

	trend, ok := p.Chart("price_trend")
	require.True(t, ok)
	assert.Equal(t, models.ChartArea, trend.Kind)
	assert.Equal(t, []float64{600, 604, 606}, trend.Series[0].Y)
}

func TestMissingWalkForward(t *testing.T) {
	ds := fixture()
	ds.WalkForward = nil

	ov := render(t, models.PageOverview, ds, Input{})
	s, ok := ov.Section("key_metrics")
	require.True(t, ok)
	_, ok = s.Metric("Model MAE")
	assert.False(t, ok)
	_, ok = s.Metric("Current Price")
	assert.True(t, ok)
	_, ok = ov.Section("latest_forecast")
	assert.True(t, ok)

	mp := render(t, models.PageModelPerformance, ds, Input{})
	_, ok = mp.Section("walk_forward")
	assert.False(t, ok)
	_, ok = mp.Section("error_distribution")
	assert.False(t, ok)
	_, ok = mp.Section("multi_horizon")
	assert.True(t, ok)
}

func TestOverviewWithoutPrices(t *testing.T) {
	p := render(t, models.PageOverview, &models.Datasets{}, Input{})
	require.Len(t, p.Sections, 1)
	assert.Equal(t, "about", p.Sections[0].ID)
	m, ok := p.Sections[0].Metric("MAE")
	require.True(t, ok)
	assert.Equal(t, "$0.78/mt", m.Display)
}

func TestPriceHistoryDefaultsSkipUnknown(t *testing.T) {
	p := render(t, models.PagePriceHistory, fixture(), Input{})
	require.Len(t, p.Controls, 1)
	assert.Equal(t, []string{"brent_crude_oil", "rebar_uae_import", "scrap_hms"}, p.Controls[0].Options)
	assert.Equal(t, []string{"rebar_uae_import", "brent_crude_oil"}, p.Controls[0].Selected)

	c, ok := p.Chart("price_history")
	require.True(t, ok)
	require.Len(t, c.Series, 2)
	assert.Equal(t, "Rebar Uae Import", c.Series[0].Name)

	tables := p.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"rebar_uae_import", "$606.00", "$603.33", "$3.06", "$600.00", "$606.00"}, tables[0].Rows[0])
}

func TestPriceHistorySingleRowStdIsNA(t *testing.T) {
	p := render(t, models.PagePriceHistory, fixture(), Input{Symbols: []string{"scrap_hms", "scrap_hms", "unknown"}})
	tables := p.Tables()
	require.Len(t, tables, 1)
	require.Len(t, tables[0].Rows, 1)
	assert.Equal(t, "n/a", tables[0].Rows[0][3])
}

func TestPriceHistoryEmptySelection(t *testing.T) {
	p := render(t, models.PagePriceHistory, fixture(), Input{Symbols: []string{"unknown"}})
	assert.Empty(t, p.Sections)
	assert.Empty(t, p.Controls[0].Selected)
}

func TestForecastsSections(t *testing.T) {
	ds := fixture()
	delete(ds.MultiStep, models.Horizon7D)
	p := render(t, models.PageForecasts, ds, Input{})

	_, ok := p.Section("horizon_7d")
	assert.False(t, ok)

	s, ok := p.Section("horizon_1d")
	require.True(t, ok)
	mae, _ := s.Metric("MAE")
	assert.Equal(t, "$1.33/mt", mae.Display)
	mean, _ := s.Metric("Mean Error")
	assert.Equal(t, "$0.00/mt", mean.Display)
	std, _ := s.Metric("Std Dev")
	assert.Equal(t, "$2.00/mt", std.Display)
	mx, _ := s.Metric("Max Error")
	assert.Equal(t, "$2.00/mt", mx.Display)

	c, ok := p.Chart("actual_vs_predicted_1d")
	require.True(t, ok)
	assert.True(t, c.Series[1].Dash)
	assert.Equal(t, "red", c.Series[1].Color)

	s30, ok := p.Section("horizon_30d")
	require.True(t, ok)
	std30, _ := s30.Metric("Std Dev")
	assert.Nil(t, std30.Value)
	assert.Equal(t, "n/a", std30.Display)
}

func TestForecastsWithoutPriceColumnsSkipsChart(t *testing.T) {
	ds := fixture()
	ms := validation(-2, 0, 2)
	ms.Columns = []string{models.ColTestDate, models.ColError}
	ds.MultiStep[models.Horizon1D] = ms
	p := render(t, models.PageForecasts, ds, Input{})

	_, ok := p.Chart("actual_vs_predicted_1d")
	assert.False(t, ok)
	s, ok := p.Section("horizon_1d")
	require.True(t, ok)
	mae, ok := s.Metric("MAE")
	require.True(t, ok)
	assert.Equal(t, "$1.33/mt", mae.Display)

	_, ok = p.Chart("actual_vs_predicted_7d")
	assert.True(t, ok)
}

func TestModelPerformance(t *testing.T) {
	p := render(t, models.PageModelPerformance, fixture(), Input{})
	s, ok := p.Section("walk_forward")
	require.True(t, ok)
	folds, _ := s.Metric("Validation Folds")
	assert.Equal(t, "4", folds.Display)
	mae, _ := s.Metric("Out-of-Sample MAE")
	assert.Equal(t, "$1.25/mt", mae.Display)
	_, ok = s.Metric("R²")
	assert.True(t, ok)

	bars, ok := p.Chart("errors_over_time")
	require.True(t, ok)
	assert.Equal(t, []string{"green", "red", "green", "green"}, bars.Series[0].Colors)
	assert.True(t, bars.ZeroLine)

	hist, ok := p.Chart("error_distribution")
	require.True(t, ok)
	require.Len(t, hist.Series[0].Y, 20)
	total := 0.0
	for _, v := range hist.Series[0].Y {
		total += v
	}
	assert.Equal(t, 4.0, total)

	byH, ok := p.Chart("mae_by_horizon")
	require.True(t, ok)
	assert.Equal(t, []string{"1-Day", "7-Day", "30-Day"}, byH.Series[0].Labels)
}

func TestModelPerformanceNonFiniteErrorDoesNotPanic(t *testing.T) {
	ds := fixture()
	ds.WalkForward.Rows[1].Error = math.NaN()
	p := render(t, models.PageModelPerformance, ds, Input{})

	hist, ok := p.Chart("error_distribution")
	require.True(t, ok)
	total := 0.0
	for _, v := range hist.Series[0].Y {
		total += v
	}
	assert.Equal(t, 3.0, total)

	s, _ := p.Section("walk_forward")
	r2, ok := s.Metric("R²")
	require.True(t, ok)
	assert.Nil(t, r2.Value)
	assert.Equal(t, "n/a", r2.Display)
}

func TestModelPerformanceConstantActualsR2IsNA(t *testing.T) {
	ds := fixture()
	for i := range ds.WalkForward.Rows {
		ds.WalkForward.Rows[i].Actual = 600
	}
	p := render(t, models.PageModelPerformance, ds, Input{})
	s, _ := p.Section("walk_forward")
	r2, ok := s.Metric("R²")
	require.True(t, ok)
	assert.Nil(t, r2.Value)
	assert.Equal(t, "n/a", r2.Display)
}

func TestBusinessValueFormula(t *testing.T) {
	res := CalculateBusinessValue(BusinessInputs{MonthlyVolume: 1000, CurrentPrice: 607.50, BaselineMAE: 5.0, ModelMAE: 0.78})
	assert.True(t, res.ErrorReduction.Equal(decimal.RequireFromString("4.22")))
	assert.True(t, res.SavingsPerUnit.Equal(decimal.RequireFromString("2.11")))
	assert.True(t, res.MonthlySavings.Equal(decimal.NewFromInt(2110)))
	assert.True(t, res.AnnualSavings.Equal(decimal.NewFromInt(25320)))
	assert.True(t, res.AnnualSpend.Equal(decimal.NewFromInt(7290000)))
	require.NotNil(t, res.ROIPct)
	assert.InDelta(t, 0.347, res.ROIPct.InexactFloat64(), 0.0005)
}

func TestBusinessValuePage(t *testing.T) {
	p := render(t, models.PageBusinessValue, nil, Input{})
	require.Len(t, p.Controls, 4)
	assert.Equal(t, 1000.0, p.Controls[0].Value)

	s, ok := p.Section("savings")
	require.True(t, ok)
	red, _ := s.Metric("Error Reduction")
	assert.Equal(t, "$4.22/mt", red.Display)
	assert.Equal(t, "84.4% improvement", red.Delta)
	monthly, _ := s.Metric("Monthly Savings")
	assert.Equal(t, "$2,110", monthly.Display)

	roi, _ := p.Section("roi")
	spend, _ := roi.Metric("Annual Procurement Spend")
	assert.Equal(t, "$7,290,000", spend.Display)
	pct, _ := roi.Metric("ROI")
	assert.Equal(t, "0.35% of procurement budget", pct.Display)
}

func TestRenderIsDeterministic(t *testing.T) {
	ds := fixture()
	a := render(t, models.PageModelPerformance, ds, Input{})
	b := render(t, models.PageModelPerformance, ds, Input{})
	assert.Equal(t, a, b)
}
