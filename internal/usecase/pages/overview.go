package pages

import (
	"fmt"

	"SteelDash/internal/domain/models"
	"SteelDash/internal/services/stats"
	"SteelDash/pkg/util"
)

// Interval is a symmetric band around a point forecast.
type Interval struct {
	Lower float64
	Upper float64
}

func (i Interval) String() string { return fmt.Sprintf("%s - %s", usd(i.Lower), usd(i.Upper)) }

// ForecastIntervals returns the 68% (±1σ) and 95% (±2σ) bands under a
// normal error assumption.
func ForecastIntervals(forecast, sigma float64) (ci68, ci95 Interval) {
	return Interval{forecast - sigma, forecast + sigma}, Interval{forecast - 2*sigma, forecast + 2*sigma}
}

func (r *renderer) overview(ds *models.Datasets, _ Input) models.Page {
	p := models.Page{
		ID:       models.PageOverview,
		Title:    "Steel Price Forecasting Dashboard",
		Subtitle: r.s.About.Market,
	}
	primary := ds.Prices.ForSymbol(r.s.PrimarySymbol)
	prices := primary.Prices()
	current, err := stats.Latest(prices)
	if err == nil {
		p.Sections = append(p.Sections, r.keyMetrics(ds, prices, current))
		p.Sections = append(p.Sections, r.priceTrend(primary))
		if s, ok := r.forecastTable(ds, current, primary); ok {
			p.Sections = append(p.Sections, s)
		}
	}
	p.Sections = append(p.Sections, r.about())
	return p
}

func (r *renderer) keyMetrics(ds *models.Datasets, prices []float64, current float64) models.Section {
	s := models.Section{ID: "key_metrics", Title: "Key Metrics"}

	cur := metric("Current Price", current, nil, perMT)
	if prev, err := stats.Previous(prices); err == nil {
		change := current - prev
		if prev != 0 {
			cur = withDelta(cur, fmt.Sprintf("%+.2f (%+.1f%%)", change, change/prev*100))
		} else {
			cur = withDelta(cur, fmt.Sprintf("%+.2f", change))
		}
	}
	s.Add(cur)

	avg, err := stats.TailStat(prices, r.s.StatsWindow, stats.Mean)
	s.Add(metric(fmt.Sprintf("%d-Day Average", r.s.StatsWindow), avg, err, perMT))
	vol, err := stats.TailStat(prices, r.s.StatsWindow, stats.Std)
	s.Add(metric(fmt.Sprintf("%d-Day Volatility", r.s.StatsWindow), vol, err, perMT))

	if ds.WalkForward != nil {
		mae, err := ds.WalkForward.Column(models.ColMAE)
		if err == nil {
			v, err := stats.Mean(mae)
			s.Add(metric("Model MAE", v, err, perMT))
		}
	}
	return s
}

func (r *renderer) priceTrend(primary *models.PriceTable) models.Section {
	recent := primary.Tail(r.s.TrendWindow)
	s := models.Section{ID: "price_trend", Title: fmt.Sprintf("Recent Price Trends (Last %d Days)", r.s.TrendWindow)}
	s.Add(models.ChartBlock(models.Chart{
		ID:     "price_trend",
		Title:  r.s.About.Market,
		Kind:   models.ChartArea,
		XTitle: "Date",
		YTitle: "Price (USD/mt)",
		Height: 400,
		Series: []models.Series{{
			Name:  util.HumanizeSymbol(r.s.PrimarySymbol),
			Dates: recent.Dates(),
			Y:     recent.Prices(),
			Color: "#1f77b4",
			Mode:  "lines",
			Fill:  true,
		}},
	}))
	return s
}

func (r *renderer) forecastTable(ds *models.Datasets, current float64, primary *models.PriceTable) (models.Section, bool) {
	last := primary.Rows[len(primary.Rows)-1].Date
	t := models.Table{
		ID:      "latest_forecast",
		Columns: []string{"Horizon", "Date", "Forecast", "68% CI", "95% CI"},
	}
	for _, h := range models.Horizons {
		ms := ds.MultiStepFor(h)
		if ms == nil {
			continue
		}
		errs, err := ms.Column(models.ColError)
		if err != nil {
			continue
		}
		f := r.forecaster.Forecast(current, h)
		row := []string{h.Label(), util.FormatDate(util.AddDays(last, int(h))), usd(f), notAvailable, notAvailable}
		if sigma, err := stats.Std(errs); err == nil {
			ci68, ci95 := ForecastIntervals(f, sigma)
			row[3], row[4] = ci68.String(), ci95.String()
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return models.Section{}, false
	}
	s := models.Section{ID: "latest_forecast", Title: "Latest Multi-Step Forecast"}
	s.Add(models.TableBlock(t))
	return s, true
}

func (r *renderer) about() models.Section {
	a := r.s.About
	s := models.Section{ID: "about", Title: "About"}
	s.Add(
		models.TextBlock(models.Text{
			Heading: a.Title,
			Body: "**Features:**\n" +
				"- 1, 7, and 30-day forecasts\n" +
				"- Walk-forward validation\n" +
				"- Confidence intervals\n" +
				"- External feature integration\n\n" +
				fmt.Sprintf("**Model:** %s", a.ModelName),
		}),
		metric("R² (out-of-sample)", a.StoredR2, nil, ratio4),
		metric("MAE", a.StoredMAE, nil, perMT),
	)
	return s
}
