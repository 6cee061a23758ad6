package pages

import (
	"fmt"

	"SteelDash/internal/domain/models"
	"SteelDash/internal/services/stats"
)

const forecastsIntro = `This page shows forecast performance at different horizons:
- **1-Day Ahead**: Next trading day prediction
- **7-Day Ahead**: Weekly planning forecast
- **30-Day Ahead**: Monthly budget forecast`

func horizonTab(h models.Horizon) string { return fmt.Sprintf("%d-Day Ahead", int(h)) }

func horizonSectionID(h models.Horizon) string { return fmt.Sprintf("horizon_%dd", int(h)) }

// ActualVsPredictedChartID names the per-horizon chart.
func ActualVsPredictedChartID(h models.Horizon) string {
	return fmt.Sprintf("actual_vs_predicted_%dd", int(h))
}

func (r *renderer) forecasts(ds *models.Datasets, _ Input) models.Page {
	p := models.Page{ID: models.PageForecasts, Title: "Multi-Step Forecasts"}
	tabs := models.Control{ID: "horizon", Label: "Horizon", Kind: models.ControlTabs}
	for _, h := range models.Horizons {
		tabs.Options = append(tabs.Options, horizonTab(h))
	}
	p.Controls = []models.Control{tabs}

	intro := models.Section{ID: "intro", Title: "Forecast Horizons"}
	intro.Add(models.TextBlock(models.Text{Body: forecastsIntro}))
	p.Sections = append(p.Sections, intro)

	for _, h := range models.Horizons {
		t := ds.MultiStepFor(h)
		if t == nil {
			continue
		}
		p.Sections = append(p.Sections, horizonSection(h, t))
	}
	return p
}

func horizonSection(h models.Horizon, t *models.ValidationTable) models.Section {
	s := models.Section{ID: horizonSectionID(h), Title: horizonTab(h)}
	actual, aerr := t.Column(models.ColActual)
	predicted, perr := t.Column(models.ColPredicted)
	if aerr == nil && perr == nil {
		dates := t.Dates()
		s.Add(models.ChartBlock(models.Chart{
			ID:         ActualVsPredictedChartID(h),
			Title:      fmt.Sprintf("%s: Actual vs Predicted", horizonTab(h)),
			Kind:       models.ChartLine,
			XTitle:     "Date",
			YTitle:     "Price (USD/mt)",
			ShowLegend: true,
			Height:     400,
			Series: []models.Series{
				{Name: "Actual", Dates: dates, Y: actual, Color: "blue", Mode: "lines+markers"},
				{Name: "Predicted", Dates: dates, Y: predicted, Color: "red", Mode: "lines+markers", Dash: true},
			},
		}))
	}

	errs, err := t.Column(models.ColError)
	if err != nil {
		return s
	}
	mae, err := stats.MeanAbs(errs)
	s.Add(metric("MAE", mae, err, perMT))
	mean, err := stats.Mean(errs)
	s.Add(metric("Mean Error", mean, err, perMT))
	std, err := stats.Std(errs)
	s.Add(metric("Std Dev", std, err, perMT))
	mx, err := stats.MaxAbs(errs)
	s.Add(metric("Max Error", mx, err, perMT))
	return s
}
