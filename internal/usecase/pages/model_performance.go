package pages

import (
	"fmt"
	"strconv"

	"SteelDash/internal/domain/models"
	"SteelDash/internal/services/stats"
)

func (r *renderer) modelPerformance(ds *models.Datasets, _ Input) models.Page {
	p := models.Page{ID: models.PageModelPerformance, Title: "Model Performance Analysis"}
	if wf := ds.WalkForward; wf != nil {
		p.Sections = append(p.Sections, walkForwardSection(wf), errorsOverTimeSection(wf))
		if s, ok := r.errorDistributionSection(wf); ok {
			p.Sections = append(p.Sections, s)
		}
	}
	if ds.Summary != nil {
		p.Sections = append(p.Sections, summarySection(ds.Summary))
	}
	return p
}

func walkForwardSection(wf *models.ValidationTable) models.Section {
	s := models.Section{ID: "walk_forward", Title: "Walk-Forward Validation Results"}
	if mae, err := wf.Column(models.ColMAE); err == nil {
		v, err := stats.Mean(mae)
		s.Add(metric("Out-of-Sample MAE", v, err, perMT))
	}
	if mape, err := wf.Column(models.ColMAPE); err == nil {
		v, err := stats.Mean(mape)
		s.Add(metric("Out-of-Sample MAPE", v, err, pct2))
	}
	actual, aerr := wf.Column(models.ColActual)
	residual, rerr := wf.Column(models.ColError)
	if aerr == nil && rerr == nil {
		v, err := stats.RSquared(actual, residual)
		s.Add(metric("R²", v, err, ratio4))
	}
	s.Add(metric("Validation Folds", float64(wf.Len()), nil, func(v float64) string { return strconv.Itoa(int(v)) }))
	return s
}

func errorsOverTimeSection(wf *models.ValidationTable) models.Section {
	s := models.Section{ID: "errors_over_time", Title: "Prediction Errors Over Time"}
	errs, err := wf.Column(models.ColError)
	if err != nil {
		return s
	}
	colors := make([]string, len(errs))
	for i, e := range errs {
		if e < 0 {
			colors[i] = "red"
		} else {
			colors[i] = "green"
		}
	}
	s.Add(models.ChartBlock(models.Chart{
		ID:       "errors_over_time",
		Title:    "Prediction Errors by Date",
		Kind:     models.ChartBar,
		XTitle:   "Date",
		YTitle:   "Error (USD/mt)",
		ZeroLine: true,
		Height:   400,
		Series:   []models.Series{{Name: "Error", Dates: wf.Dates(), Y: errs, Colors: colors}},
	}))
	return s
}

func (r *renderer) errorDistributionSection(wf *models.ValidationTable) (models.Section, bool) {
	errs, err := wf.Column(models.ColError)
	if err != nil {
		return models.Section{}, false
	}
	bins, err := stats.Histogram(errs, r.s.HistogramBins)
	if err != nil {
		return models.Section{}, false
	}
	x := make([]float64, len(bins))
	y := make([]float64, len(bins))
	for i, b := range bins {
		x[i] = b.Center()
		y[i] = float64(b.Count)
	}
	s := models.Section{ID: "error_distribution", Title: "Error Distribution"}
	s.Add(models.ChartBlock(models.Chart{
		ID:     "error_distribution",
		Title:  "Distribution of Prediction Errors",
		Kind:   models.ChartHistogram,
		XTitle: "Error (USD/mt)",
		YTitle: "Frequency",
		Height: 350,
		Series: []models.Series{{Name: "Error Distribution", X: x, Y: y, Color: "lightblue"}},
	}))
	return s, true
}

func summarySection(sum *models.SummaryTable) models.Section {
	s := models.Section{ID: "multi_horizon", Title: "Multi-Horizon Performance Comparison"}
	labels := make([]string, len(sum.Rows))
	mae := make([]float64, len(sum.Rows))
	for i, row := range sum.Rows {
		labels[i] = fmt.Sprintf("%d-Day", int(row.HorizonDays))
		mae[i] = row.MAE
	}
	s.Add(
		models.ChartBlock(models.Chart{
			ID:     "mae_by_horizon",
			Title:  "MAE by Forecast Horizon",
			Kind:   models.ChartBar,
			XTitle: "Horizon",
			YTitle: "MAE (USD/mt)",
			Height: 350,
			Series: []models.Series{{Name: "MAE", Labels: labels, Y: mae, Color: "lightblue"}},
		}),
		models.TableBlock(models.Table{
			ID:      "multi_step_summary",
			Columns: append([]string(nil), sum.Header...),
			Rows:    sum.Raw,
		}),
	)
	return s
}
