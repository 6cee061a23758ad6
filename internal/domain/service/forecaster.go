package service

import "SteelDash/internal/domain/models"

// PointForecaster produces the point forecast shown in the overview table.
// Implementations backed by a real model replace PlaceholderForecaster.
type PointForecaster interface {
	Forecast(current float64, h models.Horizon) float64
}

// PlaceholderForecaster subtracts a constant offset per horizon from the
// current price. It is not a model output.
type PlaceholderForecaster struct {
	Offsets map[models.Horizon]float64
}

// DefaultOffsets are the demo offsets the dashboard ships with.
var DefaultOffsets = map[models.Horizon]float64{
	models.Horizon1D:  1.0,
	models.Horizon7D:  2.0,
	models.Horizon30D: 5.0,
}

func NewPlaceholderForecaster(offsets map[models.Horizon]float64) *PlaceholderForecaster {
	if len(offsets) == 0 {
		offsets = DefaultOffsets
	}
	return &PlaceholderForecaster{Offsets: offsets}
}

func (p *PlaceholderForecaster) Forecast(current float64, h models.Horizon) float64 {
	return current - p.Offsets[h]
}
