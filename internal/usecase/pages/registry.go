// Package pages turns loaded datasets into display models, one renderer per
// navigable page. Renderers are pure: the same datasets and input always
// produce the same page.
package pages

import (
	"fmt"

	"SteelDash/internal/domain/models"
	"SteelDash/internal/domain/service"
)

// Input carries the request-scoped values a page may read.
type Input struct {
	// Symbols selects price-history series. Nil means the configured defaults.
	Symbols  []string
	Business BusinessInputs
}

// About holds the stored model facts shown next to live metrics. They are
// display values and are not reconciled with anything computed here.
type About struct {
	Title     string
	Market    string
	ModelName string
	StoredR2  float64
	StoredMAE float64
}

type Settings struct {
	PrimarySymbol  string
	DefaultSymbols []string
	TrendWindow    int
	StatsWindow    int
	HistogramBins  int
	About          About
}

// DefaultSettings mirrors the shipped configuration.
func DefaultSettings() Settings {
	return Settings{
		PrimarySymbol:  "rebar_uae_import",
		DefaultSymbols: []string{"rebar_uae_import", "brent_crude_oil", "iron_ore_62fe_cfr_china"},
		TrendWindow:    90,
		StatsWindow:    30,
		HistogramBins:  20,
		About: About{
			Title:     "UAE Rebar Import Price Forecasting System",
			Market:    "UAE Rebar Import (CFR Jebel Ali)",
			ModelName: "Elastic Net Regression",
			StoredR2:  0.9984,
			StoredMAE: 0.78,
		},
	}
}

// Renderer builds one page.
type Renderer func(ds *models.Datasets, in Input) models.Page

type entry struct {
	nav    models.NavItem
	render Renderer
}

// Registry maps page ids to renderers.
type Registry struct {
	pages map[models.PageID]entry
}

func NewRegistry(s Settings, f service.PointForecaster) *Registry {
	if f == nil {
		f = service.NewPlaceholderForecaster(nil)
	}
	r := &renderer{s: s, forecaster: f}
	return &Registry{pages: map[models.PageID]entry{
		models.PageOverview:         {models.NavItem{ID: models.PageOverview, Title: "Overview", Icon: "📊"}, r.overview},
		models.PagePriceHistory:     {models.NavItem{ID: models.PagePriceHistory, Title: "Price History", Icon: "📈"}, r.priceHistory},
		models.PageForecasts:        {models.NavItem{ID: models.PageForecasts, Title: "Forecasts", Icon: "🔮"}, r.forecasts},
		models.PageModelPerformance: {models.NavItem{ID: models.PageModelPerformance, Title: "Model Performance", Icon: "✅"}, r.modelPerformance},
		models.PageBusinessValue:    {models.NavItem{ID: models.PageBusinessValue, Title: "Business Value", Icon: "💼"}, r.businessValue},
	}}
}

// Navigation lists the pages in display order.
func (g *Registry) Navigation() []models.NavItem {
	out := make([]models.NavItem, 0, len(models.PageOrder))
	for _, id := range models.PageOrder {
		if e, ok := g.pages[id]; ok {
			out = append(out, e.nav)
		}
	}
	return out
}

// Has reports whether id names a page.
func (g *Registry) Has(id models.PageID) bool {
	_, ok := g.pages[id]
	return ok
}

func (g *Registry) Render(id models.PageID, ds *models.Datasets, in Input) (models.Page, error) {
	e, ok := g.pages[id]
	if !ok {
		return models.Page{}, fmt.Errorf("%q: %w", id, models.ErrUnknownPage)
	}
	if ds == nil {
		ds = &models.Datasets{}
	}
	if in.Business == (BusinessInputs{}) {
		in.Business = DefaultBusinessInputs()
	}
	p := e.render(ds, in)
	if p.Sections == nil {
		p.Sections = []models.Section{}
	}
	return p, nil
}

type renderer struct {
	s          Settings
	forecaster service.PointForecaster
}
