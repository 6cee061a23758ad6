// Package charts rasterizes chart descriptors to PNG with go-chart.
package charts

import (
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"SteelDash/internal/domain/models"
	"SteelDash/pkg/util"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 400
	minSide       = 200
	maxSide       = 2400
)

// palette follows the usual plotting colorway for series without a color.
var palette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b", "#e377c2", "#7f7f7f"}

var named = map[string]drawing.Color{
	"blue":      {R: 0, G: 0, B: 255, A: 255},
	"red":       {R: 255, G: 0, B: 0, A: 255},
	"green":     {R: 0, G: 128, B: 0, A: 255},
	"lightblue": {R: 173, G: 216, B: 230, A: 255},
	"black":     {R: 0, G: 0, B: 0, A: 255},
	"gray":      {R: 128, G: 128, B: 128, A: 255},
}

// Renderer turns models.Chart into PNG bytes.
type Renderer struct {
	width  int
	height int
}

type Option func(*Renderer)

func WithSize(width, height int) Option {
	return func(r *Renderer) {
		r.width, r.height = width, height
	}
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderPNG writes c to w. Zero width or height use the renderer defaults;
// the chart's own height wins over the default height.
func (r *Renderer) RenderPNG(w io.Writer, c *models.Chart, width, height int) error {
	if c == nil || len(c.Series) == 0 {
		return fmt.Errorf("chart has no series: %w", models.ErrMissingData)
	}
	if width == 0 {
		width = r.width
	}
	if height == 0 {
		height = r.height
		if c.Height > 0 {
			height = c.Height
		}
	}
	width, height = clamp(width), clamp(height)

	switch c.Kind {
	case models.ChartBar, models.ChartHistogram:
		return renderBars(w, c, width, height)
	default:
		return renderLines(w, c, width, height)
	}
}

func renderLines(w io.Writer, c *models.Chart, width, height int) error {
	series := make([]chart.Series, 0, len(c.Series)+1)
	var ys []float64
	for i, s := range c.Series {
		if len(s.Y) < 2 {
			return fmt.Errorf("series %q has %d points: %w", s.Name, len(s.Y), models.ErrUnderflow)
		}
		style := chart.Style{
			StrokeColor: color(s.Color, i),
			StrokeWidth: 2,
		}
		if s.Dash {
			style.StrokeDashArray = []float64{5, 5}
		}
		if strings.Contains(s.Mode, "markers") {
			style.DotWidth = 3
			style.DotColor = style.StrokeColor
		}
		if s.Fill || c.Kind == models.ChartArea {
			style.FillColor = style.StrokeColor.WithAlpha(26)
		}
		switch {
		case len(s.Dates) == len(s.Y):
			series = append(series, chart.TimeSeries{Name: s.Name, XValues: s.Dates, YValues: s.Y, Style: style})
		case len(s.X) == len(s.Y):
			series = append(series, chart.ContinuousSeries{Name: s.Name, XValues: s.X, YValues: s.Y, Style: style})
		default:
			return fmt.Errorf("series %q has no x axis: %w", s.Name, models.ErrMissingData)
		}
		ys = append(ys, s.Y...)
	}

	lo, hi := yRange(ys, c.Kind == models.ChartArea)
	ch := chart.Chart{
		Title:      c.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: c.XTitle},
		YAxis:      chart.YAxis{Name: c.YTitle, Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Series:     series,
	}
	if len(c.Series[0].Dates) > 0 {
		ch.XAxis.ValueFormatter = chart.TimeValueFormatterWithFormat("2006-01-02")
	}
	if c.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(chart.PNG, w)
}

func renderBars(w io.Writer, c *models.Chart, width, height int) error {
	s := c.Series[0]
	if len(s.Y) == 0 {
		return fmt.Errorf("series %q is empty: %w", s.Name, models.ErrUnderflow)
	}
	bars := make([]chart.Value, len(s.Y))
	for i, v := range s.Y {
		col := color(s.Color, 0)
		if i < len(s.Colors) {
			col = color(s.Colors[i], 0)
		}
		bars[i] = chart.Value{
			Value: v,
			Label: barLabel(s, i),
			Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
		}
	}
	lo, hi := yRange(s.Y, true)
	barWidth := (width - 120) * 3 / (4 * len(bars))
	if barWidth < 1 {
		barWidth = 1
	}
	spacing := barWidth / 3
	if spacing < 1 {
		spacing = 1
	}
	bc := chart.BarChart{
		Title:      c.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		BarWidth:   barWidth,
		BarSpacing: spacing,
		YAxis:      chart.YAxis{Name: c.YTitle, Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Bars:       bars,
	}
	if c.ZeroLine {
		bc.UseBaseValue = true
		bc.BaseValue = 0
	}
	return bc.Render(chart.PNG, w)
}

func barLabel(s models.Series, i int) string {
	switch {
	case i < len(s.Labels):
		return s.Labels[i]
	case i < len(s.Dates):
		return util.FormatDate(s.Dates[i])
	case i < len(s.X):
		return fmt.Sprintf("%.2f", s.X[i])
	default:
		return ""
	}
}

// yRange pads the data range so flat series still render. withZero keeps
// zero inside the range.
func yRange(ys []float64, withZero bool) (float64, float64) {
	lo, hi := ys[0], ys[0]
	for _, v := range ys[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if withZero {
		if lo > 0 {
			lo = 0
		}
		if hi < 0 {
			hi = 0
		}
	}
	if hi == lo {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	if withZero && lo == 0 {
		return lo, hi + pad
	}
	return lo - pad, hi + pad
}

func color(name string, i int) drawing.Color {
	if name == "" {
		name = palette[i%len(palette)]
	}
	if c, ok := named[strings.ToLower(name)]; ok {
		return c
	}
	return drawing.ColorFromHex(strings.TrimPrefix(name, "#"))
}

func clamp(v int) int {
	if v < minSide {
		return minSide
	}
	if v > maxSide {
		return maxSide
	}
	return v
}
