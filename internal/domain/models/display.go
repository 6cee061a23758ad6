package models

import "time"

// PageID names one of the navigable pages.
type PageID string

const (
	PageOverview         PageID = "overview"
	PagePriceHistory     PageID = "price_history"
	PageForecasts        PageID = "forecasts"
	PageModelPerformance PageID = "model_performance"
	PageBusinessValue    PageID = "business_value"
)

// PageOrder is the navigation order.
var PageOrder = []PageID{PageOverview, PagePriceHistory, PageForecasts, PageModelPerformance, PageBusinessValue}

// NavItem is one navigation option.
type NavItem struct {
	ID    PageID `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
}

// Page is the display model handed to the presentation layer.
type Page struct {
	ID       PageID    `json:"id"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Controls []Control `json:"controls,omitempty"`
	Sections []Section `json:"sections"`
}

// Chart finds a chart block by id across all sections.
func (p *Page) Chart(id string) (*Chart, bool) {
	for _, s := range p.Sections {
		for _, b := range s.Blocks {
			if b.Kind == BlockChart && b.Chart != nil && b.Chart.ID == id {
				return b.Chart, true
			}
		}
	}
	return nil, false
}

// Tables returns every table block in page order.
func (p *Page) Tables() []*Table {
	var out []*Table
	for _, s := range p.Sections {
		for _, b := range s.Blocks {
			if b.Kind == BlockTable && b.Table != nil {
				out = append(out, b.Table)
			}
		}
	}
	return out
}

// Section returns the section with id, if rendered.
func (p *Page) Section(id string) (*Section, bool) {
	for i := range p.Sections {
		if p.Sections[i].ID == id {
			return &p.Sections[i], true
		}
	}
	return nil, false
}

type ControlKind string

const (
	ControlMultiSelect ControlKind = "multiselect"
	ControlNumber      ControlKind = "number"
	ControlTabs        ControlKind = "tabs"
)

// Control describes an input widget and its current value.
type Control struct {
	ID       string      `json:"id"`
	Label    string      `json:"label"`
	Kind     ControlKind `json:"kind"`
	Options  []string    `json:"options,omitempty"`
	Selected []string    `json:"selected,omitempty"`
	Min      float64     `json:"min,omitempty"`
	Max      float64     `json:"max,omitempty"`
	Step     float64     `json:"step,omitempty"`
	Value    float64     `json:"value,omitempty"`
	Help     string      `json:"help,omitempty"`
}

// Section groups blocks under a heading (or a tab).
type Section struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

// Add appends non-nil blocks.
func (s *Section) Add(blocks ...Block) {
	for _, b := range blocks {
		if b.Kind != "" {
			s.Blocks = append(s.Blocks, b)
		}
	}
}

// Metric returns the metric block with label.
func (s *Section) Metric(label string) (*Metric, bool) {
	for _, b := range s.Blocks {
		if b.Kind == BlockMetric && b.Metric != nil && b.Metric.Label == label {
			return b.Metric, true
		}
	}
	return nil, false
}

type BlockKind string

const (
	BlockMetric BlockKind = "metric"
	BlockTable  BlockKind = "table"
	BlockChart  BlockKind = "chart"
	BlockText   BlockKind = "text"
)

// Block is a tagged union; exactly the field matching Kind is set.
type Block struct {
	Kind   BlockKind `json:"kind"`
	Metric *Metric   `json:"metric,omitempty"`
	Table  *Table    `json:"table,omitempty"`
	Chart  *Chart    `json:"chart,omitempty"`
	Text   *Text     `json:"text,omitempty"`
}

func MetricBlock(m Metric) Block { return Block{Kind: BlockMetric, Metric: &m} }
func TableBlock(t Table) Block   { return Block{Kind: BlockTable, Table: &t} }
func ChartBlock(c Chart) Block   { return Block{Kind: BlockChart, Chart: &c} }
func TextBlock(t Text) Block     { return Block{Kind: BlockText, Text: &t} }

// Metric is a single headline number. A nil Value means the statistic was
// undefined and Display reads "n/a".
type Metric struct {
	Label   string   `json:"label"`
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
	Delta   string   `json:"delta,omitempty"`
}

type Table struct {
	ID      string     `json:"id"`
	Title   string     `json:"title,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Text is markdown content.
type Text struct {
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body"`
}

type ChartKind string

const (
	ChartLine      ChartKind = "line"
	ChartArea      ChartKind = "area"
	ChartBar       ChartKind = "bar"
	ChartHistogram ChartKind = "histogram"
)

type Chart struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Kind       ChartKind `json:"kind"`
	XTitle     string    `json:"x_title"`
	YTitle     string    `json:"y_title"`
	ZeroLine   bool      `json:"zero_line,omitempty"`
	ShowLegend bool      `json:"show_legend"`
	Height     int       `json:"height,omitempty"`
	Series     []Series  `json:"series"`
}

// Series carries exactly one x axis: Dates, Labels or X.
type Series struct {
	Name   string      `json:"name"`
	Dates  []time.Time `json:"dates,omitempty"`
	Labels []string    `json:"labels,omitempty"`
	X      []float64   `json:"x,omitempty"`
	Y      []float64   `json:"y"`
	Color  string      `json:"color,omitempty"`
	Colors []string    `json:"colors,omitempty"` // per point, bar charts
	Mode   string      `json:"mode,omitempty"`   // lines | lines+markers
	Dash   bool        `json:"dash,omitempty"`
	Fill   bool        `json:"fill,omitempty"`
}
