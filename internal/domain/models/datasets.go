package models

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// DatasetKey is the logical name a loaded table is bound to.
type DatasetKey string

const (
	KeyPrices       DatasetKey = "prices"
	KeyWalkForward  DatasetKey = "walk_forward"
	KeyMultiStep1D  DatasetKey = "multi_step_1d"
	KeyMultiStep7D  DatasetKey = "multi_step_7d"
	KeyMultiStep30D DatasetKey = "multi_step_30d"
	KeySummary      DatasetKey = "multi_step_summary"
)

// AllKeys lists every logical dataset in display order.
var AllKeys = []DatasetKey{KeyPrices, KeyWalkForward, KeyMultiStep1D, KeyMultiStep7D, KeyMultiStep30D, KeySummary}

// Horizon is the number of days ahead a forecast targets.
type Horizon int

const (
	Horizon1D  Horizon = 1
	Horizon7D  Horizon = 7
	Horizon30D Horizon = 30
)

// Horizons are rendered in this order everywhere.
var Horizons = []Horizon{Horizon1D, Horizon7D, Horizon30D}

// Label renders "7-Day".
func (h Horizon) Label() string { return fmt.Sprintf("%d-Day", int(h)) }

// Key returns the dataset holding this horizon's validation results.
func (h Horizon) Key() DatasetKey { return DatasetKey(fmt.Sprintf("multi_step_%dd", int(h))) }

// Validation table column names.
const (
	ColTestDate  = "test_date"
	ColActual    = "actual"
	ColPredicted = "predicted"
	ColError     = "error"
	ColMAE       = "mae"
	ColMAPE      = "mape"
)

// Price table column names.
const (
	ColSymbol = "symbol"
	ColDate   = "date"
	ColPrice  = "price_mid_usd_mt"
)

// Summary table column names.
const (
	ColSummaryHorizon = "Horizon (days)"
	ColSummaryMAE     = "MAE ($/mt)"
)

// PriceRecord is one (symbol, date) observation.
type PriceRecord struct {
	Symbol   string
	Date     time.Time
	PriceMid float64
	Features map[string]float64
}

// PriceTable holds prices for many symbols ordered by (symbol, date).
type PriceTable struct {
	Rows           []PriceRecord
	FeatureColumns []string
}

func (t *PriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Symbols returns the sorted unique symbols.
func (t *PriceTable) Symbols() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	out := make([]string, 0, 8)
	for _, r := range t.Rows {
		if _, ok := seen[r.Symbol]; ok {
			continue
		}
		seen[r.Symbol] = struct{}{}
		out = append(out, r.Symbol)
	}
	sort.Strings(out)
	return out
}

// HasSymbol reports whether any row carries symbol.
func (t *PriceTable) HasSymbol(symbol string) bool {
	if t == nil {
		return false
	}
	return slices.ContainsFunc(t.Rows, func(r PriceRecord) bool { return r.Symbol == symbol })
}

// ForSymbol returns the date-ordered slice for one symbol. The rows are shared, not copied.
func (t *PriceTable) ForSymbol(symbol string) *PriceTable {
	out := &PriceTable{}
	if t == nil {
		return out
	}
	out.FeatureColumns = t.FeatureColumns
	for _, r := range t.Rows {
		if r.Symbol == symbol {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Tail keeps the last n rows (all rows when fewer).
func (t *PriceTable) Tail(n int) *PriceTable {
	if t == nil || n >= len(t.Rows) {
		return t
	}
	if n < 0 {
		n = 0
	}
	return &PriceTable{Rows: t.Rows[len(t.Rows)-n:], FeatureColumns: t.FeatureColumns}
}

func (t *PriceTable) Prices() []float64 {
	if t == nil {
		return nil
	}
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.PriceMid
	}
	return out
}

func (t *PriceTable) Dates() []time.Time {
	if t == nil {
		return nil
	}
	out := make([]time.Time, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Date
	}
	return out
}

// ValidationRecord is one test period of a walk-forward or multi-step run.
// Fields whose column is absent from the source stay zero; see ValidationTable.Has.
type ValidationRecord struct {
	TestDate  time.Time
	Actual    float64
	Predicted float64
	Error     float64
	MAE       float64
	MAPE      float64
}

// ValidationTable is ordered by test date.
type ValidationTable struct {
	Rows    []ValidationRecord
	Columns []string
}

func (t *ValidationTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Has reports whether the source file carried column.
func (t *ValidationTable) Has(column string) bool {
	return t != nil && slices.Contains(t.Columns, column)
}

// Column extracts a numeric column in row order.
func (t *ValidationTable) Column(column string) ([]float64, error) {
	if t == nil {
		return nil, ErrMissingData
	}
	if !t.Has(column) {
		return nil, fmt.Errorf("column %q: %w", column, ErrMissingData)
	}
	var pick func(ValidationRecord) float64
	switch column {
	case ColActual:
		pick = func(r ValidationRecord) float64 { return r.Actual }
	case ColPredicted:
		pick = func(r ValidationRecord) float64 { return r.Predicted }
	case ColError:
		pick = func(r ValidationRecord) float64 { return r.Error }
	case ColMAE:
		pick = func(r ValidationRecord) float64 { return r.MAE }
	case ColMAPE:
		pick = func(r ValidationRecord) float64 { return r.MAPE }
	default:
		return nil, fmt.Errorf("column %q: %w", column, ErrMissingData)
	}
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = pick(r)
	}
	return out, nil
}

func (t *ValidationTable) Dates() []time.Time {
	if t == nil {
		return nil
	}
	out := make([]time.Time, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.TestDate
	}
	return out
}

// SummaryRecord is one horizon of the cross-horizon summary file.
type SummaryRecord struct {
	HorizonDays float64
	MAE         float64
}

// SummaryTable keeps the parsed rows and the raw cells for verbatim display.
type SummaryTable struct {
	Rows   []SummaryRecord
	Header []string
	Raw    [][]string
}

func (t *SummaryTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Datasets binds every logical key to an optional table. A nil table is a
// valid, representable absence.
type Datasets struct {
	Prices      *PriceTable
	WalkForward *ValidationTable
	MultiStep   map[Horizon]*ValidationTable
	Summary     *SummaryTable
	Source      string
	LoadedAt    time.Time
}

// MultiStepFor returns the horizon's table or nil.
func (d *Datasets) MultiStepFor(h Horizon) *ValidationTable {
	if d == nil || d.MultiStep == nil {
		return nil
	}
	return d.MultiStep[h]
}

// Rows returns the row count bound to key and whether the key is present.
func (d *Datasets) Rows(key DatasetKey) (int, bool) {
	if d == nil {
		return 0, false
	}
	switch key {
	case KeyPrices:
		return d.Prices.Len(), d.Prices != nil
	case KeyWalkForward:
		return d.WalkForward.Len(), d.WalkForward != nil
	case KeySummary:
		return d.Summary.Len(), d.Summary != nil
	}
	for _, h := range Horizons {
		if h.Key() == key {
			t := d.MultiStepFor(h)
			return t.Len(), t != nil
		}
	}
	return 0, false
}

// DatasetStatus reports one logical key for the status endpoint.
type DatasetStatus struct {
	Key     DatasetKey `json:"key"`
	Present bool       `json:"present"`
	Rows    int        `json:"rows"`
}

// Status summarizes every key in AllKeys order.
func (d *Datasets) Status() []DatasetStatus {
	out := make([]DatasetStatus, 0, len(AllKeys))
	for _, k := range AllKeys {
		n, ok := d.Rows(k)
		out = append(out, DatasetStatus{Key: k, Present: ok, Rows: n})
	}
	return out
}
