package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"SteelDash/internal/domain/models"
	domrepo "SteelDash/internal/domain/repository"
	pkgcache "SteelDash/pkg/cache"
	applogger "SteelDash/pkg/logger"
	"SteelDash/pkg/util"
)

// CSVPaths are the resolved input file locations.
type CSVPaths struct {
	Prices      string
	WalkForward string
	MultiStep   map[models.Horizon]string
	Summary     string
}

var (
	priceColumns       = []string{models.ColSymbol, models.ColDate, models.ColPrice}
	walkForwardColumns = []string{models.ColTestDate, models.ColActual, models.ColPredicted, models.ColError, models.ColMAE, models.ColMAPE}
	multiStepColumns   = []string{models.ColTestDate, models.ColActual, models.ColPredicted, models.ColError}
	summaryColumns     = []string{models.ColSummaryHorizon, models.ColSummaryMAE}
	validationKnown    = walkForwardColumns[1:]
)

// CSVDatasetSource reads every dataset from local CSV files. The prices table
// may come from a PriceStore instead.
type CSVDatasetSource struct {
	paths  CSVPaths
	prices domrepo.PriceStore
	l      *applogger.Logger
}

type CSVOption func(*CSVDatasetSource)

// WithPriceStore replaces the prices file with a store.
func WithPriceStore(ps domrepo.PriceStore) CSVOption {
	return func(s *CSVDatasetSource) { s.prices = ps }
}

func WithLogger(l *applogger.Logger) CSVOption {
	return func(s *CSVDatasetSource) { s.l = l }
}

func NewCSVDatasetSource(paths CSVPaths, opts ...CSVOption) *CSVDatasetSource {
	s := &CSVDatasetSource{paths: paths}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fingerprint hashes the input configuration.
func (s *CSVDatasetSource) Fingerprint() string {
	parts := []string{"prices=" + s.paths.Prices, "walk_forward=" + s.paths.WalkForward, "summary=" + s.paths.Summary}
	for _, h := range models.Horizons {
		parts = append(parts, fmt.Sprintf("%s=%s", h.Key(), s.paths.MultiStep[h]))
	}
	if s.prices != nil {
		parts = append(parts, "prices_source=store")
	}
	return pkgcache.HashKey(strings.Join(parts, "|"))
}

func (s *CSVDatasetSource) Load(ctx context.Context) (*models.Datasets, error) {
	start := time.Now()
	ds := &models.Datasets{MultiStep: make(map[models.Horizon]*models.ValidationTable, len(models.Horizons))}

	if s.prices != nil {
		p, err := s.prices.LoadPrices(ctx)
		if err != nil {
			return nil, fmt.Errorf("load prices: %w", err)
		}
		ds.Prices = p
		ds.Source = string(domrepo.SourceClickHouse)
	} else {
		p, err := s.loadPrices(s.paths.Prices)
		if err != nil {
			return nil, err
		}
		ds.Prices = p
		ds.Source = string(domrepo.SourceCSV)
	}

	wf, err := s.loadValidation(models.KeyWalkForward, s.paths.WalkForward, walkForwardColumns)
	if err != nil {
		return nil, err
	}
	ds.WalkForward = wf

	for _, h := range models.Horizons {
		t, err := s.loadValidation(h.Key(), s.paths.MultiStep[h], multiStepColumns)
		if err != nil {
			return nil, err
		}
		if t != nil {
			ds.MultiStep[h] = t
		}
	}

	sum, err := s.loadSummary(s.paths.Summary)
	if err != nil {
		return nil, err
	}
	ds.Summary = sum
	ds.LoadedAt = time.Now().UTC()

	if s.l != nil {
		fields := []applogger.Field{applogger.Duration("duration_ms", time.Since(start)), applogger.String("source", ds.Source)}
		for _, st := range ds.Status() {
			fields = append(fields, applogger.Int(string(st.Key), st.Rows))
		}
		s.l.Info("datasets loaded", fields...)
	}
	return ds, nil
}

func (s *CSVDatasetSource) loadPrices(path string) (*models.PriceTable, error) {
	header, rows, ok, err := s.read(models.KeyPrices, path)
	if err != nil || !ok {
		return nil, err
	}
	idx, err := columnIndex(path, header, priceColumns)
	if err != nil {
		return nil, err
	}
	features := make([]int, 0, len(header))
	for i, h := range header {
		if h != models.ColSymbol && h != models.ColDate && h != models.ColPrice {
			features = append(features, i)
		}
	}
	t := &models.PriceTable{Rows: make([]models.PriceRecord, 0, len(rows))}
	for _, i := range features {
		t.FeatureColumns = append(t.FeatureColumns, header[i])
	}
	for n, row := range rows {
		line := n + 2
		r := models.PriceRecord{Symbol: strings.TrimSpace(row[idx[models.ColSymbol]])}
		if r.Symbol == "" {
			return nil, &models.DataFormatError{Path: path, Row: line, Column: models.ColSymbol, Err: errors.New("empty symbol")}
		}
		if r.Date, err = parseDateCell(path, line, models.ColDate, row[idx[models.ColDate]]); err != nil {
			return nil, err
		}
		if r.PriceMid, err = parseFloatCell(path, line, models.ColPrice, row[idx[models.ColPrice]]); err != nil {
			return nil, err
		}
		if len(features) > 0 {
			r.Features = make(map[string]float64, len(features))
			for _, i := range features {
				// Feature cells are optional; blanks and text are skipped.
				if v, perr := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); perr == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
					r.Features[header[i]] = v
				}
			}
		}
		t.Rows = append(t.Rows, r)
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i], t.Rows[j]
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
		return a.Date.Before(b.Date)
	})
	return t, nil
}

func (s *CSVDatasetSource) loadValidation(key models.DatasetKey, path string, required []string) (*models.ValidationTable, error) {
	header, rows, ok, err := s.read(key, path)
	if err != nil || !ok {
		return nil, err
	}
	idx, err := columnIndex(path, header, required)
	if err != nil {
		return nil, err
	}
	t := &models.ValidationTable{Columns: []string{models.ColTestDate}}
	for _, c := range validationKnown {
		if i := indexOf(header, c); i >= 0 {
			idx[c] = i
			t.Columns = append(t.Columns, c)
		}
	}
	t.Rows = make([]models.ValidationRecord, 0, len(rows))
	for n, row := range rows {
		line := n + 2
		var r models.ValidationRecord
		if r.TestDate, err = parseDateCell(path, line, models.ColTestDate, row[idx[models.ColTestDate]]); err != nil {
			return nil, err
		}
		for _, c := range t.Columns[1:] {
			v, err := parseFloatCell(path, line, c, row[idx[c]])
			if err != nil {
				return nil, err
			}
			switch c {
			case models.ColActual:
				r.Actual = v
			case models.ColPredicted:
				r.Predicted = v
			case models.ColError:
				r.Error = v
			case models.ColMAE:
				r.MAE = v
			case models.ColMAPE:
				r.MAPE = v
			}
		}
		t.Rows = append(t.Rows, r)
	}
	sort.SliceStable(t.Rows, func(i, j int) bool { return t.Rows[i].TestDate.Before(t.Rows[j].TestDate) })
	return t, nil
}

func (s *CSVDatasetSource) loadSummary(path string) (*models.SummaryTable, error) {
	header, rows, ok, err := s.read(models.KeySummary, path)
	if err != nil || !ok {
		return nil, err
	}
	idx, err := columnIndex(path, header, summaryColumns)
	if err != nil {
		return nil, err
	}
	t := &models.SummaryTable{Header: header, Raw: rows, Rows: make([]models.SummaryRecord, 0, len(rows))}
	for n, row := range rows {
		line := n + 2
		h, err := parseFloatCell(path, line, models.ColSummaryHorizon, row[idx[models.ColSummaryHorizon]])
		if err != nil {
			return nil, err
		}
		m, err := parseFloatCell(path, line, models.ColSummaryMAE, row[idx[models.ColSummaryMAE]])
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, models.SummaryRecord{HorizonDays: h, MAE: m})
	}
	return t, nil
}

// read returns ok=false, err=nil when the file does not exist.
func (s *CSVDatasetSource) read(key models.DatasetKey, path string) ([]string, [][]string, bool, error) {
	if path == "" {
		return nil, nil, false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if s.l != nil {
				s.l.Info("dataset file not found, skipping",
					applogger.String("dataset", string(key)),
					applogger.String("path", path),
				)
			}
			return nil, nil, false, nil
		}
		return nil, nil, false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	header, rows, err := readCSV(path, f)
	if err != nil {
		return nil, nil, false, err
	}
	return header, rows, true, nil
}

func readCSV(path string, r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, &models.DataFormatError{Path: path, Err: errors.New("empty file")}
		}
		return nil, nil, &models.DataFormatError{Path: path, Row: 1, Err: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	var rows [][]string
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, &models.DataFormatError{Path: path, Row: line, Err: err}
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

func columnIndex(path string, header []string, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(required))
	for _, c := range required {
		i := indexOf(header, c)
		if i < 0 {
			return nil, &models.DataFormatError{Path: path, Column: c, Err: errors.New("required column missing")}
		}
		idx[c] = i
	}
	return idx, nil
}

func indexOf(header []string, column string) int {
	for i, h := range header {
		if h == column {
			return i
		}
	}
	return -1
}

func parseDateCell(path string, line int, column, cell string) (time.Time, error) {
	t, err := util.ParseDate(cell)
	if err != nil {
		return time.Time{}, &models.DataFormatError{Path: path, Row: line, Column: column, Err: err}
	}
	return t, nil
}

func parseFloatCell(path string, line int, column, cell string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, &models.DataFormatError{Path: path, Row: line, Column: column, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &models.DataFormatError{Path: path, Row: line, Column: column, Err: fmt.Errorf("non-finite value %q", cell)}
	}
	return v, nil
}
