package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SteelDash/internal/domain/models"
)

const pricesCSV = `symbol,date,price_mid_usd_mt,brent_usd_bbl
rebar_uae_import,2024-10-02,607.50,80.1
brent_crude_oil,2024-10-01,80.10,
rebar_uae_import,2024-10-01,605.00,79.9
`

const walkForwardCSV = `test_date,actual,predicted,error,mae,mape
2024-09-02,601,600,1,1,0.17
2024-09-01,600,602,-2,2,0.33
`

const multiStepCSV = `test_date,actual,predicted,error
2024-09-01,600,602,-2
2024-09-02,601,601,0
2024-09-03,603,601,2
`

const summaryCSV = `Horizon (days),MAE ($/mt),RMSE ($/mt)
1,0.78,1.01
7,2.10,2.70
30,4.95,6.20
`

func writeFile(t *testing.T, dir, rel, body string) string {
	t.Helper()
	p := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func fixturePaths(dir string) CSVPaths {
	return CSVPaths{
		Prices:      filepath.Join(dir, "prices.csv"),
		WalkForward: filepath.Join(dir, "wf.csv"),
		MultiStep: map[models.Horizon]string{
			models.Horizon1D:  filepath.Join(dir, "ms1.csv"),
			models.Horizon7D:  filepath.Join(dir, "ms7.csv"),
			models.Horizon30D: filepath.Join(dir, "ms30.csv"),
		},
		Summary: filepath.Join(dir, "summary.csv"),
	}
}

func TestLoadAllPresent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prices.csv", pricesCSV)
	writeFile(t, dir, "wf.csv", walkForwardCSV)
	writeFile(t, dir, "ms1.csv", multiStepCSV)
	writeFile(t, dir, "ms7.csv", multiStepCSV)
	writeFile(t, dir, "ms30.csv", multiStepCSV)
	writeFile(t, dir, "summary.csv", summaryCSV)

	ds, err := NewCSVDatasetSource(fixturePaths(dir)).Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, ds.Prices.Len())
	assert.Equal(t, []string{"brent_crude_oil", "rebar_uae_import"}, ds.Prices.Symbols())
	rebar := ds.Prices.ForSymbol("rebar_uae_import")
	assert.Equal(t, []float64{605.00, 607.50}, rebar.Prices())
	assert.Equal(t, time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC), rebar.Rows[1].Date)
	assert.Equal(t, 80.1, rebar.Rows[1].Features["brent_usd_bbl"])
	_, ok := ds.Prices.ForSymbol("brent_crude_oil").Rows[0].Features["brent_usd_bbl"]
	assert.False(t, ok, "blank feature cell is skipped")

	require.Equal(t, 2, ds.WalkForward.Len())
	assert.Equal(t, -2.0, ds.WalkForward.Rows[0].Error, "rows sorted by test_date")
	assert.True(t, ds.WalkForward.Has(models.ColMAPE))

	ms := ds.MultiStepFor(models.Horizon1D)
	require.NotNil(t, ms)
	assert.False(t, ms.Has(models.ColMAE))
	errs, err := ms.Column(models.ColError)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, 0, 2}, errs)

	require.Equal(t, 3, ds.Summary.Len())
	assert.Equal(t, []string{"Horizon (days)", "MAE ($/mt)", "RMSE ($/mt)"}, ds.Summary.Header)
	assert.Equal(t, 4.95, ds.Summary.Rows[2].MAE)
}

func TestLoadMissingFilesAreNil(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prices.csv", pricesCSV)

	ds, err := NewCSVDatasetSource(fixturePaths(dir)).Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ds.Prices)
	assert.Nil(t, ds.WalkForward)
	assert.Nil(t, ds.MultiStepFor(models.Horizon7D))
	assert.Nil(t, ds.Summary)

	n, present := ds.Rows(models.KeyWalkForward)
	assert.False(t, present)
	assert.Zero(t, n)
}

func TestLoadRejectsBadDate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wf.csv", "test_date,actual,predicted,error,mae,mape\nnot-a-date,1,1,0,0,0\n")

	_, err := NewCSVDatasetSource(fixturePaths(dir)).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDataFormat)
	var dfe *models.DataFormatError
	require.True(t, errors.As(err, &dfe))
	assert.Equal(t, 2, dfe.Row)
	assert.Equal(t, models.ColTestDate, dfe.Column)
}

func TestLoadRejectsNonNumericRequiredCell(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prices.csv", "symbol,date,price_mid_usd_mt\nrebar_uae_import,2024-10-01,abc\n")

	_, err := NewCSVDatasetSource(fixturePaths(dir)).Load(context.Background())
	assert.ErrorIs(t, err, models.ErrDataFormat)
}

func TestLoadRejectsNonFiniteRequiredCell(t *testing.T) {
	cases := map[string]string{
		"nan":      "2024-09-01,600,602,NaN,2,0.33\n",
		"inf":      "2024-09-01,600,602,-2,+Inf,0.33\n",
		"neg_inf":  "2024-09-01,-inf,602,-2,2,0.33\n",
		"lower_na": "2024-09-01,600,nan,-2,2,0.33\n",
	}
	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "wf.csv", "test_date,actual,predicted,error,mae,mape\n"+row)

			_, err := NewCSVDatasetSource(fixturePaths(dir)).Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrDataFormat)
			var dfe *models.DataFormatError
			require.True(t, errors.As(err, &dfe))
			assert.Equal(t, 2, dfe.Row)
		})
	}
}

func TestLoadSkipsNonFiniteFeatureCell(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prices.csv", "symbol,date,price_mid_usd_mt,brent_usd_bbl\nrebar_uae_import,2024-10-01,605,NaN\n")

	ds, err := NewCSVDatasetSource(fixturePaths(dir)).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, ds.Prices.Len())
	_, ok := ds.Prices.Rows[0].Features["brent_usd_bbl"]
	assert.False(t, ok)
}

func TestLoadRejectsMissingColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ms7.csv", "test_date,actual,predicted\n2024-10-01,1,1\n")

	_, err := NewCSVDatasetSource(fixturePaths(dir)).Load(context.Background())
	var dfe *models.DataFormatError
	require.True(t, errors.As(err, &dfe))
	assert.Equal(t, models.ColError, dfe.Column)
}

func TestLoadRejectsRaggedRow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ms30.csv", "test_date,actual,predicted,error\n2024-10-01,1,1\n")

	_, err := NewCSVDatasetSource(fixturePaths(dir)).Load(context.Background())
	assert.ErrorIs(t, err, models.ErrDataFormat)
}

type stubPriceStore struct{ table *models.PriceTable }

func (s stubPriceStore) LoadPrices(context.Context) (*models.PriceTable, error) { return s.table, nil }
func (stubPriceStore) Health(context.Context) error                             { return nil }
func (stubPriceStore) Close() error                                             { return nil }

func TestLoadPricesFromStore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prices.csv", "this file is ignored")
	table := &models.PriceTable{Rows: []models.PriceRecord{{Symbol: "rebar_uae_import", PriceMid: 600}}}

	src := NewCSVDatasetSource(fixturePaths(dir), WithPriceStore(stubPriceStore{table: table}))
	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, table, ds.Prices)
	assert.Equal(t, "clickhouse", ds.Source)
}

func TestFingerprintTracksPaths(t *testing.T) {
	a := NewCSVDatasetSource(fixturePaths("/a"))
	b := NewCSVDatasetSource(fixturePaths("/b"))
	assert.Equal(t, a.Fingerprint(), NewCSVDatasetSource(fixturePaths("/a")).Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestCHPriceStoreRejectsBadTableName(t *testing.T) {
	_, err := newCHPriceStore(nil, "prices; DROP TABLE x")
	assert.Error(t, err)
	s, err := newCHPriceStore(nil, "steeldash.steel_prices")
	require.NoError(t, err)
	assert.Equal(t, "steeldash.steel_prices", s.table)
}
