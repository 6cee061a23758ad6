package usecase

import (
	"context"
	"fmt"

	"SteelDash/internal/domain/models"
	domrepo "SteelDash/internal/domain/repository"
	svccache "SteelDash/internal/service/cache"
	applogger "SteelDash/pkg/logger"
)

// DatasetLoader memoizes one DatasetSource for the life of the process.
// Datasets are immutable after load, so the shared value is safe to read
// from concurrent renders.
type DatasetLoader struct {
	src     domrepo.DatasetSource
	memo    *svccache.TTLCache
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewDatasetLoader(src domrepo.DatasetSource, memo *svccache.TTLCache, m domrepo.Metrics, l *applogger.Logger) *DatasetLoader {
	if memo == nil {
		memo = svccache.NewTTLCache()
	}
	return &DatasetLoader{src: src, memo: memo, metrics: m, l: l}
}

// Fingerprint identifies the source configuration behind the loader.
func (d *DatasetLoader) Fingerprint() string {
	return d.src.Fingerprint()
}

func (d *DatasetLoader) key() string {
	return "datasets:" + d.src.Fingerprint()
}

// Datasets returns the loaded tables, reading the source on first use only.
func (d *DatasetLoader) Datasets(ctx context.Context) (*models.Datasets, error) {
	v, err := d.memo.GetOrLoad(d.key(), 0, func() (any, error) {
		ds, err := d.src.Load(ctx)
		if err != nil {
			return nil, err
		}
		d.record(ds)
		return ds, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load datasets: %w", err)
	}
	return v.(*models.Datasets), nil
}

// Warm loads eagerly so format errors surface at startup.
func (d *DatasetLoader) Warm(ctx context.Context) error {
	_, err := d.Datasets(ctx)
	return err
}

func (d *DatasetLoader) record(ds *models.Datasets) {
	for _, st := range ds.Status() {
		if d.metrics != nil {
			d.metrics.RecordDatasetRows(string(st.Key), st.Rows, st.Present)
		}
		if !st.Present && d.l != nil {
			d.l.Info("dataset unavailable, dependent sections will be omitted", applogger.String("dataset", string(st.Key)))
		}
	}
}
