package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"SteelDash/internal/domain/models"
)

type countingSource struct {
	calls int32
	ds    *models.Datasets
	err   error
	fp    string
}

func (s *countingSource) Load(context.Context) (*models.Datasets, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.ds, s.err
}

func (s *countingSource) Fingerprint() string { return s.fp }

func TestDatasetLoaderReadsOnce(t *testing.T) {
	src := &countingSource{ds: &models.Datasets{}, fp: "a"}
	loader := NewDatasetLoader(src, nil, nil, nil)

	var wg sync.WaitGroup
	results := make([]*models.Datasets, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := loader.Datasets(context.Background())
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&src.calls))
	for _, ds := range results {
		assert.Same(t, src.ds, ds)
	}
}

func TestDatasetLoaderPropagatesFormatError(t *testing.T) {
	src := &countingSource{err: &models.DataFormatError{Path: "x.csv", Row: 2, Column: "date", Err: errors.New("bad")}, fp: "b"}
	loader := NewDatasetLoader(src, nil, nil, nil)

	err := loader.Warm(context.Background())
	assert.ErrorIs(t, err, models.ErrDataFormat)
}
