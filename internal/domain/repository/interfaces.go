package repository

import (
	"context"

	"SteelDash/internal/domain/models"
)

// DatasetSource loads every logical dataset in one pass. A missing file must
// come back as a nil table, not an error.
type DatasetSource interface {
	Load(ctx context.Context) (*models.Datasets, error)
	// Fingerprint identifies the fixed input configuration for memoization.
	Fingerprint() string
}

// PriceStore is an alternative read-only source for the prices table.
type PriceStore interface {
	LoadPrices(ctx context.Context) (*models.PriceTable, error)
	Health(ctx context.Context) error
	Close() error
}

// EventPublisher emits page render events. Failures never fail a render.
type EventPublisher interface {
	PublishPageView(ctx context.Context, ev *models.PageViewEvent) error
	Close() error
}

// NopEventPublisher drops every event.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishPageView(context.Context, *models.PageViewEvent) error { return nil }
func (NopEventPublisher) Close() error                                                 { return nil }

type Metrics interface {
	RecordPageRender(page, result string)
	RecordRenderLatency(page string, seconds float64)
	RecordCacheLookup(page string, hit bool)
	RecordDatasetRows(key string, rows int, present bool)
	RecordError(kind string)
}
