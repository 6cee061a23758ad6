package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"SteelDash/internal/domain/models"
	domrepo "SteelDash/internal/domain/repository"
	artmetrics "SteelDash/internal/service/metrics"
	"SteelDash/internal/services/charts"
	"SteelDash/internal/services/export"
	"SteelDash/internal/usecase/pages"
	pkgcache "SteelDash/pkg/cache"
	applogger "SteelDash/pkg/logger"
	pkgmetrics "SteelDash/pkg/metrics"
)

const renderCachePrefix = "page"

// Dashboard serves rendered pages and the artifacts derived from them.
type Dashboard struct {
	loader   *DatasetLoader
	registry *pages.Registry
	cache    pkgcache.Service
	cacheTTL time.Duration
	events   domrepo.EventPublisher
	metrics  domrepo.Metrics
	charts   *charts.Renderer
	l        *applogger.Logger
	now      func() time.Time
}

type DashboardOption func(*Dashboard)

// WithRenderCache stores rendered pages in c for ttl.
func WithRenderCache(c pkgcache.Service, ttl time.Duration) DashboardOption {
	return func(d *Dashboard) {
		d.cache = c
		d.cacheTTL = ttl
	}
}

func WithEvents(p domrepo.EventPublisher) DashboardOption {
	return func(d *Dashboard) {
		d.events = p
	}
}

func WithMetrics(m domrepo.Metrics) DashboardOption {
	return func(d *Dashboard) {
		d.metrics = m
	}
}

func WithChartRenderer(r *charts.Renderer) DashboardOption {
	return func(d *Dashboard) {
		d.charts = r
	}
}

func WithLogger(l *applogger.Logger) DashboardOption {
	return func(d *Dashboard) {
		d.l = l
	}
}

func NewDashboard(loader *DatasetLoader, registry *pages.Registry, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		loader:   loader,
		registry: registry,
		cache:    pkgcache.Nop{},
		events:   domrepo.NopEventPublisher{},
		metrics:  pkgmetrics.Nop{},
		charts:   charts.NewRenderer(),
		l:        applogger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dashboard) Navigation() []models.NavItem {
	return d.registry.Navigation()
}

// Page renders one page, serving from the render cache when possible. Every
// call, cached or not, emits one page-view event.
func (d *Dashboard) Page(ctx context.Context, id models.PageID, in pages.Input) (*models.Page, error) {
	if !d.registry.Has(id) {
		d.metrics.RecordPageRender(string(id), "unknown")
		return nil, fmt.Errorf("page %q: %w", id, models.ErrUnknownPage)
	}
	start := d.now()

	ds, err := d.loader.Datasets(ctx)
	if err != nil {
		d.metrics.RecordPageRender(string(id), "error")
		d.metrics.RecordError("datasets")
		return nil, err
	}

	key := d.cacheKey(id, ds, in)
	page, hit := d.cached(ctx, id, key)
	if !hit {
		rendered, err := d.registry.Render(id, ds, in)
		if err != nil {
			d.metrics.RecordPageRender(string(id), "error")
			return nil, err
		}
		page = &rendered
		if err := pkgcache.SetJSON(ctx, d.cache, key, page, d.cacheTTL); err != nil {
			d.metrics.RecordError("render_cache")
			d.l.Warn("render cache store failed", applogger.String("page", string(id)), applogger.Error(err))
		}
	}

	elapsed := d.now().Sub(start)
	d.metrics.RecordPageRender(string(id), "ok")
	d.metrics.RecordRenderLatency(string(id), elapsed.Seconds())
	d.publish(ctx, page, hit, elapsed)
	return page, nil
}

func (d *Dashboard) cached(ctx context.Context, id models.PageID, key string) (*models.Page, bool) {
	page, err := pkgcache.GetJSON[models.Page](ctx, d.cache, key)
	switch {
	case err == nil:
		d.metrics.RecordCacheLookup(string(id), true)
		return &page, true
	case errors.Is(err, pkgcache.ErrCacheMiss):
	default:
		d.metrics.RecordError("render_cache")
		d.l.Warn("render cache lookup failed", applogger.String("page", string(id)), applogger.Error(err))
	}
	d.metrics.RecordCacheLookup(string(id), false)
	return nil, false
}

// cacheKey ties an entry to the dataset load so a restart never serves pages
// rendered from older files.
func (d *Dashboard) cacheKey(id models.PageID, ds *models.Datasets, in pages.Input) string {
	raw, _ := json.Marshal(in)
	sum := pkgcache.HashKey(d.loader.Fingerprint() + "|" + strconv.FormatInt(ds.LoadedAt.UnixNano(), 10) + "|" + string(raw))
	return pkgcache.GenerateKeyWithParams(renderCachePrefix, string(id), sum)
}

func (d *Dashboard) publish(ctx context.Context, page *models.Page, cached bool, elapsed time.Duration) {
	sections := make([]string, len(page.Sections))
	for i, s := range page.Sections {
		sections[i] = s.ID
	}
	ev := &models.PageViewEvent{
		ID:         uuid.NewString(),
		Page:       page.ID,
		RenderedAt: d.now().UTC(),
		Cached:     cached,
		Sections:   sections,
		DurationMS: elapsed.Milliseconds(),
	}
	if err := d.events.PublishPageView(ctx, ev); err != nil {
		d.metrics.RecordError("events")
		d.l.Warn("page view event dropped", applogger.String("page", string(page.ID)), applogger.Error(err))
	}
}

// Chart looks up one chart descriptor on a rendered page.
func (d *Dashboard) Chart(ctx context.Context, id models.PageID, chartID string, in pages.Input) (*models.Chart, error) {
	page, err := d.Page(ctx, id, in)
	if err != nil {
		return nil, err
	}
	c, ok := page.Chart(chartID)
	if !ok {
		return nil, fmt.Errorf("chart %q on page %q: %w", chartID, id, models.ErrUnknownChart)
	}
	return c, nil
}

// ChartPNG writes the chart as a PNG image. Zero dimensions use the
// renderer defaults.
func (d *Dashboard) ChartPNG(ctx context.Context, w io.Writer, id models.PageID, chartID string, in pages.Input, width, height int) error {
	c, err := d.Chart(ctx, id, chartID, in)
	if err != nil {
		return err
	}
	start := d.now()
	err = d.charts.RenderPNG(w, c, width, height)
	artmetrics.ArtifactLatency.WithLabelValues("chart").Observe(d.now().Sub(start).Seconds())
	if err != nil {
		artmetrics.ArtifactErrors.WithLabelValues("chart").Inc()
		return fmt.Errorf("render chart %q: %w", chartID, err)
	}
	return nil
}

// Export writes the page's metrics and tables as an XLSX workbook.
func (d *Dashboard) Export(ctx context.Context, w io.Writer, id models.PageID, in pages.Input) error {
	page, err := d.Page(ctx, id, in)
	if err != nil {
		return err
	}
	start := d.now()
	err = export.WriteXLSX(w, page)
	artmetrics.ArtifactLatency.WithLabelValues("export").Observe(d.now().Sub(start).Seconds())
	if err != nil {
		artmetrics.ArtifactErrors.WithLabelValues("export").Inc()
		return fmt.Errorf("export page %q: %w", id, err)
	}
	return nil
}

// DatasetReport is the payload of the dataset status endpoint.
type DatasetReport struct {
	Source   string                 `json:"source"`
	LoadedAt time.Time              `json:"loaded_at"`
	Datasets []models.DatasetStatus `json:"datasets"`
}

func (d *Dashboard) DatasetStatus(ctx context.Context) (*DatasetReport, error) {
	ds, err := d.loader.Datasets(ctx)
	if err != nil {
		return nil, err
	}
	return &DatasetReport{Source: ds.Source, LoadedAt: ds.LoadedAt, Datasets: ds.Status()}, nil
}
