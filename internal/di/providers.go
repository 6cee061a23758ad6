package di

import (
	"fmt"

	"SteelDash/internal/domain/models"
	"SteelDash/internal/domain/repository"
	"SteelDash/internal/domain/service"
	"SteelDash/internal/handler/api"
	internalrepo "SteelDash/internal/repository"
	svccache "SteelDash/internal/service/cache"
	artmetrics "SteelDash/internal/service/metrics"
	"SteelDash/internal/service/ratelimit"
	"SteelDash/internal/services/charts"
	"SteelDash/internal/usecase"
	"SteelDash/internal/usecase/pages"
	pkgcache "SteelDash/pkg/cache"
	pkgch "SteelDash/pkg/clickhouse"
	"SteelDash/pkg/config"
	xhttp "SteelDash/pkg/http"
	pkgkafka "SteelDash/pkg/kafka"
	applogger "SteelDash/pkg/logger"
	"SteelDash/pkg/metrics"
	"SteelDash/pkg/server"
)

func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates the Prometheus recorder on the default registry.
func ProvideMetrics() repository.Metrics {
	artmetrics.Register()
	return metrics.New(nil)
}

// ProvideClickHouseClient connects only when prices come from ClickHouse.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if repository.NormalizeSource(cfg.Data.PricesSource) != repository.SourceClickHouse {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(4, 2),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

func ProvidePriceStore(ch *pkgch.Client, cfg *config.Config, l *applogger.Logger) (repository.PriceStore, error) {
	if ch == nil {
		return nil, nil
	}
	store, err := internalrepo.NewCHPriceStore(ch, cfg.ClickHouse.PricesTable)
	if err != nil {
		return nil, fmt.Errorf("clickhouse prices: %w", err)
	}
	store.SetLogger(l)
	return store, nil
}

func ProvideDatasetSource(cfg *config.Config, ps repository.PriceStore, l *applogger.Logger) repository.DatasetSource {
	p := cfg.Data.Paths
	paths := internalrepo.CSVPaths{
		Prices:      cfg.ResolvePath(p.Prices),
		WalkForward: cfg.ResolvePath(p.WalkForward),
		MultiStep: map[models.Horizon]string{
			models.Horizon1D:  cfg.ResolvePath(p.MultiStep1),
			models.Horizon7D:  cfg.ResolvePath(p.MultiStep7),
			models.Horizon30D: cfg.ResolvePath(p.MultiStep30),
		},
		Summary: cfg.ResolvePath(p.Summary),
	}
	opts := []internalrepo.CSVOption{internalrepo.WithLogger(l)}
	if ps != nil {
		opts = append(opts, internalrepo.WithPriceStore(ps))
	}
	return internalrepo.NewCSVDatasetSource(paths, opts...)
}

func ProvideDatasetLoader(src repository.DatasetSource, m repository.Metrics, l *applogger.Logger) *usecase.DatasetLoader {
	return usecase.NewDatasetLoader(src, svccache.NewTTLCache(), m, l)
}

func ProvideRegistry(cfg *config.Config) *pages.Registry {
	d := cfg.Dashboard
	s := pages.Settings{
		PrimarySymbol:  d.PrimarySymbol,
		DefaultSymbols: d.DefaultSymbols,
		TrendWindow:    d.TrendWindow,
		StatsWindow:    d.StatsWindow,
		HistogramBins:  d.HistogramBins,
		About: pages.About{
			Title:     d.About.Title,
			Market:    d.About.Market,
			ModelName: d.About.ModelName,
			StoredR2:  d.About.StoredR2,
			StoredMAE: d.About.StoredMAE,
		},
	}
	var offsets map[models.Horizon]float64
	if len(d.ForecastOffsets) > 0 {
		offsets = make(map[models.Horizon]float64, len(d.ForecastOffsets))
		for days, off := range d.ForecastOffsets {
			offsets[models.Horizon(days)] = off
		}
	}
	return pages.NewRegistry(s, service.NewPlaceholderForecaster(offsets))
}

// ProvideRenderCache builds the configured cache backend.
func ProvideRenderCache(cfg *config.Config) (pkgcache.Service, error) {
	switch cfg.Cache.Backend {
	case "none":
		return pkgcache.Nop{}, nil
	case "memory":
		return pkgcache.NewMemoryCache(memoryOptions(cfg)...), nil
	}

	rc, err := pkgcache.NewRedisCache(redisOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("render cache: %w", err)
	}
	if cfg.Cache.Backend == "layered" {
		return pkgcache.NewLayeredCache(rc,
			pkgcache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
			pkgcache.WithLayeredMemoryTTL(cfg.Cache.TTL),
		), nil
	}
	return rc, nil
}

func memoryOptions(cfg *config.Config) []pkgcache.MemoryOption {
	return []pkgcache.MemoryOption{
		pkgcache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
		pkgcache.WithMemoryCleanup(cfg.Cache.CleanupInterval),
	}
}

func redisOptions(cfg *config.Config) []pkgcache.RedisOption {
	r := cfg.Redis
	return []pkgcache.RedisOption{
		pkgcache.WithRedisHost(r.Host),
		pkgcache.WithRedisPort(r.Port),
		pkgcache.WithRedisPassword(r.Password),
		pkgcache.WithRedisDB(r.DB),
		pkgcache.WithRedisPrefix(r.Prefix),
		pkgcache.WithRedisPool(r.PoolSize, r.MinIdleConns, r.PoolTimeout),
	}
}

// ProvideKafkaProducer returns nil when page-view events are disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return repository.NopEventPublisher{}
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Events.Topic)
}

func ProvideDashboard(
	cfg *config.Config,
	loader *usecase.DatasetLoader,
	registry *pages.Registry,
	renderCache pkgcache.Service,
	events repository.EventPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Dashboard {
	return usecase.NewDashboard(loader, registry,
		usecase.WithRenderCache(renderCache, cfg.Cache.TTL),
		usecase.WithEvents(events),
		usecase.WithMetrics(m),
		usecase.WithChartRenderer(charts.NewRenderer()),
		usecase.WithLogger(l),
	)
}

func ProvideChartLimiter(cfg *config.Config) *ratelimit.Limiter {
	if cfg.Server.ChartRate <= 0 {
		return nil
	}
	return ratelimit.New(float64(cfg.Server.ChartBurst), cfg.Server.ChartRate)
}

func ProvideDashboardHandler(l *applogger.Logger, dash *usecase.Dashboard, limiter *ratelimit.Limiter) *api.DashboardEchoHandler {
	return api.NewDashboardEchoHandler(l, dash, limiter)
}

func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.DashboardEchoHandler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer([]xhttp.Handler{h},
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowRequest(cfg.Server.SlowRequest),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
	)
}

func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	loader *usecase.DatasetLoader,
	renderCache pkgcache.Service,
	events repository.EventPublisher,
	prices repository.PriceStore,
	ch *pkgch.Client,
	limiter *ratelimit.Limiter,
) *server.App {
	opts := []server.Option{
		server.WithCloser("render cache", renderCache),
		server.WithCloser("events", events),
		server.WithLimiter(limiter),
	}
	if prices != nil {
		opts = append(opts, server.WithCloser("prices", prices))
	}
	if ch != nil {
		opts = append(opts, server.WithCloser("clickhouse", ch))
	}
	return server.New(cfg, l, srv, loader, opts...)
}
