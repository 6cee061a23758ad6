//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"SteelDash/pkg/config"
	"SteelDash/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients, nil when disabled
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideRenderCache,

		// Repositories
		ProvidePriceStore,
		ProvideDatasetSource,
		ProvideEventPublisher,

		// Use cases
		ProvideDatasetLoader,
		ProvideRegistry,
		ProvideDashboard,

		// Transport
		ProvideChartLimiter,
		ProvideDashboardHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return &server.App{}, nil
}
