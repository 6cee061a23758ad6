package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"SteelDash/internal/di"
	"SteelDash/internal/domain/models"
	"SteelDash/pkg/config"
	applogger "SteelDash/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}
	l := app.Logger()
	l.Info("starting steeldash",
		applogger.String("data_root", cfg.Data.Root),
		applogger.String("prices_source", cfg.Data.PricesSource),
		applogger.String("cache", cfg.Cache.Backend),
		applogger.Bool("events", cfg.Events.Enabled),
	)

	if err := app.Run(); err != nil {
		if errors.Is(err, models.ErrDataFormat) {
			l.Error("input data is malformed, refusing to serve", applogger.Error(err))
		} else {
			l.Error("app error", applogger.Error(err))
		}
		os.Exit(1)
	}
}
