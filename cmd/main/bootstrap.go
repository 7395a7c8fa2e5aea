package main

import (
	"fmt"
	"os"

	"sales-observer/src/analysis"
	"sales-observer/src/cache"
	"sales-observer/src/config"
	datasource "sales-observer/src/data_source"
	"sales-observer/src/logger"
	"sales-observer/src/metrics"
	"sales-observer/src/network"
	"sales-observer/src/service"
	"sales-observer/src/utils"
)

// app holds the wired components shared by every command
type app struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	Service *service.AnalyticsService
}

// -----------------------------------------------------------------------------

// loadConfig reads --config and applies --source on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if sourceFlag != "" {
		cfg.Source.Location = sourceFlag
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------

// bootstrap builds the component graph. Logs go to stderr so report and
// export output on stdout stays clean.
func bootstrap() (*app, error) {
	// 1. Config
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// 2. Logger
	appLogger := logger.NewLogger(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	}, cfg.Name)

	// 3. Network + sources
	networkManager, err := network.NewNetworkManager(cfg.Network, appLogger.With("NetworkManager"))
	if err != nil {
		return nil, err
	}
	registry := datasource.NewRegistry(cfg.Source, networkManager, appLogger.With("Sources"))

	// 4. Metrics + loader cache
	m := metrics.NewMetrics()
	loaderCache, err := cache.NewLoaderCache(cfg.Cache.Size, m, appLogger.With("LoaderCache"))
	if err != nil {
		return nil, err
	}

	// 5. Analysis
	calendar := utils.NewBusinessCalendar(cfg.Report.CalendarMIC, appLogger.With("Calendar"))
	pipeline, err := analysis.NewPipeline(cfg.MConfig, calendar, appLogger.With("Pipeline"))
	if err != nil {
		return nil, err
	}

	// 6. Session service
	svc := service.NewAnalyticsService(cfg.MConfig, registry, loaderCache, pipeline, m, appLogger.With("AnalyticsService"))

	appLogger.Info("Initialized with source %s", cfg.Source.Location)
	return &app{Config: cfg, Logger: appLogger, Metrics: m, Service: svc}, nil
}
