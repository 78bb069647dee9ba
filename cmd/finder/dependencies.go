package main

import (
	"log/slog"
	"os"

	"github.com/forkcast/forkcast/internal/domain/details"
	"github.com/forkcast/forkcast/internal/domain/location"
	"github.com/forkcast/forkcast/internal/domain/search"
	"github.com/forkcast/forkcast/internal/domain/suggest"
	"github.com/forkcast/forkcast/internal/provider/googleplaces"
	"github.com/forkcast/forkcast/internal/types"
	"github.com/forkcast/forkcast/pkg/config"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	Provider *googleplaces.Client

	SearchSvc   search.Service
	DetailsSvc  details.Service
	LocationSvc location.Service
}

// InitDependencies wires the provider client and the orchestrators.
func InitDependencies(cfg *config.Config, logger *slog.Logger) *Dependencies {
	client := googleplaces.NewClient(googleplaces.Config{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		Timeout: cfg.Provider.Timeout,
	}, logger)

	sensor := location.StaticSensor{Position: types.Coordinate{
		Lat: cfg.Location.FallbackLat,
		Lng: cfg.Location.FallbackLng,
	}}

	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Provider: client,
		SearchSvc: search.NewServiceImpl(client, logger, search.Options{
			Timeout:   cfg.Search.Timeout,
			PageDelay: cfg.Search.PageDelay,
			CacheTTL:  cfg.Search.CacheTTL,
		}),
		DetailsSvc: details.NewServiceImpl(client, logger),
		LocationSvc: location.NewServiceImpl(sensor, client, logger, location.Options{
			SensorTimeout: cfg.Location.SensorTimeout,
			MaxFixAge:     cfg.Location.MaxFixAge,
		}),
	}

	logger.Info("all dependencies initialized successfully")
	return deps
}

// NewSuggestService builds a suggestion orchestrator bound to the
// given sink. Built per run because the sink carries run state.
func (d *Dependencies) NewSuggestService(sink suggest.Sink) suggest.Service {
	return suggest.NewServiceImpl(d.Provider, sink, d.Logger, suggest.Options{
		Debounce: d.Config.Suggest.Debounce,
	})
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
