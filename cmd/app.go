package cmd

import (
	"fmt"

	"github.com/glundgren93/railboard/internal/api"
	"github.com/glundgren93/railboard/internal/config"
	"github.com/glundgren93/railboard/internal/logging"
	"github.com/glundgren93/railboard/internal/model"
	"go.uber.org/zap"
)

// app bundles what a command needs, built once from the configuration.
type app struct {
	cfg      config.Config
	log      *zap.SugaredLogger
	stations []model.Station
	resolver *api.Resolver
	fetcher  *api.Fetcher
}

// newApp loads the configuration and station table. The provider client is
// only wired when needProvider is set, so offline commands work without a key.
func newApp(needProvider bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if stationsFile != "" {
		cfg.StationsFile = stationsFile
	}

	log := logging.New(cfg.LogLevel)

	stations, err := cfg.Stations()
	if err != nil {
		return nil, fmt.Errorf("loading stations: %w", err)
	}
	log.Debugw("station table loaded", "stations", len(stations), "file", cfg.StationsFile)

	a := &app{cfg: cfg, log: log, stations: stations}
	if !needProvider {
		a.resolver = api.NewResolver(nil, stations, log)
		return a, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := api.NewClient(cfg)
	a.resolver = api.NewResolver(client, stations, log)
	a.fetcher = api.NewFetcher(client, cfg.Location(), log)
	return a, nil
}

func (a *app) close() {
	logging.Sync(a.log)
}
