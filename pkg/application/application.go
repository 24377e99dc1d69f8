package application

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shadowbane/home-flood-report/pkg/config"
	"github.com/shadowbane/home-flood-report/pkg/events"
	"github.com/shadowbane/home-flood-report/pkg/geocoder"
	"github.com/shadowbane/home-flood-report/pkg/imagestore"
	"github.com/shadowbane/home-flood-report/pkg/jobs"
	"github.com/shadowbane/home-flood-report/pkg/logger"
	"github.com/shadowbane/home-flood-report/pkg/metrics"
	"github.com/shadowbane/home-flood-report/pkg/render"
	"github.com/shadowbane/home-flood-report/pkg/report"
	"github.com/shadowbane/home-flood-report/pkg/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Application struct {
	Cfg *config.Config

	// DB is nil when reports are kept in the CSV file.
	DB *gorm.DB

	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Store     store.Store
	Images    *imagestore.ImageStore
	Geocoder  geocoder.Geocoder
	Publisher events.Publisher
	Reports   *report.Service
	Renderer  *render.Renderer

	StatsRefresher *jobs.StatsRefresher

	flushLogs func()
}

// Start loads the configuration from the environment, installs the global
// logger and wires every component.
func Start() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flush, err := logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	zap.S().Info("Starting Home Flood Report")

	app, err := New(cfg)
	if err != nil {
		flush()
		return nil, err
	}
	app.flushLogs = flush

	return app, nil
}

// New wires the application from an already loaded configuration.
func New(cfg *config.Config) (*Application, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	recordStore, db, err := store.New(cfg)
	if err != nil {
		return nil, err
	}

	renderer, err := render.NewRenderer(cfg.MapboxToken)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	images := imagestore.New(cfg.ImageDir)
	geo := geocoder.New(cfg, m)
	publisher := events.New(cfg)

	service := report.NewService(report.Options{
		Store:      recordStore,
		Images:     images,
		Geocoder:   geo,
		Publisher:  publisher,
		Metrics:    m,
		AppendOnly: cfg.StoreWriteMode == config.WriteModeAppend,
	})

	return &Application{
		Cfg:            cfg,
		DB:             db,
		Registry:       registry,
		Metrics:        m,
		Store:          recordStore,
		Images:         images,
		Geocoder:       geo,
		Publisher:      publisher,
		Reports:        service,
		Renderer:       renderer,
		StatsRefresher: jobs.NewStatsRefresher(recordStore, m),
	}, nil
}

// StartBackgroundJobs starts all background jobs
func (app *Application) StartBackgroundJobs() {
	app.StatsRefresher.StartPeriodicRefresh(app.Cfg.GetStatsRefreshInterval())
}

// StopBackgroundJobs stops all background jobs
func (app *Application) StopBackgroundJobs() {
	app.StatsRefresher.Stop()
}

// Close releases the event writer and the database connection, then flushes
// the logger.
func (app *Application) Close() {
	if err := app.Publisher.Close(); err != nil {
		zap.S().Errorf("Error closing event publisher: %v", err)
	}

	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				zap.S().Errorf("Error closing database: %v", err)
			}
		}
	}

	if app.flushLogs != nil {
		app.flushLogs()
	}
}
