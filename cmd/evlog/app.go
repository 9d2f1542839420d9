package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alfredjeanlab/eventlog/internal/archive"
	"github.com/alfredjeanlab/eventlog/internal/config"
	"github.com/alfredjeanlab/eventlog/internal/events"
	"github.com/alfredjeanlab/eventlog/internal/hooks"
	"github.com/alfredjeanlab/eventlog/internal/observability"
	"github.com/alfredjeanlab/eventlog/internal/recorder"
	"github.com/alfredjeanlab/eventlog/internal/registry"
	"github.com/alfredjeanlab/eventlog/internal/store/sqlstore"
)

// app holds the components shared by every command that touches the log.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *sqlstore.SQLStore
	registry  *registry.Registry
	publisher events.Publisher
	recorder  *recorder.Recorder
}

// openApp loads configuration, connects to the database and message bus,
// loads the type registry and builds the recorder.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	reg, err := registry.Load(registry.ModulesFromPaths(cfg.ModulePaths), cfg.AppConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("load event types: %w", err)
	}

	st, err := sqlstore.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var pub events.Publisher = events.NoopPublisher{}
	if cfg.NATSURL != "" {
		p, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			st.Close()
			return nil, err
		}
		pub = p
	}

	metrics := observability.NewMetricsRecorder()
	disp := hooks.NewDispatcher(logger)
	hooks.RegisterBuiltins(disp, pub, logger)
	disp.SetObserver(metrics)
	checkHooks(reg, disp, logger)

	rec := recorder.New(st, reg, disp,
		recorder.WithPublisher(pub),
		recorder.WithProduction(cfg.Production()),
		recorder.WithLogger(logger),
		recorder.WithMetrics(metrics),
	)
	if err := rec.SyncTypes(ctx); err != nil {
		pub.Close()
		st.Close()
		return nil, err
	}
	recorder.SetDefault(rec)

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		registry:  reg,
		publisher: pub,
		recorder:  rec,
	}, nil
}

// Close releases the bus connection and the database.
func (a *app) Close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Error("error closing publisher", "err", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing store", "err", err)
	}
}

// checkHooks warns about hooks that will never run: those naming a handler
// nobody registered and those whose condition does not compile.
func checkHooks(reg *registry.Registry, disp *hooks.Dispatcher, logger *slog.Logger) {
	known := make(map[string]bool)
	for _, name := range disp.Names() {
		known[name] = true
	}
	for _, t := range reg.All() {
		for i, h := range t.Hooks {
			if !known[h.Handler] {
				logger.Warn("hook handler is not registered and will be skipped",
					"type", t.Slug, "hook", i, "handler", h.Handler)
			}
			if h.When == "" {
				continue
			}
			if err := hooks.CompileCondition(h.When); err != nil {
				logger.Warn("hook condition does not compile and will be skipped",
					"type", t.Slug, "hook", i, "handler", h.Handler, "err", err)
			}
		}
	}
}

// archiveDestinations builds the destinations enabled in cfg.
func archiveDestinations(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]archive.Destination, error) {
	var dests []archive.Destination
	if cfg.ArchiveS3Bucket != "" {
		d, err := archive.NewS3Destination(ctx, cfg.ArchiveS3Bucket, cfg.ArchiveS3Prefix, cfg.ArchiveS3Region, cfg.ArchiveS3Endpoint)
		if err != nil {
			return nil, err
		}
		dests = append(dests, d)
		logger.Info("archive S3 destination enabled", "bucket", cfg.ArchiveS3Bucket, "prefix", cfg.ArchiveS3Prefix)
	}
	if cfg.ArchiveGitRepo != "" {
		dests = append(dests, archive.NewGitDestination(cfg.ArchiveGitRepo, cfg.ArchiveGitFile, cfg.ArchiveGitBranch))
		logger.Info("archive git destination enabled", "repo", cfg.ArchiveGitRepo, "file", cfg.ArchiveGitFile)
	}
	return dests, nil
}
