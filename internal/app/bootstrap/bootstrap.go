package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	projectadminservice "fundadmin/contexts/fund-administration/project-admin-service"
	eventsadapter "fundadmin/contexts/fund-administration/project-admin-service/adapters/events"
	fundadminmemory "fundadmin/contexts/fund-administration/project-admin-service/adapters/memory"
	postgresadapter "fundadmin/contexts/fund-administration/project-admin-service/adapters/postgres"
	workerapp "fundadmin/contexts/fund-administration/project-admin-service/application/workers"
	"fundadmin/contexts/fund-administration/project-admin-service/ports"
	rbacservice "fundadmin/contexts/identity-access/rbac-service"
	"fundadmin/internal/platform/config"
	"fundadmin/internal/platform/db"
	"fundadmin/internal/platform/httpserver"
	"fundadmin/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}
	rbac := rbacservice.NewInMemoryModule()

	if cfg.Storage == config.StorageMemory {
		module := projectadminservice.NewInMemoryModule(rbac.Authority, cfg.RootAccounts, kafka, logger)
		server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
		return &APIApp{
			server: server,
			logger: logger,
		}, nil
	}

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	// Durable mode: signals land in the outbox table inside the same
	// transaction scope and the worker relays them to the bus.
	repo := postgresadapter.NewRepository(pg.DB, ports.DefaultLimits(), logger)
	module := projectadminservice.NewModule(projectadminservice.Dependencies{
		Repository:  repo,
		Authority:   rbac.Authority,
		Root:        fundadminmemory.NewRootAuthority(cfg.RootAccounts),
		Clock:       postgresadapter.SystemClock{},
		IDGenerator: postgresadapter.IDGenerator{},
		Publisher:   repo,
		Logger:      logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if !cfg.EnableOutboxRelay {
		return nil, errors.New("ENABLE_OUTBOX_RELAY is disabled; nothing for the worker to run")
	}
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, ports.DefaultLimits(), logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox: repo,
			Publisher: eventsadapter.Publisher{
				Bus:    kafka,
				Topic:  cfg.SignalTopic,
				Logger: logger,
			},
			Clock:     postgresadapter.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
