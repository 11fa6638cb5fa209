package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	// SQL drivers selectable through config.StoreConfig.SQLDriver.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	contactmetrics "contactbook/internal/contact/metrics"
	"contactbook/internal/contact/service"
	"contactbook/internal/contact/store"
	"contactbook/internal/platform/config"
	"contactbook/internal/platform/kafka"
	"contactbook/internal/platform/logger"
	"contactbook/internal/platform/metrics"
	"contactbook/internal/platform/redis"
	httptransport "contactbook/internal/transport/http"
	"contactbook/pkg/platform/audit"
	"contactbook/pkg/platform/audit/publisher"
	kafkaaudit "contactbook/pkg/platform/audit/store/kafka"
	logaudit "contactbook/pkg/platform/audit/store/log"
)

const auditBufferSize = 256

// app is the wired object graph shared by every subcommand.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	svc      *service.Service
	// health is nil unless the backend has a remote dependency to ping.
	health httptransport.HealthChecker

	closers []func() error
}

func newApp(ctx context.Context, cfg config.Config) (_ *app, err error) {
	a := &app{
		cfg:      cfg,
		logger:   logger.New(cfg.Log),
		registry: metrics.NewRegistry(),
	}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	gateway, err := a.openGateway(ctx)
	if err != nil {
		return nil, err
	}
	emitter, err := a.openAudit(ctx)
	if err != nil {
		return nil, err
	}

	a.svc, err = service.New(gateway,
		service.WithLogger(a.logger),
		service.WithMetrics(contactmetrics.New(a.registry)),
		service.WithAuditPublisher(emitter),
	)
	if err != nil {
		return nil, err
	}
	if err := a.svc.Load(ctx); err != nil {
		return nil, err
	}
	a.logger.InfoContext(ctx, "directory loaded",
		"backend", cfg.Store.Backend,
	)
	return a, nil
}

func (a *app) openGateway(ctx context.Context) (service.Gateway, error) {
	switch a.cfg.Store.Backend {
	case config.BackendFile:
		return store.NewFile(a.cfg.Store.Path), nil
	case config.BackendMemory:
		return store.NewInMemory(), nil
	case config.BackendSQL:
		db, err := sql.Open(a.cfg.Store.SQLDriver, a.cfg.Store.SQLDSN)
		if err != nil {
			return nil, fmt.Errorf("open %s database: %w", a.cfg.Store.SQLDriver, err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping %s database: %w", a.cfg.Store.SQLDriver, err)
		}
		a.health = dbHealth{db: db}
		gateway := store.NewSQL(db, a.cfg.Store.SQLDriver)
		if err := gateway.Migrate(ctx); err != nil {
			return nil, err
		}
		return gateway, nil
	case config.BackendRedis:
		client, err := redis.New(ctx, a.cfg.Redis)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, errors.New("redis backend requires a redis url")
		}
		a.closers = append(a.closers, client.Close)
		a.health = client
		return store.NewRedis(client, a.cfg.Redis.Key), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", a.cfg.Store.Backend)
	}
}

// openAudit publishes to Kafka when brokers are configured and to the log
// otherwise.
func (a *app) openAudit(ctx context.Context) (*publisher.Publisher, error) {
	var sink audit.Store = logaudit.New(a.logger)
	if len(a.cfg.Kafka.Brokers) > 0 {
		client, err := kafka.NewProducer(ctx, a.cfg.Kafka)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error {
			client.Close()
			return nil
		})
		sink = kafkaaudit.New(client, a.cfg.Kafka.Topic)
	}
	p := publisher.NewPublisher(sink,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithLogger(a.logger),
	)
	// Drain before the broker client closes.
	a.closers = append(a.closers, func() error {
		p.Close()
		return nil
	})
	return p, nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to release resource", "error", err)
		}
	}
	a.closers = nil
}

// save persists the directory with a context that outlives cancellation, so a
// signal during shutdown still writes the final state.
func (a *app) save(ctx context.Context) error {
	if err := a.svc.Save(context.WithoutCancel(ctx)); err != nil {
		a.logger.ErrorContext(ctx, "failed to save directory", "error", err)
		return err
	}
	return nil
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
