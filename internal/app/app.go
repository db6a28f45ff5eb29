package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink-registry/internal/adapter/audit"
	"github.com/vadimbarashkov/shortlink-registry/internal/adapter/repository/file"
	"github.com/vadimbarashkov/shortlink-registry/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/shortlink-registry/internal/adapter/repository/registry"
	"github.com/vadimbarashkov/shortlink-registry/internal/config"
	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
	"github.com/vadimbarashkov/shortlink-registry/internal/shortcode"
	"github.com/vadimbarashkov/shortlink-registry/internal/usecase"
	"github.com/vadimbarashkov/shortlink-registry/internal/validation"
	"github.com/vadimbarashkov/shortlink-registry/pkg/clock"
	"github.com/vadimbarashkov/shortlink-registry/pkg/postgres"
	"github.com/vadimbarashkov/shortlink-registry/pkg/redis"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/shortlink-registry/internal/adapter/delivery/http"
	pgrepo "github.com/vadimbarashkov/shortlink-registry/internal/adapter/repository/postgres"
	redisrepo "github.com/vadimbarashkov/shortlink-registry/internal/adapter/repository/redis"
)

const serviceName = "shortlink-registry"

type auditSink interface {
	Emit(ctx context.Context, e entity.AuditEvent)
}

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := newLogger(cfg.Env)

	backend, closeBackend, err := newBackend(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("%s: failed to init storage: %w", op, err)
	}
	defer func() {
		if err := closeBackend(); err != nil {
			logger.Error("failed to close storage", slog.Any("err", err))
		}
	}()

	clk := clock.Real{}

	store, err := registry.New(ctx, backend, clk)
	if err != nil {
		return fmt.Errorf("%s: failed to load registry: %w", op, err)
	}

	logger.Info("registry loaded", slog.String("driver", cfg.Storage.Driver))

	g, ctx := errgroup.WithContext(ctx)

	var sink auditSink

	if cfg.Audit.Endpoint != "" {
		httpSink := audit.NewHTTPSink(cfg.Audit.Endpoint, cfg.Audit.Token, logger.Logger,
			audit.WithBufferSize(cfg.Audit.BufferSize),
			audit.WithTimeout(cfg.Audit.Timeout),
		)
		g.Go(func() error {
			return httpSink.Run(ctx)
		})
		sink = httpSink
	} else {
		sink = audit.NewLogSink(logger.Logger)
	}

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        newHandler(cfg.Registry, cfg.Audit.Stack, logger, store, sink, clk),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g.Go(func() error {
		var err error

		logger.Info("starting server", slog.String("addr", server.Addr), slog.String("env", cfg.Env))

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

// newHandler assembles the registry use case over store and exposes it through the HTTP router.
func newHandler(
	cfg config.Registry,
	stack string,
	logger *httplog.Logger,
	store *registry.Store,
	sink auditSink,
	clk clock.Clock,
) http.Handler {
	useCase := usecase.NewRegistryUseCase(
		store,
		shortcode.New(
			shortcode.WithLength(cfg.ShortCodeLength),
			shortcode.WithMaxAttempts(cfg.MaxGenerationAttempts),
		),
		validation.New(validator.New()),
		sink,
		clk,
		usecase.Options{
			DefaultValidity: cfg.DefaultValidity,
			MaxBatchSize:    cfg.MaxBatchSize,
			Stack:           stack,
		},
	)

	return delivery.NewRouter(logger, useCase)
}

func newLogger(env string) *httplog.Logger {
	opts := httplog.Options{
		LogLevel: slog.LevelDebug,
		Concise:  true,
	}

	if env == config.EnvProd {
		opts = httplog.Options{
			JSON:     true,
			LogLevel: slog.LevelInfo,
		}
	}

	return httplog.NewLogger(serviceName, opts)
}

// newBackend builds the persistence backend selected by cfg.Driver and a func releasing its resources.
func newBackend(ctx context.Context, cfg config.Storage) (registry.Backend, func() error, error) {
	const op = "app.newBackend"

	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), noop, nil

	case config.DriverFile:
		return file.New(cfg.File.Path), noop, nil

	case config.DriverPostgres:
		db, err := postgres.New(
			ctx,
			cfg.Postgres.DSN(),
			postgres.WithConnectTimeout(cfg.Postgres.ConnectTimeout),
			postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
			postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
			postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
			postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
		}

		if err := postgres.RunMigrations(pgrepo.Migrations, pgrepo.MigrationsPath, cfg.Postgres.DSN()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
		}

		return pgrepo.New(db), db.Close, nil

	case config.DriverRedis:
		client, err := redis.New(
			ctx,
			cfg.Redis.URL,
			redis.WithDialTimeout(cfg.Redis.DialTimeout),
			redis.WithReadTimeout(cfg.Redis.ReadTimeout),
			redis.WithWriteTimeout(cfg.Redis.WriteTimeout),
			redis.WithPoolSize(cfg.Redis.PoolSize),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: failed to connect to redis: %w", op, err)
		}

		return redisrepo.New(client, cfg.Redis.Key), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("%s: %q: %w", op, cfg.Driver, config.ErrUnknownDriver)
	}
}
