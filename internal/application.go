package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/config"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/repository"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/service"
	"github.com/rocketscienceinc/tictactoe-scoreboard/transport/rest"
)

// RunApp - runs the result service until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resultRepo, closeStore := openStore(ctx, logger, conf)
	defer closeStore()

	resultService := service.NewResultService(resultRepo, conf.StoreTimeout)
	router := rest.NewRouter(logger, conf.AllowedOrigins, rest.NewResultHandler(logger, resultService))
	server := rest.New(logger, conf.HTTPPort, router)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")
	return nil
}

// openStore - picks the store by DATABASE_URL scheme. Any problem leaves the
// service running in degraded mode with a store that refuses every call.
func openStore(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.ResultRepository, func()) {
	log := logger.With("method", "openStore")

	degraded := func(reason string, args ...any) (repository.ResultRepository, func()) {
		log.Error("results will not be persisted: "+reason, args...)
		metrics.StoreAvailable.Set(0)
		return repository.NewUnavailableResultRepository(), func() {}
	}

	dsn := conf.DatabaseURL
	switch {
	case dsn == "":
		return degraded("DATABASE_URL is not set")
	case config.IsPlaceholder(dsn):
		return degraded("DATABASE_URL still holds a placeholder, replace it with a real connection string")
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return degraded("DATABASE_URL is not a valid URL", "error", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, conf.StoreTimeout)
	defer cancel()

	switch parsed.Scheme {
	case "postgres", "postgresql":
		pool, err := storage.NewPostgres(connectCtx, dsn)
		if err != nil {
			return degraded("could not connect to postgres", "error", err)
		}
		if err = storage.InitPostgres(connectCtx, pool); err != nil {
			pool.Close()
			return degraded("could not prepare postgres schema", "error", err)
		}

		log.Info("Using postgres result store", "host", parsed.Host)
		metrics.StoreAvailable.Set(1)
		return repository.NewPostgresResultRepository(pool), pool.Close

	case "redis", "rediss":
		client, err := storage.NewRedis(connectCtx, dsn)
		if err != nil {
			return degraded("could not connect to redis", "error", err)
		}

		log.Info("Using redis result store", "host", parsed.Host)
		metrics.StoreAvailable.Set(1)
		return repository.NewRedisResultRepository(client), func() {
			if err := client.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

	default:
		return degraded("unsupported DATABASE_URL scheme", "scheme", parsed.Scheme)
	}
}
