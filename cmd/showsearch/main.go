package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Belphemur/ShowSearch/internal/cache"
	"github.com/Belphemur/ShowSearch/internal/client"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/metrics"
	"github.com/Belphemur/ShowSearch/internal/web"
)

// cacheLogger forwards snapshot cache failures to zerolog.
type cacheLogger struct{}

func (cacheLogger) Error(msg string, err error) {
	logger := config.GetLogger()
	logger.Error().Err(err).Msg(msg)
}

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("catalog_base_url", cfg.CatalogBaseURL).
		Str("proxy_connection_string", cfg.ProxyConnectionString).
		Str("cache_type", cfg.Cache.Type).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Msg("Application started with configuration")

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			logger.Error().Err(err).Msg("Failed to initialize Sentry")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	sessionTTL, err := time.ParseDuration(cfg.Cache.TTL)
	if err != nil {
		logger.Warn().Str("ttl", cfg.Cache.TTL).Msg("Invalid cache TTL, using 1h")
		sessionTTL = time.Hour
	}

	snapshots, err := cache.New(cfg.Cache.Type, cache.Options{
		Size:          cfg.Cache.Size,
		TTL:           sessionTTL,
		Logger:        cacheLogger{},
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         "sessions",
	})
	if err != nil {
		logger.Fatal().Err(err).Str("type", cfg.Cache.Type).Msg("Failed to open session cache")
	}
	defer snapshots.Close()

	catalog := client.NewClient(cfg)
	defer catalog.Close()

	srv := web.NewServer(catalog, snapshots,
		web.WithDefaultImage(cfg.DefaultImageURL),
		web.WithLiveSessions(cfg.Cache.Size, sessionTTL),
	)

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	httpServer := web.NewHTTPServer(cfg.Server.Address, cfg.Server.Port, srv.Handler())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		}
	}()

	logger.Info().Str("address", httpServer.Addr).Msg("Starting HTTP server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Failed to serve HTTP")
	}
	<-stopped

	logger.Info().Msg("Server stopped gracefully")
}
