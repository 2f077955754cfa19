package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chamalog/chamalog/internal/app"
	"github.com/chamalog/chamalog/internal/config"
	"github.com/chamalog/chamalog/internal/db"
	httpx "github.com/chamalog/chamalog/internal/http"
	"github.com/chamalog/chamalog/internal/observability"
	"github.com/chamalog/chamalog/internal/redisclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load the config set up
	cfg := config.MustLoad()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	if err := run(context.Background(), cfg, log, stop); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}

// run wires the API and serves until stop fires. Every failure is returned
// so deferred cleanup (pool, redis, tracer) always runs.
func run(ctx context.Context, cfg config.Config, log *slog.Logger, stop <-chan os.Signal) error {
	if cfg.IsProd() && cfg.JWTSecret == config.DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set in prod")
	}

	tracing := cfg.OTelEndpoint != ""
	if tracing {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: "chamalog-api",
			Endpoint:    cfg.OTelEndpoint,
			Env:         cfg.Env,
			SampleRatio: cfg.OTelSampleRatio,
		})
		if err != nil {
			return fmt.Errorf("tracer init: %w", err)
		}
		defer func() {
			c, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(c)
		}()
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, cfg.DBURL(), db.Up, os.Stdout); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	pool, err := db.NewPool(ctx, cfg.DBURL(),
		db.WithMaxConns(cfg.DB.MaxConns),
		db.WithMaxConnIdleTime(cfg.DB.MaxConnIdle),
	)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	defer pool.Close()

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := db.EnsureAdminUser(ctx, pool, db.AdminSeed{
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
			Name:     cfg.AdminName,
		})
		if err != nil {
			return fmt.Errorf("admin seed: %w", err)
		}
		if created {
			log.Info("admin user created", "email", cfg.AdminEmail)
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rc.Close()

		pingCtx, cancel := config.WithTimeout(2 * time.Second)
		err := rc.Ping(pingCtx)
		cancel()

		if err != nil {
			return fmt.Errorf("redis %s unreachable: %w", cfg.Redis.Addr, err)
		}

		rdb = rc.Raw()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	deps, err := app.NewDeps(app.Options{
		Config:  cfg,
		Log:     log,
		Pool:    pool,
		Redis:   rdb,
		Prom:    prom,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Tracing: tracing,
	})
	if err != nil {
		return fmt.Errorf("wiring: %w", err)
	}

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           httpx.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "redis", rdb != nil, "tracing", tracing)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}

	return nil
}
