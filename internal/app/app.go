// Package app is the composition root shared by the API binary and the
// end-to-end tests.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/chamalog/chamalog/internal/auth"
	"github.com/chamalog/chamalog/internal/cache"
	"github.com/chamalog/chamalog/internal/config"
	"github.com/chamalog/chamalog/internal/domain/user"
	"github.com/chamalog/chamalog/internal/geo"
	apphttp "github.com/chamalog/chamalog/internal/http"
	"github.com/chamalog/chamalog/internal/http/handlers"
	"github.com/chamalog/chamalog/internal/http/middlewares"
	"github.com/chamalog/chamalog/internal/label"
	"github.com/chamalog/chamalog/internal/observability"
	"github.com/chamalog/chamalog/internal/repo/postgres"
	"github.com/chamalog/chamalog/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	tokenVersionTTL = time.Minute
	memoryCacheTTL  = 5 * time.Minute
)

// Options carries the process-level resources the router is built from.
// Redis is optional; without it caches and the limiter stay in memory.
type Options struct {
	Config  config.Config
	Log     *slog.Logger
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Prom    *observability.Prom
	Metrics http.Handler
	Tracing bool
}

func NewDeps(o Options) (apphttp.Deps, error) {
	cfg := o.Config

	log := o.Log
	if log == nil {
		log = slog.Default()
	}

	var c cache.Cache = cache.NewMemory(memoryCacheTTL)
	if o.Redis != nil {
		c = cache.NewRedis(o.Redis, "chamalog:")
	}

	usersRepo := postgres.NewUsersRepo(o.Pool, o.Prom)
	storesRepo := postgres.NewStoresRepo(o.Pool, o.Prom)
	ordersRepo := postgres.NewOrdersRepo(o.Pool, o.Prom)
	activitiesRepo := postgres.NewActivitiesRepo(o.Pool, o.Prom)

	jwt := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	versions := service.NewTokenVersions(usersRepo, c, tokenVersionTTL)

	activity := service.NewActivityService(activitiesRepo, log)
	tracker := label.NewTracker(cfg.TrackingBaseURL)

	orders := service.NewOrderService(service.OrderServiceDeps{
		Orders:   ordersRepo,
		Stores:   storesRepo,
		Activity: activity,
		Tracker:  tracker,
		Renderer: label.NewRenderer(tracker),
		Prom:     o.Prom,
	})

	users := service.NewUserService(usersRepo, versions, jwt, activity)
	stores := service.NewStoreService(storesRepo, activity)

	addresses := geo.NewClient(cfg.ViaCEPBaseURL, c, geo.NewBreaker(geo.BreakerConfig{}))

	limiter, err := middlewares.NewRateLimiter(cfg.LoginRateLimit, o.Redis)
	if err != nil {
		return apphttp.Deps{}, err
	}

	mutationRole, err := user.ParseRole(cfg.OrderMutationRole)
	if err != nil {
		log.Warn("invalid ORDER_MUTATION_MIN_ROLE, falling back to cliente", "value", cfg.OrderMutationRole)
		mutationRole = user.RoleCustomer
	}

	checks := map[string]handlers.Check{
		"postgres": func(ctx context.Context) error { return o.Pool.Ping(ctx) },
	}
	if o.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return o.Redis.Ping(ctx).Err() }
	}

	return apphttp.Deps{
		Env:               cfg.Env,
		CORSOrigins:       cfg.CORSOrigins,
		Prom:              o.Prom,
		Metrics:           o.Metrics,
		Tracing:           o.Tracing,
		Tokens:            jwt,
		Versions:          versions,
		AuthLimiter:       limiter,
		OrderMutationRole: mutationRole,
		Auth:              users,
		Users:             users,
		Stores:            stores,
		Orders:            orders,
		Activity:          activity,
		Addresses:         addresses,
		Checks:            checks,
	}, nil
}
