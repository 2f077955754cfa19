package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// DefaultJWTSecret is only acceptable outside prod.
const DefaultJWTSecret = "change-me-in-production"

type Config struct {
	Env  string `env:"APP_ENV, default=dev"`
	Port int    `env:"PORT, default=5000"`

	// debug, info, warn or error; empty means debug in dev, info elsewhere
	LogLevel string `env:"LOG_LEVEL"`

	DB    DBConfig
	Redis RedisConfig

	JWTSecret string        `env:"JWT_SECRET, default=change-me-in-production"`
	JWTTTL    time.Duration `env:"JWT_TTL, default=8h"`

	CORSOrigins []string `env:"FRONTEND_URL, default=http://localhost:3000"`

	AutoMigrate bool `env:"AUTO_MIGRATE, default=false"`

	// Minimum role allowed to change order status, delete orders and confirm transport.
	OrderMutationRole string `env:"ORDER_MUTATION_MIN_ROLE, default=cliente"`

	TrackingBaseURL string `env:"TRACKING_BASE_URL, default=https://chamalog.com/rastrear"`
	ViaCEPBaseURL   string `env:"VIACEP_BASE_URL, default=https://viacep.com.br/ws"`

	// ulule/limiter formatted rate, e.g. "10-M" = 10 per minute.
	LoginRateLimit string `env:"LOGIN_RATE_LIMIT, default=10-M"`

	OTelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSampleRatio float64 `env:"OTEL_SAMPLE_RATIO, default=1"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminName     string `env:"ADMIN_NAME, default=Administrador"`
}

type DBConfig struct {
	URL     string `env:"DATABASE_URL"`
	Host    string `env:"DB_HOST, default=127.0.0.1"`
	Port    string `env:"DB_PORT, default=5432"`
	User    string `env:"DB_USER, default=chamalog"`
	Pass    string `env:"DB_PASSWORD, default=chamalog"`
	Name    string `env:"DB_NAME, default=chamalog"`
	SSLMode string `env:"DB_SSLMODE, default=disable"`

	MaxConns    int32         `env:"DB_MAX_CONNS, default=10"`
	MaxConnIdle time.Duration `env:"DB_MAX_CONN_IDLE, default=5m"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads an optional .env file and then decodes the environment.
func Load() (Config, error) {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	var cfg Config

	err := envconfig.Process(context.Background(), &cfg)

	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// MustLoad is Load for main packages.
func MustLoad() Config {
	cfg, err := Load()

	if err != nil {
		panic(err)
	}

	return cfg
}

func (c Config) DBURL() string {
	if c.DB.URL != "" {
		return c.DB.URL
	}

	d := c.DB

	return "postgres://" + d.User + ":" + d.Pass + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}
