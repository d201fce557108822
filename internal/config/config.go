package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"stone-catalog-service/internal/apperr"
)

// Config holds the application's configuration values.
// Tags like `envconfig:"APP_ENV"` specify the environment variable name.
// `required:"true"` makes an environment variable mandatory.
type Config struct {
	AppEnv        string   `envconfig:"APP_ENV" default:"development"` // development, staging, production
	LogLevel      string   `envconfig:"LOG_LEVEL" default:"info"`      // debug, info, warn, error
	LogEncoding   string   `envconfig:"LOG_ENCODING"`                  // json or console; empty picks by AppEnv
	DatabaseURL   string   `envconfig:"DATABASE_URL" required:"true"`
	PublicSiteURL string   `envconfig:"PUBLIC_SITE_URL" default:"http://localhost:3000"`
	AllowedOrigin []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	HttpServer    ServerConfig
	GrpcServer    GrpcServerConfig
	Postgres      PostgresConfig
	Auth          AuthConfig
	Cloudinary    CloudinaryConfig
}

// ServerConfig holds HTTP server-specific configurations.
type ServerConfig struct {
	Port           string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	TimeoutRead    time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite   time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"30s"`
	TimeoutIdle    time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
	RequestTimeout time.Duration `envconfig:"HTTP_REQUEST_TIMEOUT" default:"15s"`
}

// GrpcServerConfig holds gRPC server-specific configurations.
type GrpcServerConfig struct {
	Port string `envconfig:"GRPC_SERVER_PORT" default:"9090"`
}

// PostgresConfig tunes the connection pool. The DSN itself is DATABASE_URL.
type PostgresConfig struct {
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

type AuthConfig struct {
	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL      time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
	ResetTokenTTL time.Duration `envconfig:"AUTH_RESET_TOKEN_TTL" default:"1h"`
	// Bootstrap admin, created at startup when both are set and the email is unknown.
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

// CloudinaryConfig configures the upload gateway. An empty URL disables uploads.
type CloudinaryConfig struct {
	URL    string `envconfig:"CLOUDINARY_URL"`
	Folder string `envconfig:"CLOUDINARY_FOLDER" default:"stone-catalog"`
}

// Load reads the configuration from environment variables.
// A missing required value is a KindConfig error.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, err, "config: failed to process configuration")
	}
	// envconfig accepts a required variable that is set but empty.
	if cfg.DatabaseURL == "" {
		return nil, apperr.New(apperr.KindConfig, "config: DATABASE_URL is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, apperr.New(apperr.KindConfig, "config: JWT_SECRET is required")
	}
	if cfg.LogEncoding == "" {
		cfg.LogEncoding = "json"
		if cfg.IsDevelopment() {
			cfg.LogEncoding = "console"
		}
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
