package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported STORE_BACKEND values
const (
	StoreFile     = "file"
	StoreRedis    = "redis"
	StoreGORM     = "gorm"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// This function will Load the ENVIRONMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(); err != nil {
			// a checkout without .env still runs on defaults
			if os.IsNotExist(err) {
				log.Println("No .env file found, using process environment")
				return nil
			}
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV string `env:"GO_ENV"`
	PORT   int    `env:"PORT" envDefault:"8080"`

	// Remote quality backend
	BACKEND_API_URL string        `env:"BACKEND_API_URL" envDefault:"http://localhost:5000/api"`
	BACKEND_TIMEOUT time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`

	// Key/value store for locally persisted collections
	STORE_BACKEND string `env:"STORE_BACKEND" envDefault:"file"`
	STORE_DIR     string `env:"STORE_DIR" envDefault:"data"`
	SQLITE_PATH   string `env:"SQLITE_PATH" envDefault:"data/portal.db"`

	// Database Configuration (gorm / postgres backends)
	DB_USER_NAME string `env:"DB_USER_NAME"`
	DB_PASSWORD  string `env:"DB_PASSWORD"`
	DB_NAME      string `env:"DB_NAME"`
	DB_HOST      string `env:"DB_HOST" envDefault:"localhost"`
	DB_PORT      string `env:"DB_PORT" envDefault:"5432"`
	DB_SSL_MODE  string `env:"DB_SSL_MODE" envDefault:"disable"`

	// JWT Configuration (shared with the backend when set)
	JWT_SECRET string `env:"JWT_SECRET"`
	JWT_ISSUER string `env:"JWT_ISSUER"`

	// Redis Configuration
	REDIS_URL string `env:"REDIS_URL"`

	// Security
	ALLOWED_ORIGINS     string        `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:8080"`
	RATE_LIMIT_REQUESTS int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RATE_LIMIT_WINDOW   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	LOGIN_MAX_ATTEMPTS  int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LOGIN_LOCKOUT       time.Duration `env:"LOGIN_LOCKOUT" envDefault:"300s"`
	SESSION_EXPIRY      time.Duration `env:"SESSION_EXPIRY" envDefault:"24h"`

	// Dashboard
	DASHBOARD_CACHE_TTL time.Duration `env:"DASHBOARD_CACHE_TTL" envDefault:"5m"`

	// Scheduled jobs
	CRON_ENABLED        bool   `env:"CRON_ENABLED" envDefault:"true"`
	LOOKUP_REFRESH_SPEC string `env:"LOOKUP_REFRESH_SPEC" envDefault:"0 */10 * * * *"`
	SNAPSHOT_SPEC       string `env:"SNAPSHOT_SPEC" envDefault:"0 0 2 * * *"`

	LOG_FILE string `env:"LOG_FILE"`

	// SMTP relay for the contact form (messages are only logged when unset)
	SMTP_HOST     string `env:"SMTP_HOST"`
	SMTP_PORT     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTP_USERNAME string `env:"SMTP_USERNAME"`
	SMTP_PASSWORD string `env:"SMTP_PASSWORD"`
	SMTP_FROM     string `env:"SMTP_FROM"`
	CONTACT_EMAIL string `env:"CONTACT_EMAIL" envDefault:"info@qa-union.edu.eg"`

	// DigitalOcean Spaces for logo uploads (falls back to backend upload when bucket is empty)
	DO_SPACES_ACCESS_KEY   string `env:"DO_SPACES_ACCESS_KEY"`
	DO_SPACES_SECRET_KEY   string `env:"DO_SPACES_SECRET_KEY"`
	DO_SPACES_BUCKET       string `env:"DO_SPACES_BUCKET"`
	DO_SPACES_REGION       string `env:"DO_SPACES_REGION"`
	DO_SPACES_ENDPOINT     string `env:"DO_SPACES_ENDPOINT"`
	DO_SPACES_CDN_ENDPOINT string `env:"DO_SPACES_CDN_ENDPOINT"`
}

func Get() (*EnvironmentVariable, error) {
	var envVariables EnvironmentVariable
	if err := env.Parse(&envVariables); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envVariables.STORE_BACKEND = strings.ToLower(strings.TrimSpace(envVariables.STORE_BACKEND))
	switch envVariables.STORE_BACKEND {
	case StoreFile, StoreRedis, StoreGORM, StorePostgres, StoreSQLite:
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", envVariables.STORE_BACKEND)
	}

	if envVariables.STORE_BACKEND == StoreRedis && envVariables.REDIS_URL == "" {
		return nil, fmt.Errorf("STORE_BACKEND=redis requires REDIS_URL")
	}

	if envVariables.DO_SPACES_BUCKET != "" && envVariables.DO_SPACES_ENDPOINT == "" && envVariables.DO_SPACES_REGION != "" {
		envVariables.DO_SPACES_ENDPOINT = fmt.Sprintf("%s.digitaloceanspaces.com", envVariables.DO_SPACES_REGION)
	}

	return &envVariables, nil
}

// PostgresDSN builds the keyword/value DSN used by both the gorm and lib/pq backends
func (e *EnvironmentVariable) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		e.DB_HOST,
		e.DB_USER_NAME,
		e.DB_PASSWORD,
		e.DB_NAME,
		e.DB_PORT,
		e.DB_SSL_MODE,
	)
}

// SpacesEnabled reports whether logo uploads should go to object storage
func (e *EnvironmentVariable) SpacesEnabled() bool {
	return e.DO_SPACES_BUCKET != "" && e.DO_SPACES_ACCESS_KEY != "" && e.DO_SPACES_SECRET_KEY != ""
}
