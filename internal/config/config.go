package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"trivia-server"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Security Security
	Session  Session
	Trivia   Trivia
	Ranking  Ranking
	OAuth    OAuth
	SMTP     SMTP
	CORS     CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds session store configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for signing and auth.
type Security struct {
	JWTSecret string `env:"JWT_SECRET,notEmpty"`
}

// Session governs the browser trivia session cookie and its server-side state.
type Session struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"trivia_session"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"2h"`
}

// Trivia groups gameplay defaults per difficulty tier.
type Trivia struct {
	BeginnerTimeLimit time.Duration `env:"TRIVIA_BEGINNER_TIME_LIMIT" envDefault:"20s"`
	DefaultTimeLimit  time.Duration `env:"TRIVIA_DEFAULT_TIME_LIMIT" envDefault:"10s"`
}

// Ranking governs the per-difficulty top lists.
type Ranking struct {
	TopN     int           `env:"RANKING_TOP_N" envDefault:"10"`
	CacheTTL time.Duration `env:"RANKING_CACHE_TTL" envDefault:"1m"`
}

// OAuth holds OAuth provider configuration.
type OAuth struct {
	GoogleClientID     string `env:"GOOGLE_OAUTH_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_OAUTH_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_OAUTH_REDIRECT_URL"`
}

// SMTP holds email server configuration for claim notifications.
type SMTP struct {
	Host          string   `env:"SMTP_HOST"`
	Port          int      `env:"SMTP_PORT" envDefault:"587"`
	Username      string   `env:"SMTP_USERNAME"`
	Password      string   `env:"SMTP_PASSWORD"`
	FromEmail     string   `env:"SMTP_FROM_EMAIL"`
	ManagerEmails []string `env:"CLAIM_MANAGER_EMAILS" envSeparator:","`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
