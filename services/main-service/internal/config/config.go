package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   int

	DBDSN string

	// When auth is off the acting user is the {userId} path parameter.
	AuthEnabled bool
	JWTSecret   string
	JWTIssuer   string

	RedisAddr     string
	RedisPass     string
	RedisDB       int
	CacheEventTTL time.Duration

	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	OutboxEnabled  bool
	RabbitURL      string
	RabbitExchange string

	StatsURL     string
	StatsTimeout time.Duration
	// AppName is the "app" reported with every hit.
	AppName string

	LogLevel  string
	LogFormat string
}

// Load reads the environment (and .env when present). Every malformed or
// missing setting is reported at once.
func Load() (*Config, error) {
	_ = godotenv.Load()

	e := &env{}
	cfg := &Config{
		AppEnv: e.str("APP_ENV", "dev"),
		Port:   e.integer("PORT", 8080),
		DBDSN:  e.str("DATABASE_URL", ""),

		AuthEnabled: e.boolean("AUTH_ENABLED", true),
		JWTSecret:   e.str("JWT_SECRET", ""),
		JWTIssuer:   e.str("JWT_ISSUER", ""),

		RedisAddr:     e.str("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:     e.str("REDIS_PASSWORD", ""),
		RedisDB:       e.integer("REDIS_DB", 0),
		CacheEventTTL: e.duration("CACHE_EVENT_TTL", 30*time.Second),

		RLEnabled: e.boolean("RL_ENABLED", true),
		RLLimit:   e.integer("RL_REQUESTS_LIMIT", 100),
		RLWindow:  time.Duration(e.integer("RL_WINDOW_SECONDS", 60)) * time.Second,

		OutboxEnabled:  e.boolean("OUTBOX_ENABLED", false),
		RabbitURL:      e.str("RABBITMQ_URL", ""),
		RabbitExchange: e.str("RABBITMQ_EXCHANGE", "ewm.events"),

		StatsURL:     strings.TrimRight(e.str("STATS_SERVICE_URL", "http://localhost:9090"), "/"),
		StatsTimeout: e.duration("STATS_TIMEOUT", 2*time.Second),
		AppName:      e.str("APP_NAME", "ewm-main-service"),

		LogLevel:  e.str("LOG_LEVEL", "info"),
		LogFormat: e.str("LOG_FORMAT", "json"),
	}

	if cfg.DBDSN == "" {
		e.fail("missing DATABASE_URL")
	}
	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		e.fail("missing JWT_SECRET (required when AUTH_ENABLED=true)")
	}
	if cfg.OutboxEnabled && cfg.RabbitURL == "" {
		e.fail("missing RABBITMQ_URL (required when OUTBOX_ENABLED=true)")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		e.fail("PORT must be within 1..65535, got %d", cfg.Port)
	}
	if cfg.RLEnabled && (cfg.RLLimit <= 0 || cfg.RLWindow <= 0) {
		e.fail("RL_REQUESTS_LIMIT and RL_WINDOW_SECONDS must be positive when RL_ENABLED=true")
	}
	if cfg.StatsTimeout <= 0 {
		e.fail("STATS_TIMEOUT must be positive")
	}
	if u, err := url.ParseRequestURI(cfg.StatsURL); err != nil || u.Host == "" {
		e.fail("invalid STATS_SERVICE_URL %q", cfg.StatsURL)
	}

	if err := errors.Join(e.errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// env collects parse errors instead of stopping at the first one.
type env struct {
	errs []error
}

func (e *env) fail(format string, args ...any) {
	e.errs = append(e.errs, fmt.Errorf(format, args...))
}

func (e *env) str(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func (e *env) integer(k string, def int) int {
	v := e.str(k, "")
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.fail("invalid integer %s=%q", k, v)
		return def
	}
	return i
}

func (e *env) boolean(k string, def bool) bool {
	v := e.str(k, "")
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	}
	e.fail("invalid boolean %s=%q", k, v)
	return def
}

func (e *env) duration(k string, def time.Duration) time.Duration {
	v := e.str(k, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail("invalid duration %s=%q", k, v)
		return def
	}
	return d
}
