package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDev = "dev"

	minSessionSecret = 32
	devSessionSecret = "dev-session-secret-change-me-please-0000"
)

var ErrWeakSessionSecret = errors.New("SESSION_SECRET is required and must be at least 32 chars")

type Config struct {
	AppEnv   string
	LogLevel string
	Port     string

	DatabaseURL string

	SessionSecret string
	SessionTTL    time.Duration

	CurrencySymbol string

	MetricsEnabled bool
	MetricsToken   string

	CheckoutLimitPerMin int
	TrustProxy          bool
}

// Load reads configuration from the environment, after merging an optional
// .env file from the working directory.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		AppEnv:              getenv("APP_ENV", EnvDev),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		Port:                getenv("PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		SessionTTL:          getenvDuration("SESSION_TTL", 30*24*time.Hour),
		CurrencySymbol:      getenv("CURRENCY_SYMBOL", "$"),
		MetricsEnabled:      getenvBool("METRICS_ENABLED", true),
		MetricsToken:        os.Getenv("METRICS_TOKEN"),
		CheckoutLimitPerMin: getenvInt("CHECKOUT_LIMIT_PER_MIN", 10),
		TrustProxy:          getenvBool("TRUST_PROXY", false),
	}

	if len(cfg.SessionSecret) < minSessionSecret {
		if cfg.AppEnv != EnvDev {
			return Config{}, ErrWeakSessionSecret
		}
		cfg.SessionSecret = devSessionSecret
	}

	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func getenvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func getenvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
