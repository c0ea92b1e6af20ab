package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort              = "8080"
	defaultDatabaseURL       = "roofestimator.db"
	defaultBackendURL        = "http://localhost:8000/"
	defaultBackendTimeout    = "10s"
	defaultUserCacheTTL      = "5m"
	defaultSessionCookie     = "__session"
	defaultSignInPath        = "/sign-in"
	defaultSearchDebounce    = "500ms"
	defaultDraftTTL          = "720h"
	defaultSetupIntentAmount = "999"
	defaultRateLimitRPS      = "10"
	defaultRateLimitBurst    = "20"
	defaultIdentitySecret    = "change-me-identity-secret"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	BackendURL     string
	BackendTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	UserCacheTTL  time.Duration

	IdentityJWKSURL   string
	IdentityIssuer    string
	IdentityJWTSecret string
	SessionCookie     string
	SignInPath        string

	StripeSecretKey      string
	StripePublishableKey string
	SetupIntentAmount    int64

	SearchDebounce time.Duration
	DraftTTL       time.Duration

	InternalTokenHash  string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("level=info msg=.env file not found, using process environment")
	}

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.BackendURL = strings.TrimSpace(getEnv("BACKEND_API_URL", defaultBackendURL))
	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.IdentityJWKSURL = strings.TrimSpace(os.Getenv("IDENTITY_JWKS_URL"))
	cfg.IdentityIssuer = strings.TrimSpace(os.Getenv("IDENTITY_ISSUER"))
	cfg.IdentityJWTSecret = strings.TrimSpace(getEnv("IDENTITY_JWT_SECRET", defaultIdentitySecret))
	cfg.SessionCookie = strings.TrimSpace(getEnv("SESSION_COOKIE", defaultSessionCookie))
	cfg.SignInPath = strings.TrimSpace(getEnv("SIGN_IN_PATH", defaultSignInPath))
	cfg.StripeSecretKey = strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY"))
	cfg.StripePublishableKey = strings.TrimSpace(os.Getenv("STRIPE_PUBLISH_KEY"))
	cfg.InternalTokenHash = strings.TrimSpace(os.Getenv("INTERNAL_TOKEN_HASH"))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", "0"); err != nil {
		return nil, err
	}
	if cfg.BackendTimeout, err = parseDurationEnv("BACKEND_TIMEOUT", defaultBackendTimeout); err != nil {
		return nil, err
	}
	if cfg.UserCacheTTL, err = parseDurationEnv("USER_CACHE_TTL", defaultUserCacheTTL); err != nil {
		return nil, err
	}
	if cfg.SearchDebounce, err = parseDurationEnv("SEARCH_DEBOUNCE", defaultSearchDebounce); err != nil {
		return nil, err
	}
	if cfg.DraftTTL, err = parseDurationEnv("DRAFT_TTL", defaultDraftTTL); err != nil {
		return nil, err
	}
	amount, err := parseIntEnv("SETUP_INTENT_AMOUNT", defaultSetupIntentAmount)
	if err != nil {
		return nil, err
	}
	cfg.SetupIntentAmount = int64(amount)
	if cfg.RateLimitBurst, err = parseIntEnv("RATE_LIMIT_BURST", defaultRateLimitBurst); err != nil {
		return nil, err
	}
	rps := strings.TrimSpace(getEnv("RATE_LIMIT_RPS", defaultRateLimitRPS))
	if cfg.RateLimitRPS, err = strconv.ParseFloat(rps, 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS value %q: %w", rps, err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("level=info msg=config loaded env=%s backend=%s jwks=%t redis=%t", cfg.AppEnv, cfg.BackendURL, cfg.IdentityJWKSURL != "", cfg.RedisAddr != "")
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.BackendURL == "" {
		return fmt.Errorf("BACKEND_API_URL must not be empty")
	}
	if !strings.HasSuffix(cfg.BackendURL, "/") {
		cfg.BackendURL += "/"
	}
	if cfg.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be > 0")
	}
	if cfg.SearchDebounce < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE must be >= 0")
	}
	if cfg.DraftTTL <= 0 {
		return fmt.Errorf("DRAFT_TTL must be > 0")
	}
	if cfg.SetupIntentAmount <= 0 {
		return fmt.Errorf("SETUP_INTENT_AMOUNT must be > 0")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be > 0")
	}
	if cfg.SessionCookie == "" {
		return fmt.Errorf("SESSION_COOKIE must not be empty")
	}

	if IsProdLike(cfg.AppEnv) {
		if cfg.IdentityJWKSURL == "" && isEmptyOrDefault(cfg.IdentityJWTSecret, defaultIdentitySecret) {
			return fmt.Errorf("in prod/release IDENTITY_JWKS_URL or a non-default IDENTITY_JWT_SECRET must be set")
		}
		if cfg.StripeSecretKey == "" {
			return fmt.Errorf("in prod/release STRIPE_SECRET_KEY must be set")
		}
	}

	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
