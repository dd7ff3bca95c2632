package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton so infrastructure packages can read config without plumbing.
var globalConfig *Config

// Config holds all environment backed configuration for cg-server.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9091"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Session tokens
	JWTSecret       string        `env:"JWT_SECRET,notEmpty"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	// API keys
	TestAPIKey    string `env:"TEST_KEY"`
	KeyHashRounds int    `env:"KEY_HASH_ROUNDS" envDefault:"12"`

	// Stripe
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripePriceID       string `env:"STRIPE_PRICE_ID"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	CheckoutSiteURL     string `env:"CHECKOUT_SITE_URL" envDefault:"http://localhost:8080"`

	// Generation providers (process-wide fallback keys)
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	GeminiBaseURL   string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"120s"`

	// Tenant credential cache
	TenantKeyTTL           time.Duration `env:"TENANT_KEY_TTL" envDefault:"24h"`
	TenantKeySweepInterval int           `env:"TENANT_KEY_SWEEP_MINUTES" envDefault:"60"`

	// Observability / Logging
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string        `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"cg-server"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"contentgen"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}

	if cfg.KeyHashRounds < 10 || cfg.KeyHashRounds > 16 {
		return nil, fmt.Errorf("KEY_HASH_ROUNDS out of range: %d", cfg.KeyHashRounds)
	}

	globalConfig = cfg
	return cfg, nil
}

// GetGlobal returns the last loaded configuration, or nil before Load.
func GetGlobal() *Config {
	return globalConfig
}
