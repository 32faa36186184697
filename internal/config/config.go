package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultPayPalBaseURL  = "https://api-m.sandbox.paypal.com"
	// public sandbox app id; the secret never has a default
	defaultPayPalClientID = "AXAzi9txkuDcg3jPwu8ooaMCG0PWjAy01RAq9_BPznGD4hIdLTqbUJC1djj95cb8m8OVFmTymJaIqc73"
)

type Config struct {
	Port             string
	Environment      string
	LogLevel         string
	StaticDir        string
	CatalogFile      string
	CORSOrigins      []string
	ProcessorTimeout time.Duration
	ShutdownTimeout  time.Duration
	// TraceExporter is "none" or "stdout"; traces propagate either way
	TraceExporter    string
	PayPal           PayPalConfig
	Stripe           StripeConfig
}

type PayPalConfig struct {
	ClientID string
	Secret   string
	BaseURL  string
}

// Configured reports whether both halves of the client credential are set.
func (c PayPalConfig) Configured() bool {
	return c.ClientID != "" && c.Secret != ""
}

type StripeConfig struct {
	SecretKey string
	// APIURL overrides the SDK's default endpoint; empty keeps the default.
	APIURL string
}

func (c StripeConfig) Configured() bool {
	return c.SecretKey != ""
}

// Load reads configuration from the environment and an optional .env file.
// Missing processor secrets are not an error here; the relay reports them
// per request.
func Load() (*Config, error) {
	return load(".", "..", "../..")
}

func load(searchPaths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigName(".env")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetDefault("PORT", "3000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STATIC_DIR", "public")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("PAYPAL_CLIENT_ID", defaultPayPalClientID)
	v.SetDefault("PAYPAL_BASE_URL", defaultPayPalBaseURL)
	v.SetDefault("PROCESSOR_TIMEOUT", "30s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("TRACE_EXPORTER", "none")

	v.AutomaticEnv()

	// .env is optional, environment variables alone are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	processorTimeout, err := parseDuration(v, "PROCESSOR_TIMEOUT")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration(v, "SHUTDOWN_TIMEOUT")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:             v.GetString("PORT"),
		Environment:      v.GetString("ENVIRONMENT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		StaticDir:        v.GetString("STATIC_DIR"),
		CatalogFile:      v.GetString("CATALOG_FILE"),
		CORSOrigins:      splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		ProcessorTimeout: processorTimeout,
		ShutdownTimeout:  shutdownTimeout,
		TraceExporter:    strings.ToLower(strings.TrimSpace(v.GetString("TRACE_EXPORTER"))),
		PayPal: PayPalConfig{
			ClientID: v.GetString("PAYPAL_CLIENT_ID"),
			Secret:   v.GetString("PAYPAL_SECRET"),
			BaseURL:  strings.TrimSuffix(v.GetString("PAYPAL_BASE_URL"), "/"),
		},
		Stripe: StripeConfig{
			SecretKey: v.GetString("STRIPE_SECRET_KEY"),
			APIURL:    strings.TrimSuffix(v.GetString("STRIPE_API_URL"), "/"),
		},
	}

	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT must not be empty")
	}
	switch cfg.TraceExporter {
	case "none", "stdout":
	default:
		return nil, fmt.Errorf("TRACE_EXPORTER must be none or stdout, got %q", cfg.TraceExporter)
	}
	if cfg.PayPal.BaseURL == "" {
		cfg.PayPal.BaseURL = defaultPayPalBaseURL
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
