package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	DatabaseURL string
	RedisURL    string

	OpenAIKey     string
	OpenRouterKey string
	GroqKey       string

	JWTSecret string
	JWTIssuer string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port              string
	WorkerConcurrency int

	// Zero means outbound provider calls only end with the request context.
	HTTPClientTimeout time.Duration

	Generation GenerationConfig
	RateLimit  RateLimitConfig
}

// ProviderConfig describes one OpenAI-compatible chat-completion endpoint.
type ProviderConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type GenerationConfig struct {
	Primary   ProviderConfig `yaml:"primary"`
	Secondary ProviderConfig `yaml:"secondary"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGroq       = "groq"
)

type providerPreset struct {
	model   string
	baseURL string
}

var providerPresets = map[string]providerPreset{
	ProviderOpenAI:     {model: "gpt-4o-mini", baseURL: "https://api.openai.com/v1"},
	ProviderOpenRouter: {model: "mistralai/mixtral-8x7b-instruct:free", baseURL: "https://openrouter.ai/api/v1"},
	ProviderGroq:       {model: "llama-3.3-70b-versatile", baseURL: "https://api.groq.com/openai/v1"},
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		OpenAIKey:                os.Getenv("OPENAI_API_KEY"),
		OpenRouterKey:            os.Getenv("OPENROUTER_API_KEY"),
		GroqKey:                  os.Getenv("GROQ_API_KEY"),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		JWTIssuer:                os.Getenv("JWT_ISSUER"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
	}

	if raw := os.Getenv("HTTP_CLIENT_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_CLIENT_TIMEOUT %q: %w", raw, err)
		}
		cfg.HTTPClientTimeout = d
	}

	if raw := os.Getenv("WORKER_CONCURRENCY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid WORKER_CONCURRENCY %q", raw)
		}
		cfg.WorkerConcurrency = n
	}

	// Load from YAML file if available
	if err := cfg.LoadFromYAML("config.yaml"); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "sous"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.WorkerConcurrency == 0 {
		cfg.WorkerConcurrency = 10
	}

	cfg.SetGenerationDefaults()
	cfg.SetRateLimitDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Generation GenerationConfig `yaml:"generation"`
		RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	mergeProvider(&c.Generation.Primary, yamlConfig.Generation.Primary)
	mergeProvider(&c.Generation.Secondary, yamlConfig.Generation.Secondary)

	if yamlConfig.RateLimit.RequestsPerMinute > 0 {
		c.RateLimit.RequestsPerMinute = yamlConfig.RateLimit.RequestsPerMinute
	}
	if yamlConfig.RateLimit.Burst > 0 {
		c.RateLimit.Burst = yamlConfig.RateLimit.Burst
	}

	return nil
}

func mergeProvider(dst *ProviderConfig, src ProviderConfig) {
	if src.Provider != "" {
		dst.Provider = strings.ToLower(src.Provider)
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.Temperature > 0 {
		dst.Temperature = src.Temperature
	}
	if src.MaxTokens > 0 {
		dst.MaxTokens = src.MaxTokens
	}
}

// SetGenerationDefaults fills the provider chain with the OpenAI primary and
// the OpenRouter secondary unless config.yaml chose otherwise.
func (c *Config) SetGenerationDefaults() {
	p := &c.Generation.Primary
	if p.Provider == "" {
		p.Provider = ProviderOpenAI
	}
	applyPreset(p)
	if p.MaxTokens == 0 {
		p.MaxTokens = 1200
	}

	s := &c.Generation.Secondary
	if s.Provider == "" {
		s.Provider = ProviderOpenRouter
	}
	applyPreset(s)
}

func applyPreset(p *ProviderConfig) {
	preset, ok := providerPresets[p.Provider]
	if ok {
		if p.Model == "" {
			p.Model = preset.model
		}
		if p.BaseURL == "" {
			p.BaseURL = preset.baseURL
		}
	}
	if p.Temperature == 0 {
		p.Temperature = 0.7
	}
}

func (c *Config) SetRateLimitDefaults() {
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 30
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 5
	}
}

// APIKey returns the credential configured for the named provider.
func (c *Config) APIKey(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return c.OpenAIKey
	case ProviderOpenRouter:
		return c.OpenRouterKey
	case ProviderGroq:
		return c.GroqKey
	default:
		return ""
	}
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if _, ok := providerPresets[c.Generation.Primary.Provider]; !ok {
		return fmt.Errorf("unknown primary provider %q", c.Generation.Primary.Provider)
	}
	if _, ok := providerPresets[c.Generation.Secondary.Provider]; !ok {
		return fmt.Errorf("unknown secondary provider %q", c.Generation.Secondary.Provider)
	}
	return nil
}

// ValidateWorker checks the settings the background worker needs on top of
// the server ones.
func (c *Config) ValidateWorker() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	return nil
}
