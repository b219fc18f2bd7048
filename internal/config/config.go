package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Supported LLM backends.
const (
	LLMProviderGateway   = "gateway"
	LLMProviderAnthropic = "anthropic"
)

// Supported reverse geocoding providers.
const (
	GeocoderNominatim = "nominatim"
	GeocoderMapbox    = "mapbox"
	GeocoderGoogle    = "google"
	GeocoderNone      = "none"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Country metadata lookup.
	CountryAPIURL  string
	CountryTimeout time.Duration

	// Reverse geocoding configuration.
	GeocoderProvider  string
	GeocoderToken     string
	GeocoderTimeout   time.Duration
	GeocoderCacheSize int

	// LLM backend for the weather and chat endpoints. An empty LLMAPIKey
	// leaves the service running; those endpoints then answer 500.
	LLMProvider     string
	LLMBaseURL      string
	LLMAPIKey       string
	LLMChatModel    string
	LLMWeatherModel string
	LLMTimeout      time.Duration

	// Analysis event stream. Disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string

	// Tracing configuration.
	TracingEnabled     bool
	TracingExporter    string
	OTLPEndpoint       string
	TracingSampleRatio float64
}

// KafkaEnabled reports whether analysis events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first when present;
// variables already set in the environment take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	countryTimeout, err := parseDuration("COUNTRY_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	geocoderTimeout, err := parseDuration("GEOCODER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	llmTimeout, err := parseDuration("LLM_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	sampleRatio, err := parseSampleRatio()
	if err != nil {
		return nil, err
	}

	llmProvider := strings.ToLower(sharedcfg.EnvOrDefault("LLM_PROVIDER", LLMProviderGateway))
	chatModel, weatherModel := "openai/gpt-5", "google/gemini-2.5-flash"
	llmBaseURL := "https://ai.gateway.lovable.dev/v1"
	if llmProvider == LLMProviderAnthropic {
		chatModel, weatherModel = "claude-sonnet-4-20250514", "claude-sonnet-4-20250514"
		// Empty means the SDK's default endpoint.
		llmBaseURL = ""
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); strings.TrimSpace(raw) != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CountryAPIURL:  strings.TrimRight(sharedcfg.EnvOrDefault("COUNTRY_API_URL", "https://restcountries.com/v3.1"), "/"),
		CountryTimeout: countryTimeout,

		GeocoderProvider:  strings.ToLower(sharedcfg.EnvOrDefault("GEOCODER_PROVIDER", GeocoderNominatim)),
		GeocoderToken:     os.Getenv("GEOCODER_TOKEN"),
		GeocoderTimeout:   geocoderTimeout,
		GeocoderCacheSize: parseCacheSize(),

		LLMProvider:     llmProvider,
		LLMBaseURL:      strings.TrimRight(sharedcfg.EnvOrDefault("LLM_BASE_URL", llmBaseURL), "/"),
		LLMAPIKey:       os.Getenv("LLM_API_KEY"),
		LLMChatModel:    sharedcfg.EnvOrDefault("LLM_CHAT_MODEL", chatModel),
		LLMWeatherModel: sharedcfg.EnvOrDefault("LLM_WEATHER_MODEL", weatherModel),
		LLMTimeout:      llmTimeout,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "launch-analyses"),

		TracingEnabled:     strings.EqualFold(os.Getenv("TRACING_ENABLED"), "true"),
		TracingExporter:    strings.ToLower(sharedcfg.EnvOrDefault("TRACING_EXPORTER", "stdout")),
		OTLPEndpoint:       os.Getenv("OTLP_ENDPOINT"),
		TracingSampleRatio: sampleRatio,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.CountryAPIURL == "" {
		return errors.New("COUNTRY_API_URL is required")
	}

	switch c.GeocoderProvider {
	case GeocoderNominatim, GeocoderNone:
	case GeocoderMapbox, GeocoderGoogle:
		if c.GeocoderToken == "" {
			return fmt.Errorf("GEOCODER_PROVIDER is %s but GEOCODER_TOKEN is not set", c.GeocoderProvider)
		}
	default:
		return fmt.Errorf("unsupported GEOCODER_PROVIDER %q", c.GeocoderProvider)
	}

	switch c.LLMProvider {
	case LLMProviderGateway:
		if c.LLMBaseURL == "" {
			return errors.New("LLM_BASE_URL is required for the gateway provider")
		}
	case LLMProviderAnthropic:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}

	if c.KafkaEnabled() && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	switch c.TracingExporter {
	case "stdout", "otlp":
	default:
		return fmt.Errorf("unsupported TRACING_EXPORTER %q", c.TracingExporter)
	}
	return nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseCacheSize() int {
	if s := os.Getenv("GEOCODER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func parseSampleRatio() (float64, error) {
	s := os.Getenv("TRACING_SAMPLE_RATIO")
	if s == "" {
		return 1.0, nil
	}
	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil || ratio < 0 || ratio > 1 {
		return 0, errors.New("invalid TRACING_SAMPLE_RATIO: must be between 0 and 1")
	}
	return ratio, nil
}
