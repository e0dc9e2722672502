package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults used when the corresponding environment variable is unset.
const (
	DefaultLookbackHours  = 168 // 7 days
	DefaultDatadogSite    = "datadoghq.com"
	DefaultModelTimeout   = 60 * time.Second
	DefaultMetricsTimeout = 10 * time.Second
)

// Config carries every external credential and tunable the pipeline needs.
// It is loaded once (FromEnv) and passed into constructors explicitly, so
// the pipeline is testable with injected fake configuration and no package
// reads the process environment deep inside its logic.
type Config struct {
	// LLM configuration. Provider is "claude", "openai" or "" (auto-detect
	// from which key is present, Claude preferred).
	LLMProvider  string
	AnthropicKey string
	OpenAIKey    string
	Model        string
	ModelTimeout time.Duration

	// Datadog configuration. Live metrics are used only when both keys are
	// present; otherwise the placeholder provider is selected.
	DatadogAPIKey  string
	DatadogAppKey  string
	DatadogSite    string
	MetricsTimeout time.Duration

	LookbackHours int

	// StrictMode blocks commits when the analysis itself fails. Disabled
	// for emergencies via IAC_GUARDIAN_STRICT_MODE=false.
	StrictMode bool

	// AutoFix enables fix proposal generation.
	AutoFix bool
}

// FromEnv loads configuration from the process environment.
func FromEnv() Config {
	return Config{
		LLMProvider:    os.Getenv("LLM_PROVIDER"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		Model:          os.Getenv("IAC_GUARDIAN_MODEL"),
		ModelTimeout:   DefaultModelTimeout,
		DatadogAPIKey:  os.Getenv("DATADOG_API_KEY"),
		DatadogAppKey:  os.Getenv("DATADOG_APP_KEY"),
		DatadogSite:    envOr("DATADOG_SITE", DefaultDatadogSite),
		MetricsTimeout: DefaultMetricsTimeout,
		LookbackHours:  envInt("IAC_GUARDIAN_LOOKBACK_HOURS", DefaultLookbackHours),
		StrictMode:     envBool("IAC_GUARDIAN_STRICT_MODE", true),
		AutoFix:        envBool("IAC_GUARDIAN_AUTO_FIX", true),
	}
}

// HasDatadogCredentials reports whether live metrics queries are possible.
func (c Config) HasDatadogCredentials() bool {
	return c.DatadogAPIKey != "" && c.DatadogAppKey != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
