package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LLM_PROVIDER", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "IAC_GUARDIAN_MODEL",
		"DATADOG_API_KEY", "DATADOG_APP_KEY", "DATADOG_SITE",
		"IAC_GUARDIAN_LOOKBACK_HOURS", "IAC_GUARDIAN_STRICT_MODE", "IAC_GUARDIAN_AUTO_FIX",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg := FromEnv()

	assert.Equal(t, DefaultLookbackHours, cfg.LookbackHours)
	assert.Equal(t, DefaultDatadogSite, cfg.DatadogSite)
	assert.Equal(t, DefaultModelTimeout, cfg.ModelTimeout)
	assert.True(t, cfg.StrictMode)
	assert.True(t, cfg.AutoFix)
	assert.False(t, cfg.HasDatadogCredentials())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATADOG_API_KEY", "k")
	t.Setenv("DATADOG_APP_KEY", "a")
	t.Setenv("DATADOG_SITE", "datadoghq.eu")
	t.Setenv("IAC_GUARDIAN_LOOKBACK_HOURS", "24")
	t.Setenv("IAC_GUARDIAN_STRICT_MODE", "false")

	cfg := FromEnv()
	assert.True(t, cfg.HasDatadogCredentials())
	assert.Equal(t, "datadoghq.eu", cfg.DatadogSite)
	assert.Equal(t, 24, cfg.LookbackHours)
	assert.False(t, cfg.StrictMode)
}

func TestFromEnvIgnoresMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("IAC_GUARDIAN_LOOKBACK_HOURS", "soon")
	t.Setenv("IAC_GUARDIAN_AUTO_FIX", "maybe")

	cfg := FromEnv()
	assert.Equal(t, DefaultLookbackHours, cfg.LookbackHours)
	assert.True(t, cfg.AutoFix)
}
