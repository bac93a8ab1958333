// File: internal/config/config_test.go
package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 100, cfg.Monitor.HistoryCap)
	assert.Equal(t, 5, cfg.Monitor.MaxPatternLength)
	assert.InDelta(t, 0.2, cfg.Monitor.ElevatedThreshold, 1e-9)
	assert.Less(t, cfg.Monitor.ElevatedThreshold, cfg.Monitor.CriticalThreshold)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"non-positive history cap", func(c *Config) { c.Monitor.HistoryCap = 0 }},
		{"pattern length too small", func(c *Config) { c.Monitor.MaxPatternLength = 1 }},
		{"min support out of range", func(c *Config) { c.Monitor.MinSupport = 1.5 }},
		{"inverted thresholds", func(c *Config) { c.Monitor.ElevatedThreshold = 0.9 }},
		{"non-positive steps", func(c *Config) { c.Simulation.MaxSteps = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSetDefaultsRoundTripsThroughViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.NoError(t, cfg.Validate())

	defaults := NewDefaultConfig()
	assert.Equal(t, defaults.Monitor, cfg.Monitor)
	assert.Equal(t, defaults.Simulation, cfg.Simulation)
	assert.Equal(t, defaults.Logger.Level, cfg.Logger.Level)
}

func TestResolveAPIKeysFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("OPENROUTER_API_KEY", "or-key")

	cfg := NewDefaultConfig()
	cfg.LLM.Monitor.Provider = ProviderGemini
	cfg.LLM.Saboteur.Provider = ProviderOpenRouter
	cfg.ResolveAPIKeys()

	assert.Equal(t, "g-key", cfg.LLM.Monitor.APIKey)
	assert.Equal(t, "or-key", cfg.LLM.Saboteur.APIKey)
}

func TestResolveAPIKeysPrefersExplicitValue(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "env-key")

	cfg := NewDefaultConfig()
	cfg.LLM.Monitor.Provider = ProviderGemini
	cfg.LLM.Monitor.APIKey = "explicit"
	cfg.ResolveAPIKeys()

	assert.Equal(t, "explicit", cfg.LLM.Monitor.APIKey)
}
