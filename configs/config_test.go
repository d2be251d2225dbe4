package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(viper.New())
	require.NoError(t, err)
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 75.0, cfg.Prosody.F0Min)
	assert.Equal(t, 500.0, cfg.Prosody.F0Max)
	assert.Equal(t, "Hertz", cfg.Prosody.Unit)
	assert.Equal(t, 12, cfg.LPC.Order)
	assert.Equal(t, "burg", cfg.LPC.Method)
	assert.Equal(t, 25*time.Millisecond, cfg.Formant.FrameDuration)
	assert.True(t, cfg.Tables.PurgeEmpty)
	assert.Empty(t, cfg.Audio.Extensions)

	p := cfg.Formant.FormantParams()
	assert.InDelta(t, 0.025, p.FrameDuration, 1e-12)
	assert.InDelta(t, 0.010, p.HopDuration, 1e-12)
	assert.Equal(t, 3, p.MaxFormants)
	assert.Equal(t, "hamming", p.Window)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sonido-speech.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
workers: 2
prosody:
  f0min: 100
  unit: semitones
lpc:
  method: autocorrelation
tables:
  purge_empty: false
`), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadConfigFrom(v)
	require.NoError(t, err)
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 100.0, cfg.Prosody.F0Min)
	assert.Equal(t, 500.0, cfg.Prosody.F0Max)
	assert.Equal(t, "autocorrelation", cfg.LPC.Method)
	assert.False(t, cfg.Tables.PurgeEmpty)
}

func TestValidateConfig(t *testing.T) {
	base, err := LoadConfigFrom(viper.New())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"inverted pitch range", func(c *Config) { c.Prosody.F0Max = 50 }},
		{"unknown unit", func(c *Config) { c.Prosody.Unit = "cents" }},
		{"zero order", func(c *Config) { c.LPC.Order = 0 }},
		{"unknown method", func(c *Config) { c.LPC.Method = "covariance" }},
		{"pre-emphasis out of range", func(c *Config) { c.Formant.PreEmphasis = 1 }},
		{"unknown window", func(c *Config) { c.Formant.Window = "kaiser" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			assert.Error(t, ValidateConfig(&cfg))
		})
	}
}
