package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, DefaultInstances, cfg.Instances)
	assert.Equal(t, 3*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, "JP", cfg.Region)
	assert.Equal(t, "ja", cfg.Locale)
	assert.True(t, cfg.RateLimitEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MIRU_LISTEN", ":9999")
	t.Setenv("MIRU_INSTANCES", "https://inv.example.org, https://inv2.example.org")
	t.Setenv("MIRU_PROBE_TIMEOUT", "1s")
	t.Setenv("MIRU_RATE_LIMIT_ENABLED", "no")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Listen)
	assert.Equal(t, []string{"https://inv.example.org", "https://inv2.example.org"}, cfg.Instances)
	assert.Equal(t, time.Second, cfg.ProbeTimeout)
	assert.False(t, cfg.RateLimitEnabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MIRU_PROBE_TIMEOUT", "not-a-duration")
	t.Setenv("MIRU_RATE_LIMIT_RPM", "banana")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 300, cfg.RateLimitRPM)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "no instances",
			mutate:  func(c *Config) { c.Instances = nil },
			wantErr: "at least one provider instance",
		},
		{
			name:    "bad instance scheme",
			mutate:  func(c *Config) { c.Instances = []string{"ftp://example.org"} },
			wantErr: "unsupported scheme",
		},
		{
			name:    "instance trailing slash",
			mutate:  func(c *Config) { c.Instances = []string{"https://example.org/api/"} },
			wantErr: "must not end with a slash",
		},
		{
			name:    "zero probe timeout",
			mutate:  func(c *Config) { c.ProbeTimeout = 0 },
			wantErr: "timeouts must be positive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
