package config_test

import (
	"testing"
	"time"

	"github.com/dom/plantally/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, time.Minute, cfg.TrialDuration)
	assert.Equal(t, 2, cfg.DemoPlantLimit)
	assert.Equal(t, time.Second, cfg.ExpiryPollInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.TimerTickInterval)
	assert.Equal(t, 24*time.Hour, cfg.SessionIdleTTL)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9999")
	t.Setenv("TRIAL_DURATION", "2m")
	t.Setenv("DEMO_PLANT_LIMIT", "5")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.TrialDuration)
	assert.Equal(t, 5, cfg.DemoPlantLimit)
	assert.True(t, cfg.TracingEnabled)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "bad duration", env: map[string]string{"JWT_SECRET": "s", "TRIAL_DURATION": "soon"}},
		{name: "zero trial", env: map[string]string{"JWT_SECRET": "s", "TRIAL_DURATION": "0s"}},
		{name: "fractional trial", env: map[string]string{"JWT_SECRET": "s", "TRIAL_DURATION": "1500ms"}},
		{name: "zero plant limit", env: map[string]string{"JWT_SECRET": "s", "DEMO_PLANT_LIMIT": "0"}},
		{name: "zero tick", env: map[string]string{"JWT_SECRET": "s", "TIMER_TICK_INTERVAL": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
