package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("PROVIDER_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROVIDER_API_KEY")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PROVIDER_API_KEY", "k")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 200*time.Millisecond, cfg.Search.PageDelay)
	assert.Equal(t, 5*time.Minute, cfg.Search.CacheTTL)
	assert.Equal(t, 5.0, cfg.Search.RadiusMiles)
	assert.Equal(t, 300*time.Millisecond, cfg.Suggest.Debounce)
	assert.Equal(t, 10*time.Second, cfg.Location.SensorTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverridesAndBadValuesFallBack(t *testing.T) {
	t.Setenv("PROVIDER_API_KEY", "k")
	t.Setenv("SEARCH_TIMEOUT", "45s")
	t.Setenv("SEARCH_RADIUS_MILES", "25")
	t.Setenv("SUGGEST_DEBOUNCE", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 25.0, cfg.Search.RadiusMiles)
	assert.Equal(t, 300*time.Millisecond, cfg.Suggest.Debounce)
}
