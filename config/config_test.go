package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "unit-test")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Address)
	assert.Equal(t, "movie_explorer", cfg.MongoDB_DBName)
	assert.True(t, cfg.EnablePosterEnrichment)
	assert.Equal(t, 10*time.Second, cfg.PosterLookupTimeout)
	assert.Equal(t, 5, cfg.PosterBreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.PosterBreakerOpen)
	assert.False(t, cfg.RateLimit_Enabled)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("GO_ENV", "unit-test")
	t.Setenv("ADDRESS", "9090")
	t.Setenv("ENABLE_POSTER_ENRICHMENT", "false")
	t.Setenv("POSTER_LOOKUP_TIMEOUT", "3s")
	t.Setenv("POSTER_LOOKUP_RATE", "0.5")
	t.Setenv("OMDB_API_KEY", "k-123")
	t.Setenv("POSTER_BREAKER_OPEN", "2s")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Address)
	assert.False(t, cfg.EnablePosterEnrichment)
	assert.Equal(t, 3*time.Second, cfg.PosterLookupTimeout)
	assert.Equal(t, 0.5, cfg.PosterLookupRate)
	assert.Equal(t, "k-123", cfg.OMDbAPIKey)
	assert.Equal(t, 2*time.Second, cfg.PosterBreakerOpen)
}

func TestNewConfigRejectsBadValue(t *testing.T) {
	t.Setenv("GO_ENV", "unit-test")
	t.Setenv("POSTER_BREAKER_FAILURES", "many")

	_, err := NewConfig()
	assert.Error(t, err)
}
