package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "LOG_LEVEL", "READ_TIMEOUT", "WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT",
	"GEOCODER", "ORS_API_KEY", "ORS_BASE_URL", "GAZETTEER_PATH",
	"GEOCODE_CACHE", "DB_PATH", "DATABASE_URL",
	"REDIS_ENABLED", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, GeocoderGazetteer, cfg.Geocoder)
	assert.Equal(t, CacheNone, cfg.GeocodeCache)
	assert.Equal(t, "data/app.db", cfg.DBPath)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("GEOCODER", "ors")
	t.Setenv("ORS_API_KEY", "secret")
	t.Setenv("GEOCODE_CACHE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/eld")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_TTL", "90m")
	t.Setenv("READ_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, GeocoderORS, cfg.Geocoder)
	assert.Equal(t, "secret", cfg.ORSAPIKey)
	assert.Equal(t, CachePostgres, cfg.GeocodeCache)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 90*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
}

func TestLoadRejectsInvalidCombinations(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"ors without key", map[string]string{"GEOCODER": "ors"}, "ORS_API_KEY"},
		{"unknown geocoder", map[string]string{"GEOCODER": "bing"}, "GEOCODER"},
		{"postgres without url", map[string]string{"GEOCODE_CACHE": "postgres"}, "DATABASE_URL"},
		{"unknown cache", map[string]string{"GEOCODE_CACHE": "memcached"}, "GEOCODE_CACHE"},
		{"unknown log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("ELD_TEST_VALUE", "x")
	assert.Equal(t, "x", Get("ELD_TEST_VALUE", "y"))

	t.Setenv("ELD_TEST_VALUE", "")
	assert.Equal(t, "y", Get("ELD_TEST_VALUE", "y"))
}
