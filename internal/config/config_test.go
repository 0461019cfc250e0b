package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ADDR", "API_BASE", "PLACES_SOURCE", "PLACES_CACHE_TTL_S", "RATE_LIMIT_ENABLED", "ASSETS_BASE_URL"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "/api", c.APIBase)
	assert.Equal(t, SourceJSON, c.PlacesSource)
	assert.Equal(t, 300*time.Second, c.PlacesCacheTTL)
	assert.False(t, c.RateLimit.Enabled)
	assert.Empty(t, c.AssetsBaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE", "/v1/")
	t.Setenv("PLACES_SOURCE", "Elastic")
	t.Setenv("PLACES_CACHE_TTL_S", "bogus")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	c := Load()
	assert.Equal(t, "/v1", c.APIBase)
	assert.Equal(t, SourceElastic, c.PlacesSource)
	assert.Equal(t, 300*time.Second, c.PlacesCacheTTL)
	assert.True(t, c.RateLimit.Enabled)
	assert.Equal(t, 2.5, c.RateLimit.RPS)
}

func TestPostgresDSN(t *testing.T) {
	for _, k := range []string{"PG_HOST", "PG_PORT", "PG_USER", "PG_PASSWORD", "PG_DB", "PG_SSLMODE"} {
		t.Setenv(k, "")
	}
	assert.Equal(t, "postgres://postgres@localhost:5432/places?sslmode=disable", Load().Postgres.DSN())

	t.Setenv("PG_USER", "app")
	t.Setenv("PG_PASSWORD", "p@ss/word")
	t.Setenv("PG_HOST", "db")
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/places?sslmode=disable", Load().Postgres.DSN())
}

func TestRedisConfig(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "x")
	c := Load()
	assert.Equal(t, "cache:6380", c.Redis.Addr)
	assert.Equal(t, 0, c.Redis.DB)
}
