package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "catalog")
	t.Setenv("DB_NAME", "catalog")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "file://migrations", cfg.DB.MigrationsPath)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.Search.Addresses)
	assert.Equal(t, "productinventory", cfg.Search.Index)
	assert.Equal(t, 10, cfg.Search.DefaultLimit)
	assert.Equal(t, 5*time.Second, cfg.Search.Timeout)
	assert.Equal(t, "/media/", cfg.Media.URLPrefix)
	assert.Equal(t, time.Duration(0), cfg.Worker.IndexSyncInterval)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.TrustProxyHeaders)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ELASTICSEARCH_ADDRESSES", "http://es1:9200, http://es2:9200,")
	t.Setenv("SEARCH_TIMEOUT", "750ms")
	t.Setenv("INDEX_SYNC_INTERVAL", "10m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.Search.Addresses)
	assert.Equal(t, 750*time.Millisecond, cfg.Search.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Worker.IndexSyncInterval)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestLoad_MissingDatabase(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_HOST", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_HOST")
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("CACHE_TTL", "-1s")

	_, err := Load()
	assert.ErrorContains(t, err, "CACHE_TTL")
}

func TestLoad_InvalidSearchLimits(t *testing.T) {
	setRequired(t)
	t.Setenv("SEARCH_DEFAULT_LIMIT", "200")

	_, err := Load()
	assert.ErrorContains(t, err, "SEARCH_DEFAULT_LIMIT")
}
