package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	JWTTTL    time.Duration

	// TrustProxyHeaders makes absolute URLs follow X-Forwarded-Proto and
	// X-Forwarded-Host. Set it only behind a proxy that overwrites them.
	TrustProxyHeaders bool

	DB     DatabaseConfig
	Redis  RedisConfig
	Search SearchConfig
	Media  MediaConfig
	Worker WorkerConfig
	CORS   CORSConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MigrationsPath string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// SearchConfig contains Elasticsearch connection and query parameters.
type SearchConfig struct {
	Addresses    []string
	Username     string
	Password     string
	Index        string
	Timeout      time.Duration
	DefaultLimit int
	MaxLimit     int
}

// MediaConfig describes how stored media paths are exposed.
type MediaConfig struct {
	URLPrefix string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	IndexSyncInterval time.Duration
}

// CORSConfig lists the hosts allowed to make cross-origin requests.
type CORSConfig struct {
	AllowedHosts []string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.TrustProxyHeaders = getEnvBool("TRUST_PROXY_HEADERS", false)

	// Database
	cfg.DB = DatabaseConfig{
		Host:           getEnv("DB_HOST", ""),
		Port:           getEnv("DB_PORT", "5432"),
		User:           getEnv("DB_USER", ""),
		Password:       getEnv("DB_PASSWORD", ""),
		Name:           getEnv("DB_NAME", ""),
		SSLMode:        getEnv("DB_SSLMODE", "disable"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Elasticsearch
	cfg.Search = SearchConfig{
		Addresses:    getEnvList("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
		Username:     getEnv("ELASTICSEARCH_USERNAME", ""),
		Password:     getEnv("ELASTICSEARCH_PASSWORD", ""),
		Index:        getEnv("SEARCH_INDEX", "productinventory"),
		DefaultLimit: getEnvInt("SEARCH_DEFAULT_LIMIT", 10),
		MaxLimit:     getEnvInt("SEARCH_MAX_LIMIT", 100),
	}

	cfg.Media = MediaConfig{
		URLPrefix: getEnv("MEDIA_URL", "/media/"),
	}

	cfg.CORS = CORSConfig{
		AllowedHosts: getEnvList("CORS_ALLOWED_HOSTS", []string{"localhost:3000", "127.0.0.1:3000"}),
	}

	// Durations
	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.Redis.CacheTTL, err = parseDurationEnv("CACHE_TTL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if cfg.Search.Timeout, err = parseDurationEnv("SEARCH_TIMEOUT", "5s"); err != nil {
		return nil, fmt.Errorf("invalid SEARCH_TIMEOUT: %w", err)
	}
	if cfg.Worker.IndexSyncInterval, err = parseDurationEnv("INDEX_SYNC_INTERVAL", "0s"); err != nil {
		return nil, fmt.Errorf("invalid INDEX_SYNC_INTERVAL: %w", err)
	}

	if cfg.Search.DefaultLimit <= 0 || cfg.Search.MaxLimit <= 0 || cfg.Search.DefaultLimit > cfg.Search.MaxLimit {
		return nil, errors.New("search limits invalid: SEARCH_DEFAULT_LIMIT must be positive and not exceed SEARCH_MAX_LIMIT")
	}

	// Basic validation for DB parameters, messages kept short.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvBool returns the value of an environment variable as a bool or a default if empty/invalid.
func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getEnvList splits a comma separated variable, dropping blank entries.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
