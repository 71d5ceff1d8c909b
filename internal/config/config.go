package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	GeocoderGazetteer = "gazetteer"
	GeocoderORS       = "ors"

	CacheNone     = "none"
	CacheSQLite   = "sqlite"
	CachePostgres = "postgres"
)

type Config struct {
	Port            string
	LogLevel        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	Geocoder      string
	ORSAPIKey     string
	ORSBaseURL    string
	GazetteerPath string

	GeocodeCache string
	DBPath       string
	DatabaseURL  string

	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		ReadTimeout:     getDurationEnv("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getDurationEnv("WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),

		Geocoder:      strings.ToLower(getEnv("GEOCODER", GeocoderGazetteer)),
		ORSAPIKey:     getEnv("ORS_API_KEY", ""),
		ORSBaseURL:    getEnv("ORS_BASE_URL", "https://api.openrouteservice.org"),
		GazetteerPath: getEnv("GAZETTEER_PATH", ""),

		GeocodeCache: strings.ToLower(getEnv("GEOCODE_CACHE", CacheNone)),
		DBPath:       getEnv("DB_PATH", "data/app.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		RedisEnabled:  getBoolEnv("REDIS_ENABLED", false),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		CacheTTL:      getDurationEnv("CACHE_TTL", 24*time.Hour),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Geocoder {
	case GeocoderGazetteer:
	case GeocoderORS:
		if c.ORSAPIKey == "" {
			return fmt.Errorf("ORS_API_KEY is required when GEOCODER=%s", GeocoderORS)
		}
	default:
		return fmt.Errorf("unknown GEOCODER %q", c.Geocoder)
	}

	switch c.GeocodeCache {
	case CacheNone, CacheSQLite:
	case CachePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when GEOCODE_CACHE=%s", CachePostgres)
		}
	default:
		return fmt.Errorf("unknown GEOCODE_CACHE %q", c.GeocodeCache)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}

	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Get returns the value of key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	return getEnv(key, fallback)
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
