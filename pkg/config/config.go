package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Typesense   TypesenseConfig
	Search      SearchConfig
	Translation TranslationConfig
	OTEL        OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// SearchConfig holds search and recommendation tunables
type SearchConfig struct {
	// MaxPerType caps how many candidates each entity adapter fetches
	// before cross-entity merging.
	MaxPerType      int
	DefaultLimit    int
	DefaultLanguage string
	DiversityFactor float64
	TrackSearches   bool
}

// TranslationConfig holds translation provider and cache configuration
type TranslationConfig struct {
	Provider      string
	CacheCapacity int
	CacheTTLDays  int
	BatchWorkers  int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "heritage_crafts"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Search: SearchConfig{
			MaxPerType:      getEnvAsInt("SEARCH_MAX_PER_TYPE", 50),
			DefaultLimit:    getEnvAsInt("SEARCH_DEFAULT_LIMIT", 20),
			DefaultLanguage: getEnv("SEARCH_DEFAULT_LANGUAGE", "zh-HK"),
			DiversityFactor: getEnvAsFloat("RECOMMENDATION_DIVERSITY_FACTOR", 0.5),
			TrackSearches:   getEnvAsBool("SEARCH_TRACKING_ENABLED", true),
		},
		Translation: TranslationConfig{
			Provider:      getEnv("TRANSLATION_PROVIDER", ""),
			CacheCapacity: getEnvAsInt("TRANSLATION_CACHE_CAPACITY", 10000),
			CacheTTLDays:  getEnvAsInt("TRANSLATION_CACHE_TTL_DAYS", 30),
			BatchWorkers:  getEnvAsInt("TRANSLATION_BATCH_WORKERS", 5),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "heritage-crafts-search"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServerAddr returns the HTTP listen address
func (c *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
