package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	Session  SessionConfig
	Search   SearchConfig
	LogLevel string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
}

type CatalogConfig struct {
	BaseURL           string
	CoversBaseURL     string
	Timeout           int // seconds
	RequestsPerSecond int
}

type SessionConfig struct {
	TTL int // seconds
}

type SearchConfig struct {
	PageSize int
}

// Load creates a new Config from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("PORT", 3000),
			ReadTimeout:  getEnvInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Path:            getEnv("DB_PATH", "booktracker.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 300),
		},
		Catalog: CatalogConfig{
			BaseURL:           getEnv("CATALOG_BASE_URL", "https://openlibrary.org"),
			CoversBaseURL:     getEnv("CATALOG_COVERS_BASE_URL", "https://covers.openlibrary.org"),
			Timeout:           getEnvInt("CATALOG_TIMEOUT", 10),
			RequestsPerSecond: getEnvInt("CATALOG_RPS", 1),
		},
		Session: SessionConfig{
			TTL: getEnvInt("SESSION_TTL", 3600),
		},
		Search: SearchConfig{
			PageSize: getEnvInt("SEARCH_PAGE_SIZE", 20),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
