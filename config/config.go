package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ruokahinta/backend/internal/usecase"
)

// Catalog backends
const (
	CatalogHTTP     = "http"
	CatalogPostgres = "postgres"
	CatalogSQLite   = "sqlite3"
	CatalogSnapshot = "snapshot"
)

// Cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	MaxIngredients int           `mapstructure:"max_ingredients"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// CatalogConfig selects and configures the product catalog backend
type CatalogConfig struct {
	Type              string        `mapstructure:"type"`
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	DSN               string        `mapstructure:"dsn"`
	SnapshotPath      string        `mapstructure:"snapshot_path"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type      string        `mapstructure:"type"` // "none", "memory" or "redis"
	RedisURL  string        `mapstructure:"redis_url"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds the matching engine knobs
type MatchingConfig struct {
	ResultLimit     int           `mapstructure:"result_limit"`
	MaxAlternatives int           `mapstructure:"max_alternatives"`
	MaxTerms        int           `mapstructure:"max_terms"`
	MinScore        float64       `mapstructure:"min_score"`
	LexicalFloor    float64       `mapstructure:"lexical_floor"`
	Concurrency     int           `mapstructure:"concurrency"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
	Similarity      string        `mapstructure:"similarity"`
	RulesFile       string        `mapstructure:"rules_file"`
	Languages       []string      `mapstructure:"languages"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// ResolverConfig converts the matching section into the engine's configuration.
func (m MatchingConfig) ResolverConfig(tables usecase.MatchingTables) (usecase.ResolverConfig, error) {
	similarity, err := usecase.NewSimilarity(m.Similarity)
	if err != nil {
		return usecase.ResolverConfig{}, err
	}
	return usecase.ResolverConfig{
		Tables:          tables,
		Similarity:      similarity,
		Languages:       m.Languages,
		ResultLimit:     m.ResultLimit,
		MaxAlternatives: m.MaxAlternatives,
		MaxTerms:        m.MaxTerms,
		MinScore:        m.MinScore,
		LexicalFloor:    m.LexicalFloor,
		Concurrency:     m.Concurrency,
		QueryTimeout:    m.QueryTimeout,
	}, nil
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadWithOverrides(nil)
}

// LoadWithOverrides is Load with explicit key values (e.g. "catalog.type")
// that take precedence over files and environment. Used for CLI flags.
func LoadWithOverrides(overrides map[string]interface{}) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ruokahinta/")

	// Environment variable settings
	v.SetEnvPrefix("RUOKAHINTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	for key, value := range overrides {
		v.Set(key, value)
	}

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory when present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.max_ingredients", 50)
	v.SetDefault("server.request_timeout", "30s")

	// Catalog defaults
	v.SetDefault("catalog.type", CatalogHTTP)
	v.SetDefault("catalog.base_url", "")
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.dsn", "")
	v.SetDefault("catalog.snapshot_path", "")
	v.SetDefault("catalog.requests_per_second", 10)
	v.SetDefault("catalog.burst", 20)
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.max_retries", 3)

	// Cache defaults
	v.SetDefault("cache.type", CacheMemory)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key_prefix", "ruokahinta:")
	v.SetDefault("cache.ttl", "6h")

	// Matching defaults
	v.SetDefault("matching.result_limit", 25)
	v.SetDefault("matching.max_alternatives", 3)
	v.SetDefault("matching.max_terms", 8)
	v.SetDefault("matching.min_score", 0.0)
	v.SetDefault("matching.lexical_floor", 0.6)
	v.SetDefault("matching.concurrency", 4)
	v.SetDefault("matching.query_timeout", "5s")
	v.SetDefault("matching.similarity", usecase.SimilarityLevenshtein)
	v.SetDefault("matching.rules_file", "")
	v.SetDefault("matching.languages", []string{"fi", "en"})

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Type {
	case CatalogHTTP:
		if config.Catalog.BaseURL == "" {
			return fmt.Errorf("catalog base URL is required for catalog type 'http' (set RUOKAHINTA_CATALOG_BASE_URL)")
		}
	case CatalogPostgres, CatalogSQLite:
		if config.Catalog.DSN == "" {
			return fmt.Errorf("catalog DSN is required for catalog type '%s' (set RUOKAHINTA_CATALOG_DSN)", config.Catalog.Type)
		}
	case CatalogSnapshot:
		if config.Catalog.SnapshotPath == "" {
			return fmt.Errorf("snapshot path is required for catalog type 'snapshot' (set RUOKAHINTA_CATALOG_SNAPSHOT_PATH)")
		}
	default:
		return fmt.Errorf("catalog type must be one of http, postgres, sqlite3, snapshot, got: %s", config.Catalog.Type)
	}

	switch config.Cache.Type {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when cache type is 'redis'")
		}
	default:
		return fmt.Errorf("cache type must be 'none', 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Matching.Concurrency <= 0 {
		return fmt.Errorf("matching concurrency must be positive, got: %d", config.Matching.Concurrency)
	}
	if config.Matching.MinScore < 0 || config.Matching.MinScore > 1 {
		return fmt.Errorf("matching min score must be within [0,1], got: %v", config.Matching.MinScore)
	}
	if _, err := usecase.NewSimilarity(config.Matching.Similarity); err != nil {
		return err
	}

	return nil
}
