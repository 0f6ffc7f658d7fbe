package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ruokahinta/backend/internal/usecase"
)

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when only base URL is set", func(t *testing.T) {
		t.Setenv("RUOKAHINTA_CATALOG_BASE_URL", "https://catalog.example.com")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Server.MaxIngredients != 50 {
			t.Errorf("Server.MaxIngredients = %d, want 50", cfg.Server.MaxIngredients)
		}
		if cfg.Catalog.Type != CatalogHTTP {
			t.Errorf("Catalog.Type = %s, want http", cfg.Catalog.Type)
		}
		if cfg.Catalog.Timeout != 10*time.Second {
			t.Errorf("Catalog.Timeout = %v, want 10s", cfg.Catalog.Timeout)
		}
		if cfg.Cache.Type != CacheMemory {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 6*time.Hour {
			t.Errorf("Cache.TTL = %v, want 6h", cfg.Cache.TTL)
		}
		if cfg.Matching.ResultLimit != 25 {
			t.Errorf("Matching.ResultLimit = %d, want 25", cfg.Matching.ResultLimit)
		}
		if cfg.Matching.MaxAlternatives != 3 {
			t.Errorf("Matching.MaxAlternatives = %d, want 3", cfg.Matching.MaxAlternatives)
		}
		if cfg.Matching.MaxTerms != 8 {
			t.Errorf("Matching.MaxTerms = %d, want 8", cfg.Matching.MaxTerms)
		}
		if cfg.Matching.LexicalFloor != 0.6 {
			t.Errorf("Matching.LexicalFloor = %v, want 0.6", cfg.Matching.LexicalFloor)
		}
		if cfg.Matching.Concurrency != 4 {
			t.Errorf("Matching.Concurrency = %d, want 4", cfg.Matching.Concurrency)
		}
		if cfg.Matching.QueryTimeout != 5*time.Second {
			t.Errorf("Matching.QueryTimeout = %v, want 5s", cfg.Matching.QueryTimeout)
		}
		if strings.Join(cfg.Matching.Languages, ",") != "fi,en" {
			t.Errorf("Matching.Languages = %v, want [fi en]", cfg.Matching.Languages)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
		if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
			t.Errorf("Logging = %+v, want info/json", cfg.Logging)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		t.Setenv("RUOKAHINTA_SERVER_PORT", "9090")
		t.Setenv("RUOKAHINTA_SERVER_ENVIRONMENT", "production")
		t.Setenv("RUOKAHINTA_CATALOG_TYPE", "sqlite3")
		t.Setenv("RUOKAHINTA_CATALOG_DSN", "file:catalog.db")
		t.Setenv("RUOKAHINTA_CACHE_TYPE", "redis")
		t.Setenv("RUOKAHINTA_CACHE_REDIS_URL", "redis://localhost:6379")
		t.Setenv("RUOKAHINTA_CACHE_TTL", "24h")
		t.Setenv("RUOKAHINTA_MATCHING_MIN_SCORE", "0.25")
		t.Setenv("RUOKAHINTA_MATCHING_CONCURRENCY", "8")
		t.Setenv("RUOKAHINTA_MATCHING_SIMILARITY", "token_set")
		t.Setenv("RUOKAHINTA_MATCHING_LANGUAGES", "fi")
		t.Setenv("RUOKAHINTA_RATELIMIT_PER_IP", "200")
		t.Setenv("RUOKAHINTA_LOGGING_LEVEL", "debug")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Catalog.Type != CatalogSQLite {
			t.Errorf("Catalog.Type = %s, want sqlite3", cfg.Catalog.Type)
		}
		if cfg.Catalog.DSN != "file:catalog.db" {
			t.Errorf("Catalog.DSN = %s, want file:catalog.db", cfg.Catalog.DSN)
		}
		if cfg.Cache.Type != CacheRedis {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Matching.MinScore != 0.25 {
			t.Errorf("Matching.MinScore = %v, want 0.25", cfg.Matching.MinScore)
		}
		if cfg.Matching.Concurrency != 8 {
			t.Errorf("Matching.Concurrency = %d, want 8", cfg.Matching.Concurrency)
		}
		if cfg.Matching.Similarity != "token_set" {
			t.Errorf("Matching.Similarity = %s, want token_set", cfg.Matching.Similarity)
		}
		if strings.Join(cfg.Matching.Languages, ",") != "fi" {
			t.Errorf("Matching.Languages = %v, want [fi]", cfg.Matching.Languages)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
		}
	})

	t.Run("fails validation when base URL is missing", func(t *testing.T) {
		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing base URL")
		}
		want := "invalid configuration: catalog base URL is required for catalog type 'http' (set RUOKAHINTA_CATALOG_BASE_URL)"
		if err.Error() != want {
			t.Errorf("Load() error = %v, want %q", err, want)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		t.Setenv("RUOKAHINTA_CATALOG_BASE_URL", "https://catalog.example.com")
		t.Setenv("RUOKAHINTA_CACHE_TYPE", "invalid")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation when redis URL missing for redis cache", func(t *testing.T) {
		t.Setenv("RUOKAHINTA_CATALOG_BASE_URL", "https://catalog.example.com")
		t.Setenv("RUOKAHINTA_CACHE_TYPE", "redis")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
	})

	t.Run("reads values from .env file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		t.Setenv("RUOKAHINTA_CATALOG_TYPE", "snapshot")

		content := "RUOKAHINTA_CATALOG_SNAPSHOT_PATH=products.json\n"
		if err := os.WriteFile(".env", []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		defer os.Unsetenv("RUOKAHINTA_CATALOG_SNAPSHOT_PATH")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Catalog.SnapshotPath != "products.json" {
			t.Errorf("Catalog.SnapshotPath = %s, want products.json", cfg.Catalog.SnapshotPath)
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		t.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("skips comments and loads variables", func(t *testing.T) {
		t.Chdir(t.TempDir())

		envContent := `
# This is a comment
TEST_SKIP_1=value1

TEST_SKIP_2=value2
# TEST_COMMENTED=should_not_load
`
		if err := os.WriteFile(".env", []byte(envContent), 0o644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		defer func() {
			os.Unsetenv("TEST_SKIP_1")
			os.Unsetenv("TEST_SKIP_2")
		}()

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_SKIP_1") != "value1" {
			t.Errorf("TEST_SKIP_1 = %q, want value1", os.Getenv("TEST_SKIP_1"))
		}
		if os.Getenv("TEST_SKIP_2") != "value2" {
			t.Errorf("TEST_SKIP_2 = %q, want value2", os.Getenv("TEST_SKIP_2"))
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("TEST_OVERRIDE", "existing-value")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0o644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func validConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Type:    CatalogHTTP,
			BaseURL: "https://catalog.example.com",
		},
		Cache: CacheConfig{
			Type: CacheMemory,
		},
		Matching: MatchingConfig{
			Concurrency: 4,
			Similarity:  usecase.SimilarityLevenshtein,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid http catalog", func(*Config) {}, false},
		{"unknown catalog type", func(c *Config) { c.Catalog.Type = "ftp" }, true},
		{"postgres without dsn", func(c *Config) { c.Catalog.Type = CatalogPostgres }, true},
		{"postgres with dsn", func(c *Config) {
			c.Catalog.Type = CatalogPostgres
			c.Catalog.DSN = "postgres://localhost/catalog"
		}, false},
		{"sqlite without dsn", func(c *Config) { c.Catalog.Type = CatalogSQLite }, true},
		{"snapshot without path", func(c *Config) { c.Catalog.Type = CatalogSnapshot }, true},
		{"snapshot with path", func(c *Config) {
			c.Catalog.Type = CatalogSnapshot
			c.Catalog.SnapshotPath = "products.json"
		}, false},
		{"cache none", func(c *Config) { c.Cache.Type = CacheNone }, false},
		{"invalid cache type", func(c *Config) { c.Cache.Type = "invalid-type" }, true},
		{"redis with url", func(c *Config) {
			c.Cache.Type = CacheRedis
			c.Cache.RedisURL = "redis://localhost:6379"
		}, false},
		{"redis without url", func(c *Config) { c.Cache.Type = CacheRedis }, true},
		{"zero concurrency", func(c *Config) { c.Matching.Concurrency = 0 }, true},
		{"min score above one", func(c *Config) { c.Matching.MinScore = 1.5 }, true},
		{"unknown similarity", func(c *Config) { c.Matching.Similarity = "soundex" }, true},
		{"empty similarity means default", func(c *Config) { c.Matching.Similarity = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatchingConfigResolverConfig(t *testing.T) {
	t.Run("copies knobs and builds similarity", func(t *testing.T) {
		m := MatchingConfig{
			ResultLimit:     10,
			MaxAlternatives: 2,
			MaxTerms:        5,
			MinScore:        0.3,
			LexicalFloor:    0.5,
			Concurrency:     2,
			QueryTimeout:    time.Second,
			Similarity:      usecase.SimilarityTokenSet,
			Languages:       []string{"fi"},
		}

		rc, err := m.ResolverConfig(usecase.DefaultTables())
		if err != nil {
			t.Fatalf("ResolverConfig() error = %v", err)
		}
		if _, ok := rc.Similarity.(usecase.TokenSetSimilarity); !ok {
			t.Errorf("Similarity = %T, want TokenSetSimilarity", rc.Similarity)
		}
		if rc.ResultLimit != 10 || rc.MaxAlternatives != 2 || rc.MaxTerms != 5 {
			t.Errorf("limits = %d/%d/%d, want 10/2/5", rc.ResultLimit, rc.MaxAlternatives, rc.MaxTerms)
		}
		if rc.MinScore != 0.3 || rc.LexicalFloor != 0.5 {
			t.Errorf("scores = %v/%v, want 0.3/0.5", rc.MinScore, rc.LexicalFloor)
		}
		if rc.Concurrency != 2 || rc.QueryTimeout != time.Second {
			t.Errorf("concurrency = %d timeout = %v", rc.Concurrency, rc.QueryTimeout)
		}
		if len(rc.Tables.Categories) == 0 {
			t.Error("Tables.Categories is empty, want default tables")
		}
	})

	t.Run("rejects unknown similarity", func(t *testing.T) {
		if _, err := (MatchingConfig{Similarity: "soundex"}).ResolverConfig(usecase.MatchingTables{}); err == nil {
			t.Error("ResolverConfig() error = nil, want error")
		}
	})
}

func TestLoadWithOverrides(t *testing.T) {
	t.Setenv("RUOKAHINTA_CATALOG_TYPE", "http")

	cfg, err := LoadWithOverrides(map[string]interface{}{
		"catalog.type":          CatalogSnapshot,
		"catalog.snapshot_path": "products.json",
		"cache.type":            CacheNone,
	})
	if err != nil {
		t.Fatalf("LoadWithOverrides() error = %v, want nil", err)
	}
	if cfg.Catalog.Type != CatalogSnapshot {
		t.Errorf("Catalog.Type = %s, want snapshot (override beats env)", cfg.Catalog.Type)
	}
	if cfg.Cache.Type != CacheNone {
		t.Errorf("Cache.Type = %s, want none", cfg.Cache.Type)
	}
}
