// Package config loads docindex's process configuration via viper, mirroring
// the teacher's config-struct-plus-Validate() layering.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

var (
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// ServerConfig is the HTTP/connect listen address.
type ServerConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port string `mapstructure:"port" validate:"required,numeric"`
}

// DatabaseConfig is the Postgres DSN components backing both the metadata
// store and the pgvector semantic index.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required,hostname"`
	Port     int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	DBName   string `mapstructure:"dbname" validate:"required"`
}

// DSN renders a libpq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// RedisConfig backs the second-tier query cache.
type RedisConfig struct {
	Address  string `mapstructure:"address" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0,max=15"`
}

// MinIOConfig backs pre-reset layout snapshots and capture backups.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint" validate:"required"`
	AccessKeyID     string `mapstructure:"access_key_id" validate:"required"`
	SecretAccessKey string `mapstructure:"secret_access_key" validate:"required"`
	BucketName      string `mapstructure:"bucket_name" validate:"required"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// EmbeddingConfig addresses the remote embedding service that stands in for
// the original's local transformer session (see DESIGN.md).
type EmbeddingConfig struct {
	BaseURL    string `mapstructure:"base_url" validate:"required"`
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model" validate:"required"`
	Dimensions int    `mapstructure:"dimensions"`
}

// QueryCacheConfig mirrors spec 4.10's LRU+TTL cache (480 cap, 120s TTL).
type QueryCacheConfig struct {
	Capacity int `mapstructure:"capacity"`
	TTLSecs  int `mapstructure:"ttl_seconds"`
}

// LexicalConfig mirrors spec 4.8's fetch-depth clamp.
type LexicalConfig struct {
	MinFetchDepth int `mapstructure:"min_fetch_depth"`
	MaxFetchDepth int `mapstructure:"max_fetch_depth"`
}

// SemanticConfig mirrors spec 4.9's batching/truncation/ANN thresholds.
type SemanticConfig struct {
	BatchSize          int `mapstructure:"batch_size"`
	TruncateCodepoints int `mapstructure:"truncate_codepoints"`
	ANNIndexThreshold  int `mapstructure:"ann_index_threshold"`
	Nprobes            int `mapstructure:"nprobes"`
	RefineFactor       int `mapstructure:"refine_factor"`
}

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Database  DatabaseConfig   `mapstructure:"database"`
	Redis     RedisConfig      `mapstructure:"redis"`
	MinIO     MinIOConfig      `mapstructure:"minio"`
	Embedding EmbeddingConfig  `mapstructure:"embedding"`
	QueryCache QueryCacheConfig `mapstructure:"query_cache"`
	Lexical   LexicalConfig    `mapstructure:"lexical"`
	Semantic  SemanticConfig   `mapstructure:"semantic"`
	Roots     []string         `mapstructure:"roots"`
}

// Validate applies defaults and checks invariants that spec.md pins to
// specific numbers (query cache capacity/TTL, fetch-depth clamp bounds).
func (c *Config) Validate() error {
	if c.QueryCache.Capacity == 0 {
		c.QueryCache.Capacity = 480
	}
	if c.QueryCache.TTLSecs == 0 {
		c.QueryCache.TTLSecs = 120
	}
	if c.Lexical.MinFetchDepth == 0 {
		c.Lexical.MinFetchDepth = 80
	}
	if c.Lexical.MaxFetchDepth == 0 {
		c.Lexical.MaxFetchDepth = 1800
	}
	if c.Lexical.MinFetchDepth >= c.Lexical.MaxFetchDepth {
		return fmt.Errorf("%w: lexical min fetch depth must be less than max", ErrInvalidConfig)
	}
	if c.Semantic.BatchSize == 0 {
		c.Semantic.BatchSize = 24
	}
	if c.Semantic.TruncateCodepoints == 0 {
		c.Semantic.TruncateCodepoints = 720
	}
	if c.Semantic.ANNIndexThreshold == 0 {
		c.Semantic.ANNIndexThreshold = 4096
	}
	if c.Semantic.Nprobes == 0 {
		c.Semantic.Nprobes = 18
	}
	if c.Semantic.RefineFactor == 0 {
		c.Semantic.RefineFactor = 2
	}
	return nil
}

// LoadConfig loads configuration from configPath plus environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("minio.use_ssl", false)
	viper.SetDefault("query_cache.capacity", 480)
	viper.SetDefault("query_cache.ttl_seconds", 120)
	viper.SetDefault("lexical.min_fetch_depth", 80)
	viper.SetDefault("lexical.max_fetch_depth", 1800)
	viper.SetDefault("semantic.batch_size", 24)
	viper.SetDefault("semantic.truncate_codepoints", 720)
	viper.SetDefault("semantic.ann_index_threshold", 4096)
	viper.SetDefault("semantic.nprobes", 18)
	viper.SetDefault("semantic.refine_factor", 2)
}

// MustLoadConfig loads configuration and panics on failure; use only from
// main().
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
