package config

import (
	"time"
)

// Store drivers.
const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Loader     LoaderConfig     `yaml:"loader"`
	Store      StoreConfig      `yaml:"store"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Account"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"120s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// DSN is only required when the postgres store driver is selected.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// DictionaryConfig holds settings for the remote dictionary site.
type DictionaryConfig struct {
	BaseURL      string        `yaml:"base_url"       env:"DICT_BASE_URL"       env-default:"https://cn.bing.com"`
	Timeout      time.Duration `yaml:"timeout"        env:"DICT_TIMEOUT"        env-default:"10s"`
	RetryDelay   time.Duration `yaml:"retry_delay"    env:"DICT_RETRY_DELAY"    env-default:"500ms"`
	UserAgent    string        `yaml:"user_agent"     env:"DICT_USER_AGENT"     env-default:"Mozilla/5.0 (compatible; wordbook)"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" env:"DICT_MAX_BODY_BYTES" env-default:"2097152"`
}

// MaxLoaderConcurrency caps in-flight dictionary fetches per book.
const MaxLoaderConcurrency = 5

// LoaderConfig holds batch loader settings.
type LoaderConfig struct {
	Concurrency int `yaml:"concurrency" env:"LOADER_CONCURRENCY" env-default:"5"`
}

// StoreConfig selects where account word lists and the word cache live.
type StoreConfig struct {
	Driver string `yaml:"driver" env:"STORE_DRIVER" env-default:"file"`
	Dir    string `yaml:"dir"    env:"STORE_DIR"    env-default:"./accounts"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// RateLimitConfig caps requests that reach the remote dictionary.
type RateLimitConfig struct {
	LookupsPerMinute int           `yaml:"lookups_per_minute" env:"RATE_LIMIT_LOOKUPS_PER_MINUTE" env-default:"60"`
	CleanupInterval  time.Duration `yaml:"cleanup_interval"   env:"RATE_LIMIT_CLEANUP_INTERVAL"   env-default:"5m"`
}
