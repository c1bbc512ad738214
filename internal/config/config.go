package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutDownTimeout    time.Duration
	RequestTimeout     time.Duration
	CORSAllowedOrigins string
}

// RemoteConfig holds the upstream dotmac API settings.
type RemoteConfig struct {
	Backend          string // "http" or "memory"
	BaseURL          string
	APIKey           string
	Timeout          time.Duration
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
}

// CacheConfig holds the data-view cache settings.
type CacheConfig struct {
	EntryTTL      time.Duration
	SweepInterval time.Duration
}

// FiltersConfig holds the persistent filter store settings.
type FiltersConfig struct {
	FilePath        string
	PersistInterval time.Duration
}

// ScopeConfig holds the authorization gate settings.
type ScopeConfig struct {
	CacheSize int
	CacheTTL  time.Duration
}

// MiscConfig holds everything that does not fit elsewhere.
type MiscConfig struct {
	GinMode  string
	LogLevel string
}

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig
	Remote  RemoteConfig
	Cache   CacheConfig
	Filters FiltersConfig
	Scope   ScopeConfig
	Misc    MiscConfig
}

// LoadConfig reads configuration from config.yaml (if present), applies
// defaults, lets INSIGHTS_* environment variables override everything, and
// validates the result. It also makes sure the filter store file exists so
// the store can start from an empty document.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(getEnvOrDefault("INSIGHTS_CONFIG_PATH", "./config"))

	setDefaults()

	// Environment variables automatically override config file values,
	// e.g. INSIGHTS_SERVER_PORT overrides server.port. The replacer maps
	// dotted keys to the underscored env var names.
	viper.AutomaticEnv()
	viper.SetEnvPrefix("INSIGHTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file is fine: defaults and env vars apply.
	}

	port, err := getEnvOrViperPort("PORT", "server.port")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               port,
			ReadTimeout:        viper.GetDuration("server.read_timeout"),
			WriteTimeout:       viper.GetDuration("server.write_timeout"),
			IdleTimeout:        viper.GetDuration("server.idle_timeout"),
			ShutDownTimeout:    viper.GetDuration("server.shutdown_timeout"),
			RequestTimeout:     viper.GetDuration("server.request_timeout"),
			CORSAllowedOrigins: viper.GetString("server.cors_allowed_origins"),
		},
		Remote: RemoteConfig{
			Backend:          viper.GetString("remote.backend"),
			BaseURL:          viper.GetString("remote.base_url"),
			APIKey:           getEnvOrDefault("INSIGHTS_API_KEY", viper.GetString("remote.api_key")),
			Timeout:          viper.GetDuration("remote.timeout"),
			RetryCount:       viper.GetInt("remote.retry_count"),
			RetryWaitTime:    viper.GetDuration("remote.retry_wait_time"),
			RetryMaxWaitTime: viper.GetDuration("remote.retry_max_wait_time"),
		},
		Cache: CacheConfig{
			EntryTTL:      viper.GetDuration("cache.entry_ttl"),
			SweepInterval: viper.GetDuration("cache.sweep_interval"),
		},
		Filters: FiltersConfig{
			FilePath:        getEnvOrDefault("INSIGHTS_FILTERS_FILE_PATH", viper.GetString("filters.file_path")),
			PersistInterval: viper.GetDuration("filters.persist_interval"),
		},
		Scope: ScopeConfig{
			CacheSize: viper.GetInt("scope.cache_size"),
			CacheTTL:  viper.GetDuration("scope.cache_ttl"),
		},
		Misc: MiscConfig{
			GinMode:  viper.GetString("misc.gin_mode"),
			LogLevel: viper.GetString("misc.log_level"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := ensureFiltersFile(cfg.Filters.FilePath); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 10*time.Second)
	viper.SetDefault("server.idle_timeout", 120*time.Second)
	viper.SetDefault("server.shutdown_timeout", 5*time.Second)
	viper.SetDefault("server.request_timeout", 10*time.Second)
	viper.SetDefault("server.cors_allowed_origins", "*")

	viper.SetDefault("remote.backend", "http")
	viper.SetDefault("remote.base_url", "http://localhost:8000/api/v1")
	viper.SetDefault("remote.api_key", "")
	viper.SetDefault("remote.timeout", 15*time.Second)
	viper.SetDefault("remote.retry_count", 3)
	viper.SetDefault("remote.retry_wait_time", 100*time.Millisecond)
	viper.SetDefault("remote.retry_max_wait_time", 2*time.Second)

	viper.SetDefault("cache.entry_ttl", 5*time.Minute)
	viper.SetDefault("cache.sweep_interval", time.Minute)

	viper.SetDefault("filters.file_path", "./config/data/filters.json")
	viper.SetDefault("filters.persist_interval", 5*time.Second)

	viper.SetDefault("scope.cache_size", 256)
	viper.SetDefault("scope.cache_ttl", time.Minute)

	viper.SetDefault("misc.gin_mode", "release")
	viper.SetDefault("misc.log_level", "info")
}

// validate checks the assembled config for values that would break startup.
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("server idle timeout must be positive")
	}
	if c.Server.ShutDownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server request timeout must be positive")
	}
	switch c.Remote.Backend {
	case "http", "memory":
	default:
		return fmt.Errorf("unknown remote backend: %s (supported: http, memory)", c.Remote.Backend)
	}
	if c.Remote.Backend == "http" && c.Remote.BaseURL == "" {
		return fmt.Errorf("remote base URL is required for the http backend")
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("remote timeout must be positive")
	}
	if c.Remote.RetryCount < 0 {
		return fmt.Errorf("remote retry count must not be negative")
	}
	if c.Cache.EntryTTL <= 0 {
		return fmt.Errorf("cache entry TTL must be positive")
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("cache sweep interval must be positive")
	}
	if c.Filters.FilePath == "" {
		return fmt.Errorf("filters file path is required")
	}
	if c.Filters.PersistInterval <= 0 {
		return fmt.Errorf("filters persist interval must be positive")
	}
	if c.Scope.CacheSize <= 0 {
		return fmt.Errorf("scope cache size must be positive")
	}
	if c.Scope.CacheTTL <= 0 {
		return fmt.Errorf("scope cache TTL must be positive")
	}
	return nil
}

// ensureFiltersFile creates the filter store file with an empty document when
// it does not exist yet, so first startup never fails on a missing file.
func ensureFiltersFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat filters file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create filters directory: %w", err)
	}
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		return fmt.Errorf("create filters file: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvOrViperPort(envKey, viperKey string) (int, error) {
	if v := os.Getenv(envKey); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", envKey, v, err)
		}
		return port, nil
	}
	return viper.GetInt(viperKey), nil
}
