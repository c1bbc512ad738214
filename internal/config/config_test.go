package config

import (
	"os"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			IdleTimeout:        120 * time.Second,
			ShutDownTimeout:    5 * time.Second,
			RequestTimeout:     10 * time.Second,
			CORSAllowedOrigins: "*",
		},
		Remote: RemoteConfig{
			Backend:          "http",
			BaseURL:          "http://localhost:8000/api/v1",
			Timeout:          15 * time.Second,
			RetryCount:       3,
			RetryWaitTime:    100 * time.Millisecond,
			RetryMaxWaitTime: 2 * time.Second,
		},
		Cache: CacheConfig{
			EntryTTL:      5 * time.Minute,
			SweepInterval: time.Minute,
		},
		Filters: FiltersConfig{
			FilePath:        "/tmp/filters.json",
			PersistInterval: 5 * time.Second,
		},
		Scope: ScopeConfig{
			CacheSize: 256,
			CacheTTL:  time.Minute,
		},
		Misc: MiscConfig{
			GinMode:  "release",
			LogLevel: "info",
		},
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"zero port", 0},
		{"negative port", -1},
		{"too high port", 65536},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port
			if err := cfg.validate(); err == nil {
				t.Errorf("expected error for port %d", tt.port)
			}
		})
	}
}

func TestConfig_Validate_InvalidTimeouts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"zero write timeout", func(c *Config) { c.Server.WriteTimeout = 0 }},
		{"zero idle timeout", func(c *Config) { c.Server.IdleTimeout = 0 }},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutDownTimeout = 0 }},
		{"zero request timeout", func(c *Config) { c.Server.RequestTimeout = 0 }},
		{"zero remote timeout", func(c *Config) { c.Remote.Timeout = 0 }},
		{"zero entry TTL", func(c *Config) { c.Cache.EntryTTL = 0 }},
		{"zero sweep interval", func(c *Config) { c.Cache.SweepInterval = 0 }},
		{"zero persist interval", func(c *Config) { c.Filters.PersistInterval = 0 }},
		{"zero scope cache TTL", func(c *Config) { c.Scope.CacheTTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.validate(); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestConfig_Validate_UnknownBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Remote.Backend = "carrier-pigeon"
	if err := cfg.validate(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestConfig_Validate_HTTPBackendRequiresBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Remote.BaseURL = ""
	if err := cfg.validate(); err == nil {
		t.Error("expected error for http backend without base URL")
	}

	// The memory backend does not need a base URL.
	cfg.Remote.Backend = "memory"
	if err := cfg.validate(); err != nil {
		t.Errorf("expected memory backend without base URL to be valid, got: %v", err)
	}
}

func TestConfig_Validate_EmptyFiltersPath(t *testing.T) {
	cfg := validConfig()
	cfg.Filters.FilePath = ""
	if err := cfg.validate(); err == nil {
		t.Error("expected error for empty filters file path")
	}
}

func TestConfig_Validate_NegativeRetryCount(t *testing.T) {
	cfg := validConfig()
	cfg.Remote.RetryCount = -1
	if err := cfg.validate(); err == nil {
		t.Error("expected error for negative retry count")
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	_ = os.Setenv("TEST_ENV_VAR", "custom_value")
	defer func() { _ = os.Unsetenv("TEST_ENV_VAR") }()

	if got := getEnvOrDefault("TEST_ENV_VAR", "default_value"); got != "custom_value" {
		t.Errorf("expected 'custom_value', got '%s'", got)
	}

	if got := getEnvOrDefault("NONEXISTENT_VAR", "default_value"); got != "default_value" {
		t.Errorf("expected 'default_value', got '%s'", got)
	}
}

func TestGetEnvOrViperPort_FromEnv(t *testing.T) {
	_ = os.Setenv("TEST_PORT", "9090")
	defer func() { _ = os.Unsetenv("TEST_PORT") }()

	port, err := getEnvOrViperPort("TEST_PORT", "server.port")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if port != 9090 {
		t.Errorf("expected 9090, got %d", port)
	}
}

func TestGetEnvOrViperPort_InvalidEnv(t *testing.T) {
	_ = os.Setenv("TEST_PORT_INVALID", "not_a_number")
	defer func() { _ = os.Unsetenv("TEST_PORT_INVALID") }()

	if _, err := getEnvOrViperPort("TEST_PORT_INVALID", "server.port"); err == nil {
		t.Error("expected error for invalid port")
	}
}

func TestLoadConfig_WithValidDefaults(t *testing.T) {
	tempDir := t.TempDir()

	_ = os.Setenv("INSIGHTS_CONFIG_PATH", tempDir)
	_ = os.Setenv("INSIGHTS_FILTERS_FILE_PATH", tempDir+"/data/filters.json")
	defer func() {
		_ = os.Unsetenv("INSIGHTS_CONFIG_PATH")
		_ = os.Unsetenv("INSIGHTS_FILTERS_FILE_PATH")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error loading config, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.Server.Port <= 0 {
		t.Errorf("expected positive port, got %d", cfg.Server.Port)
	}
	if cfg.Remote.Backend != "http" {
		t.Errorf("expected default backend 'http', got '%s'", cfg.Remote.Backend)
	}
	if cfg.Cache.EntryTTL <= 0 {
		t.Error("expected positive cache entry TTL")
	}
	if cfg.Filters.PersistInterval <= 0 {
		t.Error("expected positive filters persist interval")
	}
}

func TestLoadConfig_WithCustomPort(t *testing.T) {
	tempDir := t.TempDir()

	_ = os.Setenv("INSIGHTS_CONFIG_PATH", tempDir)
	_ = os.Setenv("INSIGHTS_FILTERS_FILE_PATH", tempDir+"/data/filters.json")
	_ = os.Setenv("PORT", "9999")
	defer func() {
		_ = os.Unsetenv("INSIGHTS_CONFIG_PATH")
		_ = os.Unsetenv("INSIGHTS_FILTERS_FILE_PATH")
		_ = os.Unsetenv("PORT")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error loading config, got: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Server.Port)
	}
}

func TestLoadConfig_EnvOverridesDottedKeys(t *testing.T) {
	tempDir := t.TempDir()

	_ = os.Setenv("INSIGHTS_CONFIG_PATH", tempDir)
	_ = os.Setenv("INSIGHTS_FILTERS_FILE_PATH", tempDir+"/data/filters.json")
	_ = os.Setenv("INSIGHTS_MISC_LOG_LEVEL", "debug")
	_ = os.Setenv("INSIGHTS_REMOTE_RETRY_COUNT", "7")
	defer func() {
		_ = os.Unsetenv("INSIGHTS_CONFIG_PATH")
		_ = os.Unsetenv("INSIGHTS_FILTERS_FILE_PATH")
		_ = os.Unsetenv("INSIGHTS_MISC_LOG_LEVEL")
		_ = os.Unsetenv("INSIGHTS_REMOTE_RETRY_COUNT")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error loading config, got: %v", err)
	}
	if cfg.Misc.LogLevel != "debug" {
		t.Errorf("expected log level 'debug' from env, got '%s'", cfg.Misc.LogLevel)
	}
	if cfg.Remote.RetryCount != 7 {
		t.Errorf("expected retry count 7 from env, got %d", cfg.Remote.RetryCount)
	}
}

func TestLoadConfig_WithInvalidPort(t *testing.T) {
	tempDir := t.TempDir()

	_ = os.Setenv("INSIGHTS_CONFIG_PATH", tempDir)
	_ = os.Setenv("PORT", "not_a_port")
	defer func() {
		_ = os.Unsetenv("INSIGHTS_CONFIG_PATH")
		_ = os.Unsetenv("PORT")
	}()

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for invalid port, got nil")
	}
}

func TestLoadConfig_CreatesFiltersFile(t *testing.T) {
	tempDir := t.TempDir()
	filtersPath := tempDir + "/data/filters.json"

	_ = os.Setenv("INSIGHTS_CONFIG_PATH", tempDir)
	_ = os.Setenv("INSIGHTS_FILTERS_FILE_PATH", filtersPath)
	defer func() {
		_ = os.Unsetenv("INSIGHTS_CONFIG_PATH")
		_ = os.Unsetenv("INSIGHTS_FILTERS_FILE_PATH")
	}()

	if _, err := os.Stat(filtersPath); !os.IsNotExist(err) {
		t.Fatal("expected filters file to not exist initially")
	}

	if _, err := LoadConfig(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	content, err := os.ReadFile(filtersPath)
	if err != nil {
		t.Fatalf("failed to read filters file: %v", err)
	}
	if string(content) != "{}" {
		t.Errorf("expected '{}', got '%s'", string(content))
	}
}

func TestLoadConfig_UsesExistingFiltersFile(t *testing.T) {
	tempDir := t.TempDir()
	dataDir := tempDir + "/data"
	filtersPath := dataDir + "/filters.json"

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("failed to create data dir: %v", err)
	}
	existingContent := `{"version":1,"entries":{}}`
	if err := os.WriteFile(filtersPath, []byte(existingContent), 0o644); err != nil {
		t.Fatalf("failed to write filters file: %v", err)
	}

	_ = os.Setenv("INSIGHTS_CONFIG_PATH", tempDir)
	_ = os.Setenv("INSIGHTS_FILTERS_FILE_PATH", filtersPath)
	defer func() {
		_ = os.Unsetenv("INSIGHTS_CONFIG_PATH")
		_ = os.Unsetenv("INSIGHTS_FILTERS_FILE_PATH")
	}()

	if _, err := LoadConfig(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	content, err := os.ReadFile(filtersPath)
	if err != nil {
		t.Fatalf("failed to read filters file: %v", err)
	}
	if string(content) != existingContent {
		t.Errorf("expected '%s', got '%s'", existingContent, string(content))
	}
}
