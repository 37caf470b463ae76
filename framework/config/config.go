package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/km-arc/go-container/framework/logging"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Log       logging.Config
	Inspector InspectorConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string
}

// InspectorConfig controls the read-only HTTP view over the container.
type InspectorConfig struct {
	Enabled bool
	Prefix  string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	cfg := &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoContainer"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			Port:  env("APP_PORT", "8000"),
		},
		Log: logging.Config{
			Level:     env("LOG_LEVEL", "info"),
			Format:    env("LOG_FORMAT", logging.FormatConsole),
			Output:    env("LOG_OUTPUT", "stdout"),
			NoColor:   envBool("LOG_NO_COLOR", false),
			Timestamp: envBool("LOG_TIMESTAMP", true),
		},
		Inspector: InspectorConfig{
			Enabled: envBool("CONTAINER_INSPECTOR", false),
			Prefix:  env("CONTAINER_INSPECTOR_PREFIX", "/_container"),
		},
	}
	cfg.Log.ApplyDefaults()
	return cfg
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
