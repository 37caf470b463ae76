package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/km-arc/go-container/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func setEnv(t *testing.T, key, val string) {
	t.Helper()
	t.Setenv(key, val) // automatically restored after test
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	// No env set → verify all defaults
	cfg := config.Load("testdata/empty.env")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"App.Name", cfg.App.Name, "GoContainer"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Port", cfg.App.Port, "8000"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "console"},
		{"Log.Output", cfg.Log.Output, "stdout"},
		{"Inspector.Prefix", cfg.Inspector.Prefix, "/_container"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}

	if cfg.Inspector.Enabled {
		t.Error("the inspector should be disabled by default")
	}
	if !cfg.Log.Timestamp {
		t.Error("timestamps should be on by default")
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	setEnv(t, "APP_NAME", "MyApp")
	setEnv(t, "APP_ENV", "production")
	setEnv(t, "APP_PORT", "9000")
	setEnv(t, "LOG_LEVEL", "debug")
	setEnv(t, "LOG_FORMAT", "json")
	setEnv(t, "LOG_NO_COLOR", "true")
	setEnv(t, "CONTAINER_INSPECTOR", "true")
	setEnv(t, "CONTAINER_INSPECTOR_PREFIX", "/debug/container")

	cfg := config.Load("testdata/empty.env")

	if cfg.App.Name != "MyApp" {
		t.Errorf("App.Name: got %q want %q", cfg.App.Name, "MyApp")
	}
	if cfg.App.Env != "production" {
		t.Errorf("App.Env: got %q want %q", cfg.App.Env, "production")
	}
	if cfg.App.Port != "9000" {
		t.Errorf("App.Port: got %q want %q", cfg.App.Port, "9000")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" || !cfg.Log.NoColor {
		t.Errorf("Log: got %+v", cfg.Log)
	}
	if !cfg.Inspector.Enabled || cfg.Inspector.Prefix != "/debug/container" {
		t.Errorf("Inspector: got %+v", cfg.Inspector)
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := writeEnvFile(t, "APP_NAME=FromFile\nCONTAINER_INSPECTOR=true\n")
	// godotenv writes into the process environment; undo it for later tests.
	t.Cleanup(func() {
		os.Unsetenv("APP_NAME")
		os.Unsetenv("CONTAINER_INSPECTOR")
	})

	cfg := config.Load(path)

	if cfg.App.Name != "FromFile" {
		t.Errorf("App.Name: got %q want %q", cfg.App.Name, "FromFile")
	}
	if !cfg.Inspector.Enabled {
		t.Error("expected the inspector to be enabled from the file")
	}
}

func TestLoad_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	setEnv(t, "APP_PORT", "7000")
	path := writeEnvFile(t, "APP_PORT=1234\n")

	if got := config.Load(path).App.Port; got != "7000" {
		t.Errorf("App.Port: got %q want %q", got, "7000")
	}
}

func TestLoad_AppDebugTrue(t *testing.T) {
	setEnv(t, "APP_DEBUG", "true")
	cfg := config.Load()
	if !cfg.App.Debug {
		t.Error("expected App.Debug to be true")
	}
}

func TestLoad_AppDebugFalse(t *testing.T) {
	setEnv(t, "APP_DEBUG", "false")
	cfg := config.Load()
	if cfg.App.Debug {
		t.Error("expected App.Debug to be false")
	}
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet_ReturnsValue(t *testing.T) {
	setEnv(t, "CUSTOM_KEY", "hello")
	if got := config.Get("CUSTOM_KEY", "default"); got != "hello" {
		t.Errorf("got %q want %q", got, "hello")
	}
}

func TestGet_ReturnsFallback(t *testing.T) {
	os.Unsetenv("MISSING_KEY")
	if got := config.Get("MISSING_KEY", "fallback"); got != "fallback" {
		t.Errorf("got %q want %q", got, "fallback")
	}
}

func TestGetInt_ReturnsInt(t *testing.T) {
	setEnv(t, "SOME_INT", "42")
	if got := config.GetInt("SOME_INT", 0); got != 42 {
		t.Errorf("got %d want %d", got, 42)
	}
}

func TestGetInt_ReturnsFallbackOnInvalid(t *testing.T) {
	setEnv(t, "SOME_INT", "notanint")
	if got := config.GetInt("SOME_INT", 99); got != 99 {
		t.Errorf("got %d want %d", got, 99)
	}
}

func TestGetBool_True(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		setEnv(t, "BOOL_KEY", val)
		if !config.GetBool("BOOL_KEY", false) {
			t.Errorf("expected true for %q", val)
		}
	}
}

func TestGetBool_False(t *testing.T) {
	setEnv(t, "BOOL_KEY", "false")
	if config.GetBool("BOOL_KEY", true) {
		t.Error("expected false")
	}
}

func TestGetBool_ReturnsFallbackOnInvalid(t *testing.T) {
	setEnv(t, "BOOL_KEY", "notabool")
	if config.GetBool("BOOL_KEY", true) != true {
		t.Error("expected fallback true")
	}
}
