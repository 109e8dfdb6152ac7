package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"ENV", "LOG_LEVEL", "SERVER_PORT",
	"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
	"DATA_PATH", "DATABASE_PATH", "STORAGE_PATH", "IMAGE_BASE_URL",
	"CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"SWEEP_INTERVAL", "SWEEP_GRACE_PERIOD",
}

// clearEnv blanks every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Storage: StorageConfig{
			DatabasePath: "/data/readlog.db",
			FilesPath:    "/data/storage",
			ImageBaseURL: "http://localhost:8080/images",
		},
		RateLimit: RateLimitConfig{RPS: 5, Burst: 10},
		Sweep:     SweepConfig{Interval: time.Hour, GracePeriod: 15 * time.Minute},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dataDir := t.TempDir()

	cfg, err := Load([]string{"-env-file", filepath.Join(dataDir, "missing.env"), "-data-path", dataDir})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Empty(t, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, filepath.Join(dataDir, "readlog.db"), cfg.Storage.DatabasePath)
	assert.Equal(t, filepath.Join(dataDir, "storage"), cfg.Storage.FilesPath)
	assert.Equal(t, "http://localhost:8080/images", cfg.Storage.ImageBaseURL)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, time.Hour, cfg.Sweep.Interval)
	assert.Equal(t, 15*time.Minute, cfg.Sweep.GracePeriod)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SERVER_PORT=7000\nLOG_LEVEL=warn\nSWEEP_INTERVAL=0\n"), 0o644))

	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load([]string{
		"-env-file", envFile,
		"-data-path", dir,
		"-port", "9090",
		"-cors-origins", "https://a.example, https://b.example,",
		"-image-base-url", "https://cdn.example/images/",
	})
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port, "flag beats .env")
	assert.Equal(t, "debug", cfg.Logger.Level, "environment beats .env")
	assert.Equal(t, time.Duration(0), cfg.Sweep.Interval, ".env beats default")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "https://cdn.example/images", cfg.Storage.ImageBaseURL)
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SWEEP_GRACE_PERIOD", "soon")

	_, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "none"), "-data-path", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SWEEP_GRACE_PERIOD")
}

func TestLoad_UnknownFlag(t *testing.T) {
	clearEnv(t)
	_, err := Load([]string{"-metadata-path", "/tmp"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "production", mutate: func(c *Config) { c.App.Environment = "production" }},
		{name: "uppercase level", mutate: func(c *Config) { c.Logger.Level = "DEBUG" }},
		{name: "missing env", mutate: func(c *Config) { c.App.Environment = "" }, wantErr: "ENV is required"},
		{name: "unknown env", mutate: func(c *Config) { c.App.Environment = "test" }, wantErr: "invalid environment"},
		{name: "unknown level", mutate: func(c *Config) { c.Logger.Level = "trace" }, wantErr: "invalid log level"},
		{name: "empty database path", mutate: func(c *Config) { c.Storage.DatabasePath = "" }, wantErr: "storage paths"},
		{name: "relative image url", mutate: func(c *Config) { c.Storage.ImageBaseURL = "/images" }, wantErr: "image base url"},
		{name: "ftp image url", mutate: func(c *Config) { c.Storage.ImageBaseURL = "ftp://host/images" }, wantErr: "image base url"},
		{name: "rate limit disabled", mutate: func(c *Config) { c.RateLimit = RateLimitConfig{} }},
		{name: "zero burst", mutate: func(c *Config) { c.RateLimit.Burst = 0 }, wantErr: "invalid rate limit"},
		{name: "negative grace", mutate: func(c *Config) { c.Sweep.GracePeriod = -time.Second }, wantErr: "sweep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		def  string
		want string
	}{
		{name: "empty uses default", path: "", def: "/default", want: "/default"},
		{name: "tilde", path: "~/ReadLog", want: filepath.Join(homeDir, "ReadLog")},
		{name: "absolute", path: "/var/lib/readlog/../readlog", want: "/var/lib/readlog"},
		{name: "relative", path: "data", want: filepath.Join(cwd, "data")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.path, tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("READLOG_TEST_KEY", "env-value")

	assert.Equal(t, "flag-value", getConfigValue("flag-value", "READLOG_TEST_KEY", "default"))
	assert.Equal(t, "env-value", getConfigValue("", "READLOG_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "READLOG_MISSING_KEY", "default"))
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("READLOG_TEST_INT", "not-a-number")

	assert.Equal(t, 3, getIntConfigValue("3", "READLOG_TEST_INT", 7))
	assert.Equal(t, 7, getIntConfigValue("", "READLOG_TEST_INT", 7))
}

func TestLoadEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := `# ReadLog
READLOG_A=plain

  READLOG_B  =  spaced value
READLOG_C="double"
READLOG_D='single'
READLOG_KEEP=from-file
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	for _, key := range []string{"READLOG_A", "READLOG_B", "READLOG_C", "READLOG_D"} {
		t.Setenv(key, "")
	}
	t.Setenv("READLOG_KEEP", "from-env")

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "plain", os.Getenv("READLOG_A"))
	assert.Equal(t, "spaced value", os.Getenv("READLOG_B"))
	assert.Equal(t, "double", os.Getenv("READLOG_C"))
	assert.Equal(t, "single", os.Getenv("READLOG_D"))
	assert.Equal(t, "from-env", os.Getenv("READLOG_KEEP"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VALID=1\nNO EQUALS HERE\n"), 0o644))

	err := loadEnvFile(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format at line 2")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/file/.env"))
}
