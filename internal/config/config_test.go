package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, content string) string {
	tempDir := t.TempDir()
	tempFile := filepath.Join(tempDir, "config.yaml")
	err := os.WriteFile(tempFile, []byte(content), 0644)
	require.NoError(t, err, "Failed to create temporary config file")
	return tempFile
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, "/persistent/free-sleep-data/", cfg.Paths.Prod)
	assert.Equal(t, DefaultLocalDataPath, cfg.Paths.Local)
	assert.Equal(t, "http://127.0.0.1:3000", cfg.StatusAPI.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, int64(10*1024*1024), cfg.MaxSizeBytes())
	assert.Equal(t, 0, cfg.File.MaxBackups)
	assert.Equal(t, BackendSentry, cfg.Tracking.Backend)
	assert.False(t, cfg.Tracking.SendDefaultPII)
}

func TestLoadConfig_Valid(t *testing.T) {
	path := createTempConfigFile(t, `
paths:
  prod: /data/prod/
  local: /tmp/local/
file:
  max_size: 1MB
  max_backups: 2
status_api:
  base_url: http://localhost:4000
  timeout: 2s
tracking:
  backend: gelf
  gelf:
    host: graylog.local
    port: 12201
  ignore_messages:
    - "*connection reset*"
  rate_limit: 30
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/data/prod/", cfg.Paths.Prod)
	assert.Equal(t, "/tmp/local/", cfg.Paths.Local)
	assert.Equal(t, int64(1024*1024), cfg.MaxSizeBytes())
	assert.Equal(t, 2, cfg.File.MaxBackups)
	assert.Equal(t, "http://localhost:4000", cfg.StatusAPI.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout())
	assert.Equal(t, BackendGelf, cfg.Tracking.Backend)
	assert.Equal(t, "graylog.local", cfg.Tracking.Gelf.Host)
	assert.Equal(t, 12201, cfg.Tracking.Gelf.Port)
	assert.Equal(t, "udp", cfg.Tracking.Gelf.Protocol)
	assert.Equal(t, []string{"*connection reset*"}, cfg.Tracking.IgnoreMessages)
	assert.Equal(t, 30, cfg.Tracking.RateLimit)
	// Untouched sections keep their defaults
	assert.Equal(t, DefaultSentryDSN, cfg.Tracking.DSN)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name:    "bad yaml",
			content: "paths: [",
			errPart: "error parsing config file",
		},
		{
			name:    "unknown backend",
			content: "tracking:\n  backend: datadog\n",
			errPart: "oneof",
		},
		{
			name:    "negative backups",
			content: "file:\n  max_backups: -1\n",
			errPart: "gte",
		},
		{
			name:    "bad size",
			content: "file:\n  max_size: lots\n",
			errPart: "file.max_size",
		},
		{
			name:    "zero size",
			content: "file:\n  max_size: \"0\"\n",
			errPart: "must be positive",
		},
		{
			name:    "bad timeout",
			content: "status_api:\n  timeout: soon\n",
			errPart: "status_api.timeout",
		},
		{
			name:    "bad base url",
			content: "status_api:\n  base_url: not a url\n",
			errPart: "status_api.base_url",
		},
		{
			name:    "gelf without host",
			content: "tracking:\n  backend: gelf\n  gelf:\n    port: 12201\n",
			errPart: "tracking.gelf.host",
		},
		{
			name:    "gelf bad protocol",
			content: "tracking:\n  backend: gelf\n  gelf:\n    host: g\n    port: 1\n    protocol: http\n",
			errPart: "tracking.gelf.protocol",
		},
		{
			name:    "sentry without dsn",
			content: "tracking:\n  backend: sentry\n  dsn: \"\"\n",
			errPart: "tracking.dsn",
		},
		{
			name:    "bad ignore pattern",
			content: "tracking:\n  ignore_messages: [\"[unclosed\"]\n",
			errPart: "ignore_messages[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(createTempConfigFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Env(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("JOBLOG_CONFIG", "")
		t.Setenv("JOBLOG_STATUS_URL", "")

		cfg, envVars, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultStatusURL, cfg.StatusAPI.BaseURL)
		assert.False(t, envVars.InfoOnly())
	})

	t.Run("config path and overrides from env", func(t *testing.T) {
		path := createTempConfigFile(t, "paths:\n  prod: /srv/data/\n")
		t.Setenv("LOG_LEVEL", "INFO")
		t.Setenv("JOBLOG_CONFIG", path)
		t.Setenv("JOBLOG_STATUS_URL", "http://10.0.0.2:3000")

		cfg, envVars, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "/srv/data/", cfg.Paths.Prod)
		assert.Equal(t, "http://10.0.0.2:3000", cfg.StatusAPI.BaseURL)
		assert.True(t, envVars.InfoOnly())
	})

	t.Run("invalid status url", func(t *testing.T) {
		t.Setenv("JOBLOG_CONFIG", "")
		t.Setenv("JOBLOG_STATUS_URL", "::nope")

		_, _, err := Load("")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEnvVariablesNotValid)
	})
}

func TestEnv_InfoOnly(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"INFO", true},
		{"DEBUG", false},
		{"info", false},
		{"", false},
		{"WARNING", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Env{LogLevel: tt.level}.InfoOnly(), "LOG_LEVEL=%q", tt.level)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"5s", 5 * time.Second, false},
		{"1h30m", 90 * time.Minute, false},
		{"7d", 7 * 24 * time.Hour, false},
		{" 2D ", 48 * time.Hour, false},
		{"0d", 0, true},
		{"0s", 0, true},
		{"-1s", 0, true},
		{"xd", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"10MB", 10 * 1024 * 1024, false},
		{"10m", 10 * 1024 * 1024, false},
		{"5K", 5 * 1024, false},
		{"5kb", 5 * 1024, false},
		{"1G", 1024 * 1024 * 1024, false},
		{"2048", 2048, false},
		{"0", 0, false},
		{"-1MB", 0, true},
		{"", 0, true},
		{"ten", 0, true},
		{"99999999999999999999G", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
