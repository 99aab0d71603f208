package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, ev := range envVars {
		t.Setenv(ev.name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"api_key": "key-from-file",
		"tier": "advanced",
		"port": 9000,
		"max_input_chars": 20000,
		"disable_ai": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "key-from-file", cfg.APIKey)
	assert.Equal(t, "advanced", cfg.Tier)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 20000, cfg.MaxInputChars)
	assert.True(t, cfg.DisableAI)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key-from-env")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("PORT", "7000")

	path := writeConfig(t, `{"api_key": "key-from-file", "log_mode": "prod"}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "key-from-file", cfg.APIKey, "file wins over env")
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL, "env fills what the file left empty")
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "prod", cfg.LogMode)
	assert.Equal(t, DefaultTier, cfg.Tier, "defaults fill the rest")
	assert.Equal(t, DefaultMaxInputChars, cfg.MaxInputChars)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("RESUME_DISABLE_AI", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.DisableAI)
	assert.Equal(t, DefaultPort, cfg.Port)
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")

	_, err := Load("")
	assert.ErrorContains(t, err, "invalid PORT")
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeConfig(t, `{"tier": "huge"}`))
	assert.ErrorContains(t, err, "config error")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "empty", cfg: Config{}},
		{name: "defaults", cfg: Defaults()},
		{name: "bad log mode", cfg: Config{LogMode: "verbose"}, wantErr: true},
		{name: "bad log level", cfg: Config{LogLevel: "trace"}, wantErr: true},
		{name: "port out of range", cfg: Config{Port: 70000}, wantErr: true},
		{name: "input cap too small", cfg: Config{MaxInputChars: 10}, wantErr: true},
		{name: "concurrency too high", cfg: Config{Concurrency: 500}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{APIKey: "mine", Port: 9000}
	merged := cfg.MergeWithDefaults(Config{APIKey: "theirs", Model: "gemini-2.5-pro", Port: 1, Concurrency: 8})

	assert.Equal(t, "mine", merged.APIKey)
	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "gemini-2.5-pro", merged.Model)
	assert.Equal(t, 8, merged.Concurrency)
	assert.Equal(t, Config{APIKey: "mine", Port: 9000}, cfg, "receiver is not modified")
}
