package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, Default(), *cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeFile(t, "tlf.json", `{
		"origin": "https://www.gulesider.no",
		"locale": "en",
		"timeout": "3s",
		"output": "table",
		"concurrency": 4,
		"verbose": true
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.True(t, cfg.Verbose)
	// Untouched keys keep their defaults
	assert.Equal(t, Default().UserAgent, cfg.UserAgent)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "tlf.yaml", "locale: nn\nuse_browser: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nn", cfg.Locale)
	assert.True(t, cfg.UseBrowser)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "tlf.json", `{"locale": "en", "timeout": "3s"}`)
	t.Setenv("TLF_LOCALE", "nn")
	t.Setenv("TLF_TIMEOUT", "750ms")
	t.Setenv("TLF_USER_AGENT", "tlf-test")
	t.Setenv("TLF_RATE_LIMIT", "2.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nn", cfg.Locale)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "tlf-test", cfg.UserAgent)
	assert.InDelta(t, 2.5, cfg.RateLimit, 1e-9)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writeFile(t, "tlf.json", `{ invalid json }`)

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/tlf.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing origin", func(c *Config) { c.Origin = "" }, "origin"},
		{"relative origin", func(c *Config) { c.Origin = "gulesider" }, "origin"},
		{"numeric locale", func(c *Config) { c.Locale = "n1" }, "locale"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout"},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency"},
		{"too much concurrency", func(c *Config) { c.Concurrency = 17 }, "concurrency"},
		{"unknown output", func(c *Config) { c.Output = "xml" }, "output"},
		{"negative rate limit", func(c *Config) { c.RateLimit = -1 }, "rate_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Default()
	cfg.Output = "json"
	cfg.Concurrency = 16

	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		Locale:  "en",
		Timeout: 2 * time.Second,
		Verbose: true,
	}

	merged := partial.MergeWithDefaults(Default())

	// Custom values should be preserved
	assert.Equal(t, "en", merged.Locale)
	assert.Equal(t, 2*time.Second, merged.Timeout)
	assert.True(t, merged.Verbose)

	// Default values should fill in empty fields
	assert.Equal(t, "https://www.gulesider.no", merged.Origin)
	assert.Equal(t, "plain", merged.Output)
	assert.Equal(t, 1, merged.Concurrency)
	assert.NoError(t, merged.Validate())
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Locale: "en"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "en", merged.Locale)
	assert.Empty(t, merged.Origin)
}
