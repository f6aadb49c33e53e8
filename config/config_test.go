package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "test-key")

	cnf, err := Load("nonexistent.yaml")
	require.NoError(t, err)

	assert.Equal(t, "wxballoon", cnf.AppName)
	assert.Equal(t, "test-key", cnf.WeatherAPIKey)
	assert.Equal(t, "ja", cnf.WeatherLang)
	assert.Equal(t, 720*time.Hour, cnf.LocationCacheTTL)
	assert.Equal(t, time.Hour, cnf.WeatherCacheTTL)
	assert.Equal(t, 10*time.Second, cnf.NotifyDuration)
	assert.Equal(t, "terminal", cnf.Notifier)
	assert.Equal(t, "https://api.weatherapi.com/v1/forecast.json", cnf.WeatherBaseURL)
	assert.Equal(t, "wxballoon_postal_cache.json", filepath.Base(cnf.LocationCacheFile))
	assert.Equal(t, "wxballoon_weather_cache.json", filepath.Base(cnf.WeatherCacheFile))
}

func TestLoad_YAMLThenEnvironment(t *testing.T) {
	path := writeYAML(t, `
weather_api_key: from-yaml
notifier: desktop
weather_cache_ttl: 30m
log_level: debug
`)
	t.Setenv("WEATHER_API_KEY", "")
	require.NoError(t, os.Unsetenv("WEATHER_API_KEY"))
	t.Setenv("LOG_LEVEL", "warn")

	cnf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-yaml", cnf.WeatherAPIKey)
	assert.Equal(t, "desktop", cnf.Notifier)
	assert.Equal(t, 30*time.Minute, cnf.WeatherCacheTTL)
	assert.Equal(t, "warn", cnf.LogLevel)
	// untouched keys keep their defaults
	assert.Equal(t, 720*time.Hour, cnf.LocationCacheTTL)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "")

	_, err := Load("nonexistent.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WeatherAPIKey")
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeYAML(t, "notifier: [unterminated")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML config")
}

func TestLoad_BadEnvironmentValue(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "k")
	t.Setenv("HTTP_TIMEOUT", "soon")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error environment variable parsing")
}

func TestValidate(t *testing.T) {
	cnf := Default()
	cnf.WeatherAPIKey = "k"
	require.NoError(t, Validate(cnf))

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"unknown notifier", func(c *Config) { c.Notifier = "pigeon" }, "Notifier"},
		{"bad url", func(c *Config) { c.PostalBaseURL = "not a url" }, "PostalBaseURL"},
		{"zero ttl", func(c *Config) { c.WeatherCacheTTL = 0 }, "WeatherCacheTTL"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "LogFormat"},
		{"empty cache path", func(c *Config) { c.LocationCacheFile = "" }, "LocationCacheFile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.WeatherAPIKey = "k"
			tt.mutate(c)

			err := Validate(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
