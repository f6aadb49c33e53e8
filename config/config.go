package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type Config struct {
	AppName string `yaml:"app_name" envconfig:"APP_NAME" validate:"required"`
	AppEnv  string `yaml:"app_env" envconfig:"APP_ENV"`

	WeatherAPIKey   string        `yaml:"weather_api_key" envconfig:"WEATHER_API_KEY" validate:"required"`
	WeatherLang     string        `yaml:"weather_lang" envconfig:"WEATHER_LANG" validate:"required"`
	PostalBaseURL   string        `yaml:"postal_base_url" envconfig:"POSTAL_BASE_URL" validate:"required,url"`
	GeocoderBaseURL string        `yaml:"geocoder_base_url" envconfig:"GEOCODER_BASE_URL" validate:"required,url"`
	WeatherBaseURL  string        `yaml:"weather_base_url" envconfig:"WEATHER_BASE_URL" validate:"required,url"`
	UserAgent       string        `yaml:"user_agent" envconfig:"USER_AGENT" validate:"required"`
	HTTPTimeout     time.Duration `yaml:"http_timeout" envconfig:"HTTP_TIMEOUT" validate:"gt=0"`

	LocationCacheFile string        `yaml:"location_cache_file" envconfig:"LOCATION_CACHE_FILE" validate:"required"`
	WeatherCacheFile  string        `yaml:"weather_cache_file" envconfig:"WEATHER_CACHE_FILE" validate:"required"`
	LocationCacheTTL  time.Duration `yaml:"location_cache_ttl" envconfig:"LOCATION_CACHE_TTL" validate:"gt=0"`
	WeatherCacheTTL   time.Duration `yaml:"weather_cache_ttl" envconfig:"WEATHER_CACHE_TTL" validate:"gt=0"`

	Notifier       string        `yaml:"notifier" envconfig:"NOTIFIER" validate:"oneof=terminal desktop"`
	NotifyDuration time.Duration `yaml:"notify_duration" envconfig:"NOTIFY_DURATION" validate:"gte=0"`

	LogLevel  string `yaml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT" validate:"oneof=json console"`
	LogFile   string `yaml:"log_file" envconfig:"LOG_FILE"`
	SentryDSN string `yaml:"sentry_dsn" envconfig:"SENTRY_DSN"`
}

// Default returns the built-in configuration. The weather API key has no default.
func Default() *Config {
	cacheDir := defaultCacheDir()

	return &Config{
		AppName:           "wxballoon",
		AppEnv:            "local",
		WeatherLang:       "ja",
		PostalBaseURL:     "https://madefor.github.io/postal-code-api/api/v1",
		GeocoderBaseURL:   "https://nominatim.openstreetmap.org/search",
		WeatherBaseURL:    "https://api.weatherapi.com/v1/forecast.json",
		UserAgent:         "wxballoon/1.0 (https://github.com/thrashem/WXballoon)",
		HTTPTimeout:       15 * time.Second,
		LocationCacheFile: filepath.Join(cacheDir, "wxballoon_postal_cache.json"),
		WeatherCacheFile:  filepath.Join(cacheDir, "wxballoon_weather_cache.json"),
		LocationCacheTTL:  30 * 24 * time.Hour,
		WeatherCacheTTL:   time.Hour,
		Notifier:          "terminal",
		NotifyDuration:    10 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
	}
}

// Load layers Default, the YAML file at path (if present), .env and the environment.
func Load(path string) (*Config, error) {
	cnf := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := loadFromFile(path, cnf); err != nil {
		return nil, err
	}

	if err := envconfig.Process("", cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	if err := Validate(cnf); err != nil {
		return nil, err
	}

	return cnf, nil
}

func loadFromFile(path string, cnf *Config) error {
	if path == "" {
		return nil
	}

	yamlData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(yamlData, cnf); err != nil {
		return fmt.Errorf("failed to parse YAML config %s: %w", path, err)
	}

	return nil
}

var validate = validator.New()

func Validate(cnf *Config) error {
	if err := validate.Struct(cnf); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "wxballoon")
	}
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	return "."
}
