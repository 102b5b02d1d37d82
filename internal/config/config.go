// Package config provides configuration loading for the OCR extractor.
// Supports YAML files, .env files, environment variables, and flag overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the OCR extractor.
type Config struct {
	OCR OCRConfig `yaml:"ocr"`
	Log LogConfig `yaml:"log"`
}

// OCRConfig holds recognition and rasterization settings.
type OCRConfig struct {
	DefaultDPI         int           `yaml:"default_dpi"`
	MinDPI             int           `yaml:"min_dpi"`
	MaxDPI             int           `yaml:"max_dpi"`
	DefaultLang        string        `yaml:"default_lang"`
	SupportedLanguages []string      `yaml:"supported_languages"` // empty accepts any code
	Timeout            time.Duration `yaml:"timeout"`             // 0 disables the limit
	PageSegMode        int           `yaml:"page_seg_mode"`
	TessdataPrefix     string        `yaml:"tessdata_prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads configuration from an optional YAML file, then applies .env and
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	_ = godotenv.Load() // Ignore error if .env doesn't exist

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with the stock defaults.
func DefaultConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			DefaultDPI:  300,
			MinDPI:      72,
			MaxDPI:      2000,
			DefaultLang: "spa",
			Timeout:     120 * time.Second,
			PageSegMode: 3,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.OCR.MinDPI < 1 {
		return fmt.Errorf("min_dpi must be positive, got %d", c.OCR.MinDPI)
	}

	if c.OCR.MaxDPI < c.OCR.MinDPI {
		return fmt.Errorf("max_dpi (%d) must not be lower than min_dpi (%d)", c.OCR.MaxDPI, c.OCR.MinDPI)
	}

	if c.OCR.DefaultDPI < c.OCR.MinDPI || c.OCR.DefaultDPI > c.OCR.MaxDPI {
		return fmt.Errorf("default_dpi must be between %d and %d, got %d", c.OCR.MinDPI, c.OCR.MaxDPI, c.OCR.DefaultDPI)
	}

	if strings.TrimSpace(c.OCR.DefaultLang) == "" {
		return fmt.Errorf("default_lang cannot be empty")
	}

	if c.OCR.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	if c.OCR.PageSegMode < 0 || c.OCR.PageSegMode > 13 {
		return fmt.Errorf("page_seg_mode must be between 0 and 13, got %d", c.OCR.PageSegMode)
	}

	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		env string
		dst *int
	}{
		{"OCR_DEFAULT_DPI", &cfg.OCR.DefaultDPI},
		{"OCR_MIN_DPI", &cfg.OCR.MinDPI},
		{"OCR_MAX_DPI", &cfg.OCR.MaxDPI},
		{"OCR_PAGE_SEG_MODE", &cfg.OCR.PageSegMode},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %q", o.env, v)
		}
		*o.dst = n
	}

	if v := os.Getenv("OCR_DEFAULT_LANG"); v != "" {
		cfg.OCR.DefaultLang = v
	}

	if v := os.Getenv("OCR_SUPPORTED_LANGUAGES"); v != "" {
		cfg.OCR.SupportedLanguages = splitList(v)
	}

	if v := os.Getenv("OCR_TIMEOUT"); v != "" {
		d, err := ParseTimeout(v)
		if err != nil {
			return fmt.Errorf("invalid OCR_TIMEOUT: %w", err)
		}
		cfg.OCR.Timeout = d
	}

	if v := os.Getenv("TESSDATA_PREFIX"); v != "" {
		cfg.OCR.TessdataPrefix = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	return nil
}

// ParseTimeout accepts either a plain number of seconds or a Go duration.
func ParseTimeout(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
