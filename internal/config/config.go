// Package config loads settings from defaults, a .env file, an optional YAML
// file and HAR_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "HAR_"

// Defaults
const (
	DefaultPreviewMaxChars = 80
	DefaultCacheMaxItems   = 16
	DefaultColor           = "auto"
)

// DefaultQueryStringExcludes are the query parameters hidden by the ECS preset.
var DefaultQueryStringExcludes = []string{
	"_",
	"countToFetch",
	"sortBy",
	"sortOrder",
	"startFrom",
}

// DefaultHeaderExcludes are the headers hidden by the ECS preset.
var DefaultHeaderExcludes = []string{
	"Access-Control-Allow-Headers",
	"Access-Control-Allow-Origin",
	"Access-Control-Expose-Headers",
	"Date",
	"Server",
	"Transfer-Encoding",
	"X-Barco-notification-channel",
	"Origin",
	"Accept-Encoding",
	"Accept-Language",
	"Authorization",
	"Cache-Control",
	"Connection",
	"Cookie",
	"DNT",
	"Host",
	"Pragma",
	"Referer",
	"User-Agent",
	"X-Barco-resource",
	"X-Requested-With",
}

// Config holds all settings.
type Config struct {
	ShortURL            bool     `yaml:"short_url"`             // HAR_SHORT_URL, default true
	ExpandPrivate       bool     `yaml:"expand_private"`        // HAR_EXPAND_PRIVATE, default false
	PreviewMaxChars     int      `yaml:"preview_max_chars"`     // HAR_PREVIEW_MAX_CHARS, default 80
	QueryStringExcludes []string `yaml:"query_string_excludes"` // HAR_QUERY_STRING_EXCLUDES, comma separated
	HeaderExcludes      []string `yaml:"header_excludes"`       // HAR_HEADER_EXCLUDES, comma separated
	Color               string   `yaml:"color"`                 // HAR_COLOR: auto, always or never
	CacheMaxItems       int      `yaml:"cache_max_items"`       // HAR_CACHE_MAX_ITEMS, default 16

	Log LogConfig `yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `yaml:"level"`        // HAR_LOG_LEVEL, default "warn"
	File       string `yaml:"file"`         // HAR_LOG_FILE, default "" (stderr only)
	MaxSizeMB  int    `yaml:"max_size_mb"`  // HAR_LOG_MAX_SIZE_MB, default 10
	MaxBackups int    `yaml:"max_backups"`  // HAR_LOG_MAX_BACKUPS, default 3
	MaxAgeDays int    `yaml:"max_age_days"` // HAR_LOG_MAX_AGE_DAYS, default 28
	Compress   bool   `yaml:"compress"`     // HAR_LOG_COMPRESS, default true
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ShortURL:            true,
		ExpandPrivate:       false,
		PreviewMaxChars:     DefaultPreviewMaxChars,
		QueryStringExcludes: append([]string(nil), DefaultQueryStringExcludes...),
		HeaderExcludes:      append([]string(nil), DefaultHeaderExcludes...),
		Color:               DefaultColor,
		CacheMaxItems:       DefaultCacheMaxItems,
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
	}
}

// Load builds the configuration. A .env file in the working directory is
// loaded first without overriding variables already set. path names an
// optional YAML file; empty skips it. Environment variables win over both.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ShortURL = getEnvBool("SHORT_URL", c.ShortURL)
	c.ExpandPrivate = getEnvBool("EXPAND_PRIVATE", c.ExpandPrivate)
	c.PreviewMaxChars = getEnvInt("PREVIEW_MAX_CHARS", c.PreviewMaxChars)
	c.QueryStringExcludes = getEnvList("QUERY_STRING_EXCLUDES", c.QueryStringExcludes)
	c.HeaderExcludes = getEnvList("HEADER_EXCLUDES", c.HeaderExcludes)
	c.Color = getEnvString("COLOR", c.Color)
	c.CacheMaxItems = getEnvInt("CACHE_MAX_ITEMS", c.CacheMaxItems)

	c.Log.Level = getEnvString("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnvString("LOG_FILE", c.Log.File)
	c.Log.MaxSizeMB = getEnvInt("LOG_MAX_SIZE_MB", c.Log.MaxSizeMB)
	c.Log.MaxBackups = getEnvInt("LOG_MAX_BACKUPS", c.Log.MaxBackups)
	c.Log.MaxAgeDays = getEnvInt("LOG_MAX_AGE_DAYS", c.Log.MaxAgeDays)
	c.Log.Compress = getEnvBool("LOG_COMPRESS", c.Log.Compress)
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.PreviewMaxChars < 1 {
		return fmt.Errorf("preview_max_chars must be positive, got %d", c.PreviewMaxChars)
	}
	if c.CacheMaxItems < 1 {
		return fmt.Errorf("cache_max_items must be positive, got %d", c.CacheMaxItems)
	}
	switch strings.ToLower(c.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	return nil
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string, defaultVal []string) []string {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return defaultVal
	}
	out := []string{}
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
