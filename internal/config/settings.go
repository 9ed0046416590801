// Package config loads application settings and YAML input files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/thresholds"
)

// EnvPrefix prefixes every environment override, e.g. FUYOU_DATABASE_PATH
const EnvPrefix = "FUYOU"

// Setting keys
const (
	KeyDatabasePath       = "database.path"
	KeyCacheTTL           = "thresholds.cache_ttl"
	KeyThresholdsFallback = "thresholds.fallback"
	KeyLogLevel           = "logging.level"
	KeyLogFormat          = "logging.format"
)

// Settings is the resolved application configuration
type Settings struct {
	DatabasePath string
	CacheTTL     time.Duration
	FallbackJSON string
	LogLevel     string
	LogFormat    string
}

// DefaultDatabasePath is used when database.path is unset
func DefaultDatabasePath() string {
	return "~/.local/share/fuyou/fuyou.db"
}

// SetDefaults registers the default value of every setting
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath())
	v.SetDefault(KeyCacheTTL, thresholds.DefaultCacheTTL)
	v.SetDefault(KeyThresholdsFallback, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// NewViper builds a viper instance reading cfgFile, or config.yaml from
// $HOME/.config/fuyou and the working directory when cfgFile is empty.
// A missing config file is not an error.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "fuyou"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// Load resolves and validates settings from v
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		CacheTTL:     v.GetDuration(KeyCacheTTL),
		FallbackJSON: v.GetString(KeyThresholdsFallback),
		LogLevel:     strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:    strings.ToLower(v.GetString(KeyLogFormat)),
	}
	if s.FallbackJSON == "" {
		s.FallbackJSON = os.Getenv(thresholds.EnvFallbackVar)
	}

	if s.DatabasePath == "" {
		return nil, fmt.Errorf("%w: %s is required", ErrInvalidConfig, KeyDatabasePath)
	}
	if s.CacheTTL < 0 {
		return nil, fmt.Errorf("%w: %s cannot be negative", ErrInvalidConfig, KeyCacheTTL)
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("%w: invalid log level %q", ErrInvalidConfig, s.LogLevel)
	}
	switch s.LogFormat {
	case "console", "json":
	default:
		return nil, fmt.Errorf("%w: invalid log format %q", ErrInvalidConfig, s.LogFormat)
	}
	return s, nil
}

// EnvFallback parses the configured tier 2 thresholds. An empty setting yields nil.
func (s *Settings) EnvFallback() (domain.ThresholdMap, error) {
	return thresholds.ParseFallbackJSON(s.FallbackJSON)
}

// ExpandPath expands a leading ~ and environment variables in a file path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}
