// Package config resolves application settings from viper (config file,
// VMS_* environment variables and bound flags).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Setting keys.
const (
	KeyLogLevel        = "logging.level"
	KeyLogFormat       = "logging.format"
	KeyModelMinSize    = "model.min_size"
	KeyModelPath       = "model.default_path"
	KeyStoragePath     = "storage.path"
	KeyCacheTTL        = "cache.ttl"
	KeyMetricsTextfile = "metrics.textfile"
	KeyStrict          = "predict.strict"
	KeyFallbackRules   = "predict.fallback_rules"
	KeyNoCache         = "predict.no_cache"
	KeyMinConfidence   = "rules.min_confidence"
)

// Settings is the resolved application configuration.
type Settings struct {
	LogLevel        string
	LogFormat       string
	ModelPath       string
	StoragePath     string
	MetricsTextfile string
	ModelMinSize    int64
	CacheTTL        time.Duration
	MinConfidence   float64
	Strict          bool
	FallbackRules   bool
	NoCache         bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "error")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyModelMinSize, 10000)
	v.SetDefault(KeyCacheTTL, 2*time.Hour)
	v.SetDefault(KeyMinConfidence, 0.3)
}

// Load reads Settings from v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		LogLevel:        v.GetString(KeyLogLevel),
		LogFormat:       v.GetString(KeyLogFormat),
		ModelPath:       ExpandPath(v.GetString(KeyModelPath)),
		StoragePath:     ExpandPath(v.GetString(KeyStoragePath)),
		MetricsTextfile: ExpandPath(v.GetString(KeyMetricsTextfile)),
		ModelMinSize:    v.GetInt64(KeyModelMinSize),
		CacheTTL:        v.GetDuration(KeyCacheTTL),
		MinConfidence:   v.GetFloat64(KeyMinConfidence),
		Strict:          v.GetBool(KeyStrict),
		FallbackRules:   v.GetBool(KeyFallbackRules),
		NoCache:         v.GetBool(KeyNoCache),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks settings for values no component can work with.
func (s Settings) Validate() error {
	if s.ModelMinSize < 0 {
		return fmt.Errorf("%s must not be negative, got %d", KeyModelMinSize, s.ModelMinSize)
	}
	if s.CacheTTL < 0 {
		return fmt.Errorf("%s must not be negative, got %s", KeyCacheTTL, s.CacheTTL)
	}
	if s.MinConfidence < 0 || s.MinConfidence > 1 {
		return fmt.Errorf("%s must be within [0,1], got %g", KeyMinConfidence, s.MinConfidence)
	}
	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}
