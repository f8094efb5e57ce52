// Package config loads portalnav settings from defaults, an optional
// portalnav.yaml, PORTALNAV_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the complete portalnav configuration.
type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Cache CacheConfig `mapstructure:"cache"`
	Scan  ScanConfig  `mapstructure:"scan"`
}

// LogConfig selects the zap logger setup.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// CacheConfig sizes the open archive cache.
type CacheConfig struct {
	Size int `mapstructure:"size"`
}

// ScanConfig controls classpath scanning.
type ScanConfig struct {
	Workers        int  `mapstructure:"workers"`
	FollowManifest bool `mapstructure:"follow-manifest"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Log:   LogConfig{Level: "info", Format: "console"},
		Cache: CacheConfig{Size: 32},
		Scan:  ScanConfig{Workers: 0, FollowManifest: false},
	}
}

// flagKeys maps persistent flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":       "log.level",
	"log-format":      "log.format",
	"cache-size":      "cache.size",
	"workers":         "scan.workers",
	"follow-manifest": "scan.follow-manifest",
}

func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("cache.size", def.Cache.Size)
	v.SetDefault("scan.workers", def.Scan.Workers)
	v.SetDefault("scan.follow-manifest", def.Scan.FollowManifest)

	v.SetEnvPrefix("PORTALNAV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration. When file is empty, portalnav.yaml is
// looked up in the working directory and in $HOME/.config/portalnav; a
// missing file is not an error. Flags that were set on the command line
// override everything else.
func Load(file string, flags *pflag.FlagSet) (Config, error) {
	v := newViper()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("portalnav")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "portalnav"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
