// Package config resolves settings from defaults, an optional config.yaml, FORMBUDDY_* env vars
// and command-line flags, in increasing order of precedence.
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

const (
	EnvPrefix    = "FORMBUDDY"
	EnvConfigDir = "FORMBUDDY_CONFIG_DIR"
	FileName     = "config.yaml"
)

type Config struct {
	Dir     string    `mapstructure:"dir" json:"dir"`
	Backend string    `mapstructure:"backend" json:"backend"`
	Key     string    `mapstructure:"key" json:"key"`
	Format  string    `mapstructure:"format" json:"format"`
	Pretty  bool      `mapstructure:"pretty" json:"pretty"`
	Sort    string    `mapstructure:"sort" json:"sort"`
	Log     LogConfig `mapstructure:"log" json:"log"`
	TUI     TUIConfig `mapstructure:"tui" json:"tui"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" json:"file,omitempty"`
}

type LogConfig struct {
	Level    string `mapstructure:"level" json:"level"`
	Encoding string `mapstructure:"encoding" json:"encoding"`
	File     string `mapstructure:"file" json:"file,omitempty"`
}

type TUIConfig struct {
	Detail bool `mapstructure:"detail" json:"detail"`
}

// Dir is where config.yaml lives and, unless overridden, where tasks are stored.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvConfigDir)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".formbuddy"), nil
}

// flagKeys maps flag names to config keys for flags whose name differs from the key.
var flagKeys = map[string]string{
	"log-level": "log.level",
}

// Load resolves the effective config. path names an explicit config file (which must exist);
// when empty, <Dir()>/config.yaml is read if present. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := f.Name
			if k, ok := flagKeys[f.Name]; ok {
				key = k
			}
			if !isKnownKey(key) {
				return
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}

	file, err := readConfigFile(v, path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = file

	if strings.TrimSpace(cfg.Dir) == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		cfg.Dir = dir
	}
	cfg.Dir = filepath.Clean(cfg.Dir)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dir", "")
	v.SetDefault("backend", "sqlite")
	v.SetDefault("key", "bir_tasks")
	v.SetDefault("format", "json")
	v.SetDefault("pretty", false)
	v.SetDefault("sort", "deadline")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("tui.detail", true)
}

func isKnownKey(key string) bool {
	switch key {
	case "dir", "backend", "key", "format", "pretty", "sort", "log.level", "log.encoding", "log.file", "tui.detail":
		return true
	}
	return false
}

func readConfigFile(v *viper.Viper, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file: %w", err)
		}
		return path, nil
	}

	dir, err := Dir()
	if err != nil {
		return "", nil
	}
	def := filepath.Join(dir, FileName)
	if _, err := os.Stat(def); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	v.SetConfigFile(def)
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
	return def, nil
}

// LogPath is where the TUI sends its log when log.file is unset.
func (c *Config) LogPath() string {
	if f := strings.TrimSpace(c.Log.File); f != "" {
		return f
	}
	return filepath.Join(c.Dir, "formbuddy.log")
}
