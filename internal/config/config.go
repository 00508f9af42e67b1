// Package config loads hayer settings: built-in defaults, then an optional
// YAML file, then HAYER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB      DBConfig      `mapstructure:"db"`
	API     APIConfig     `mapstructure:"api"`
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
	Learner LearnerConfig `mapstructure:"learner"`
}

type DBConfig struct {
	// Path of the SQLite database. Empty means the default location.
	Path string `mapstructure:"path"`
}

// APIConfig points at the attempt backend. An empty BaseURL keeps
// attempts local.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

type LearnerConfig struct {
	HeartsMax int `mapstructure:"hearts_max"`

	// LegacyOneBasedAudio reads audio_choice_tts answerIndex values as
	// 1-based without a per-exercise indexBase flag.
	LegacyOneBasedAudio bool `mapstructure:"legacy_one_based_audio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.path", "")

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.retry.max_attempts", 3)
	v.SetDefault("api.retry.initial_wait", 500*time.Millisecond)
	v.SetDefault("api.retry.max_wait", 5*time.Second)
	v.SetDefault("api.retry.multiplier", 2.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", true)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("learner.hearts_max", 5)
	v.SetDefault("learner.legacy_one_based_audio", false)
}

// Load reads the configuration. With an empty path the file is looked up
// as config.yaml in DefaultDir and may be absent; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("HAYER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("api.base_url", "HAYER_API_BASE_URL", "HAYER_API_URL")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if dir, err := DefaultDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// HAYER_DB names the "db" section itself under AutomaticEnv, which
	// hides db.path from viper, so it is applied by hand.
	if p := os.Getenv("HAYER_DB"); p != "" {
		cfg.DB.Path = p
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would break the recorder or the learner store.
func (c *Config) Validate() error {
	var errs []error
	if c.Learner.HeartsMax <= 0 {
		errs = append(errs, fmt.Errorf("learner.hearts_max must be positive, got %d", c.Learner.HeartsMax))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative, got %s", c.API.Timeout))
	}
	r := c.API.Retry
	if r.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("api.retry.max_attempts must be at least 1, got %d", r.MaxAttempts))
	}
	if r.InitialWait < 0 || r.MaxWait < 0 {
		errs = append(errs, errors.New("api.retry waits must not be negative"))
	}
	if r.MaxWait > 0 && r.InitialWait > r.MaxWait {
		errs = append(errs, fmt.Errorf("api.retry.initial_wait %s exceeds max_wait %s", r.InitialWait, r.MaxWait))
	}
	if r.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("api.retry.multiplier must be at least 1, got %g", r.Multiplier))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultDir returns $XDG_CONFIG_HOME/hayer, falling back to ~/.config/hayer.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hayer"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "hayer"), nil
}
