// Package config loads runtime configuration from defaults, an optional
// YAML file and OCTYL_* environment variables.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/octyl/pkg/errors"
	"github.com/odvcencio/octyl/pkg/logging"
)

// EnvPrefix is the prefix for environment overrides (OCTYL_APP_TICK_RATE, ...).
const EnvPrefix = "OCTYL"

// Defaults.
const (
	DefaultAppTickRate    = 250 * time.Millisecond
	DefaultRenderTickRate = time.Second / 60
	DefaultShutdownGrace  = 500 * time.Millisecond
	DefaultErrorBurst     = 3
	DefaultErrorWindow    = time.Second
	DefaultLogLevel       = "info"
)

// Config holds runtime settings.
type Config struct {
	AppTickRate    time.Duration `yaml:"app_tick_rate" mapstructure:"app_tick_rate"`
	RenderTickRate time.Duration `yaml:"render_tick_rate" mapstructure:"render_tick_rate"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace" mapstructure:"shutdown_grace"`

	// Input stream errors beyond ErrorBurst within ErrorWindow escalate to shutdown.
	ErrorBurst  int           `yaml:"error_burst" mapstructure:"error_burst"`
	ErrorWindow time.Duration `yaml:"error_window" mapstructure:"error_window"`

	LogFile     string `yaml:"log_file" mapstructure:"log_file"`
	LogLevel    string `yaml:"log_level" mapstructure:"log_level"`
	MetricsAddr string `yaml:"metrics_addr" mapstructure:"metrics_addr"`
	Mouse       bool   `yaml:"mouse" mapstructure:"mouse"`
}

// Default returns a config populated with defaults.
func Default() Config {
	return Config{
		AppTickRate:    DefaultAppTickRate,
		RenderTickRate: DefaultRenderTickRate,
		ShutdownGrace:  DefaultShutdownGrace,
		ErrorBurst:     DefaultErrorBurst,
		ErrorWindow:    DefaultErrorWindow,
		LogLevel:       DefaultLogLevel,
		Mouse:          true,
	}
}

// Load reads configuration. An empty path or a missing file yields defaults
// plus environment overrides.
func Load(path string) (Config, error) {
	var cfg Config
	def := Default()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_tick_rate", def.AppTickRate)
	v.SetDefault("render_tick_rate", def.RenderTickRate)
	v.SetDefault("shutdown_grace", def.ShutdownGrace)
	v.SetDefault("error_burst", def.ErrorBurst)
	v.SetDefault("error_window", def.ErrorWindow)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("metrics_addr", def.MetricsAddr)
	v.SetDefault("mouse", def.Mouse)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) && !os.IsNotExist(err) {
				return cfg, errors.Wrap(err, errors.ErrCodeConfigLoad, "reading config").
					WithContext("path", path)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, errors.ErrCodeConfigLoad, "decoding config")
	}
	cfg.LogFile = expandHomeDir(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var problems []string
	if c.AppTickRate <= 0 {
		problems = append(problems, "app_tick_rate must be positive")
	}
	if c.RenderTickRate <= 0 {
		problems = append(problems, "render_tick_rate must be positive")
	}
	if c.ShutdownGrace <= 0 {
		problems = append(problems, "shutdown_grace must be positive")
	}
	if c.ErrorBurst < 1 {
		problems = append(problems, "error_burst must be at least 1")
	}
	if c.ErrorWindow <= 0 {
		problems = append(problems, "error_window must be positive")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeConfigInvalid, strings.Join(problems, "; "))
}

// Marshal renders the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}
