// Package config provides configuration loading and validation for the
// unitconv service. Values come from defaults, an optional YAML file, and
// UNITCONV_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the full service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Template  TemplateConfig  `mapstructure:"template"`
	History   HistoryConfig   `mapstructure:"history"`
	Converter ConverterConfig `mapstructure:"converter"`
	Stats     StatsConfig     `mapstructure:"stats"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"             validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"required,min=1s,max=5m"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"required,min=1s,max=5m"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,min=1s,max=5m"`
	RateLimit       float64       `mapstructure:"rate_limit"       validate:"gt=0"`
	RateBurst       int           `mapstructure:"rate_burst"       validate:"gte=1"`
}

// LogConfig holds structured-log and access-log settings.
type LogConfig struct {
	Level      string `mapstructure:"level"       validate:"oneof=debug info warn error"`
	JSON       bool   `mapstructure:"json"`
	AccessPath string `mapstructure:"access_path" validate:"required"`
}

// TemplateConfig points at the page template on disk.
type TemplateConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// HistoryConfig bounds the in-memory conversion log.
type HistoryConfig struct {
	Size int `mapstructure:"size" validate:"gte=1,lte=100"`
}

// ConverterConfig holds the form defaults.
type ConverterConfig struct {
	DefaultCategory string `mapstructure:"default_category" validate:"oneof=length weight temperature volume"`
	DefaultAmount   int    `mapstructure:"default_amount"   validate:"gte=0"`
}

// StatsConfig controls the periodic service-stats job.
type StatsConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"required,min=10s,max=24h"`
}

// Load reads configuration from defaults, the YAML file at path (a missing
// file is fine), and UNITCONV_* environment variables, then validates the
// result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("UNITCONV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			// Missing config file is fine, defaults and env cover everything.
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", true)
	v.SetDefault("log.access_path", "responses.log")

	v.SetDefault("template.path", "templates/index.html")

	v.SetDefault("history.size", 5)

	v.SetDefault("converter.default_category", "length")
	v.SetDefault("converter.default_amount", 100)

	v.SetDefault("stats.interval", 5*time.Minute)
}
