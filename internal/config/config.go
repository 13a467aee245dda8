// Package config loads service settings from defaults, an optional YAML file and the
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pfrederiksen/cricket-schedules/internal/scraper"
)

const DefaultPort = 8000

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type UpstreamConfig struct {
	URL       string        `mapstructure:"url" validate:"required,http_url"`
	UserAgent string        `mapstructure:"user_agent" validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// CacheConfig holds the TTLs of the raw HTML and parsed records slots, tracked independently
type CacheConfig struct {
	RawTTL    time.Duration `mapstructure:"raw_ttl" validate:"gt=0"`
	ParsedTTL time.Duration `mapstructure:"parsed_ttl" validate:"gt=0"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
}

// Addr returns the listen address for the configured port
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/cricket-schedules")
	}

	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("upstream.url", scraper.SchedulesURL)
	v.SetDefault("upstream.user_agent", scraper.UserAgent)
	v.SetDefault("upstream.timeout", scraper.Timeout)
	v.SetDefault("cache.raw_ttl", 60*time.Second)
	v.SetDefault("cache.parsed_ttl", 60*time.Second)
	v.SetDefault("log.level", "info")

	envBindings := map[string]string{
		"server.port":  "PORT",
		"upstream.url": "UPSTREAM_URL",
		"log.level":    "LOG_LEVEL",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
