// Package config loads client settings from an optional YAML file plus
// environment overrides.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is everything the client needs wired at startup.
type Config struct {
	BaseURL        string        `mapstructure:"base_url"`
	Storage        string        `mapstructure:"storage"` // "file" or "redis"
	DataDir        string        `mapstructure:"data_dir"`
	RedisAddr      string        `mapstructure:"redis_addr"`
	RedisPassword  string        `mapstructure:"redis_password"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Load reads config.yaml from dir when present; a missing file just means
// defaults. BOOKNCLEAN_* environment variables override either.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetDefault("base_url", "http://localhost:3000")
	v.SetDefault("storage", "file")
	v.SetDefault("data_dir", dir)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetEnvPrefix("booknclean")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config to struct: %w", err)
	}
	return &cfg, nil
}
