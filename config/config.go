// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	BaseDir   string `mapstructure:"basedir"`
	Game      string `mapstructure:"game"`
	Database  string `mapstructure:"database"`
	CacheSize int    `mapstructure:"cache_size"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load reads the configuration from cfgFile or, if empty, from q3level.yaml in
// the home or working directory. A missing default file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("basedir", ".")
	v.SetDefault("game", "baseq3")
	v.SetDefault("database", "levels.db")
	v.SetDefault("cache_size", 8)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix("q3level")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName("q3level")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.CacheSize < 1 {
		return nil, fmt.Errorf("cache_size must be positive, got %d", cfg.CacheSize)
	}
	return &cfg, nil
}
