// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the TOML configuration file, with env overrides applied.
type Config struct {
	OpenAIKey   string `toml:"openai_api_key"`
	OpenAIModel string `toml:"openai_model"`
	DataDir     string `toml:"data_dir"`
	LogLevel    string `toml:"log_level"`
}

// Load reads a TOML config from the given path and applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("stat config: %w", err)
		}
	}

	// Env wins over the file.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAIModel = v
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	return cfg, nil
}
