// Package config loads runtime configuration from a YAML file, a local
// .env file, and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the settings used for a single run.
type Config struct {
	Role    string `mapstructure:"role"`
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	APIBase string `mapstructure:"api_base"`
}

const (
	DefaultRole       = "Developer"
	DefaultModel      = "gemini-2.5-flash"
	DefaultAPIBase    = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultConfigName = ".gemmit"

	// EnvAPIKey is the environment variable holding the Gemini API key,
	// read from the process environment or a .env file in the working
	// directory.
	EnvAPIKey = "GEMINI_API_KEY"
)

// InitConfig wires up viper. When cfgFile is empty, $HOME/.gemmit.yaml is
// used if present; a missing config file is not an error.
func InitConfig(cfgFile string) error {
	// A .env next to the repository takes effect before env bindings
	// are resolved.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to locate home directory: %w", err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(DefaultConfigName)
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("role", DefaultRole)
	viper.SetDefault("model", DefaultModel)
	viper.SetDefault("api_base", DefaultAPIBase)
	viper.SetDefault("api_key", "")

	if err := viper.BindEnv("api_key", EnvAPIKey); err != nil {
		return fmt.Errorf("failed to bind %s: %w", EnvAPIKey, err)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		if cfgFile == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration. An unmarshal failure (for
// example a mistyped value in the config file) is reported rather than
// papered over with defaults, which would drop the env-bound API key.
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}
