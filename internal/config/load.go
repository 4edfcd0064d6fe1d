package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load unmarshals the active viper state into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// SetDefaults registers the default configuration values with viper.
// Every detection category starts enabled; sanitization preserves log
// structure by default.
func SetDefaults() {
	viper.SetDefault("format", "text")
	viper.SetDefault("verbose", false)
	viper.SetDefault("default_provider", "")

	viper.SetDefault("detection.emails", true)
	viper.SetDefault("detection.ips", true)
	viper.SetDefault("detection.hostnames", true)
	viper.SetDefault("detection.api_keys", true)
	viper.SetDefault("detection.guids", true)
	viper.SetDefault("detection.ssh_keys", true)

	viper.SetDefault("sanitization.preserve_timestamps", true)
	viper.SetDefault("sanitization.preserve_log_levels", true)
	viper.SetDefault("sanitization.preserve_structure", true)

	viper.SetDefault("providers.openai.model", "gpt-4o-mini")
	viper.SetDefault("providers.azure.api_version", "2024-02-01")
	viper.SetDefault("providers.ollama.host", "http://localhost:11434")
	viper.SetDefault("providers.ollama.model", "llama3.2")
}
