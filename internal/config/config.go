// Package config provides configuration types and helpers for logscrub.
package config

// Config holds the application-wide configuration.
type Config struct {
	Format          string             `mapstructure:"format"`
	Verbose         bool               `mapstructure:"verbose"`
	DefaultProvider string             `mapstructure:"default_provider"`
	Detection       DetectionConfig    `mapstructure:"detection"`
	Sanitization    SanitizationConfig `mapstructure:"sanitization"`
	Providers       ProvidersConfig    `mapstructure:"providers"`
}

// DetectionConfig toggles the local detector's pattern families.
// All categories are enabled by default.
type DetectionConfig struct {
	Emails    bool `mapstructure:"emails"`
	IPs       bool `mapstructure:"ips"`
	Hostnames bool `mapstructure:"hostnames"`
	APIKeys   bool `mapstructure:"api_keys"`
	GUIDs     bool `mapstructure:"guids"`
	SSHKeys   bool `mapstructure:"ssh_keys"`
}

// SanitizationConfig controls what the AI provider is instructed to preserve.
// These are advisory: they shape the prompt, they are not verified afterwards.
type SanitizationConfig struct {
	PreserveTimestamps bool `mapstructure:"preserve_timestamps"`
	PreserveLogLevels  bool `mapstructure:"preserve_log_levels"`
	PreserveStructure  bool `mapstructure:"preserve_structure"`
}

// ProvidersConfig holds per-provider connection settings.
type ProvidersConfig struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
	Azure  AzureConfig  `mapstructure:"azure"`
	Ollama OllamaConfig `mapstructure:"ollama"`
}

// OpenAIConfig holds settings for OpenAI-compatible hosted endpoints.
type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key"`  // Optional: read from OPENAI_API_KEY if empty
	Model          string `mapstructure:"model"`    // e.g. "gpt-4o"
	BaseURL        string `mapstructure:"base_url"` // Optional: for compatible endpoints
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// AzureConfig holds settings for Azure OpenAI deployments.
type AzureConfig struct {
	Endpoint       string `mapstructure:"endpoint"` // e.g. "https://myresource.openai.azure.com"
	APIKey         string `mapstructure:"api_key"`  // Optional: read from AZURE_OPENAI_API_KEY if empty
	Deployment     string `mapstructure:"deployment"`
	APIVersion     string `mapstructure:"api_version"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// OllamaConfig holds settings for a local Ollama instance.
type OllamaConfig struct {
	Host           string `mapstructure:"host"` // e.g. "http://localhost:11434"
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}
