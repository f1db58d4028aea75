// Package config loads the service configuration from an optional JSON
// file, environment variables, and a .env file.
package config

import "time"

// Config represents the main service configuration
type Config struct {
	// Server
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Redis
	Redis RedisConfig `json:"redis" mapstructure:"redis"`

	// AI
	AI AIConfig `json:"ai" mapstructure:"ai"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `json:"host" mapstructure:"host"`
	Port           int      `json:"port" mapstructure:"port"`
	AllowedOrigins []string `json:"allowed_origins" mapstructure:"allowed_origins"`
}

// RedisConfig holds remote conversation store configuration. An empty URL
// selects the in-memory fallback store.
type RedisConfig struct {
	URL          string `json:"url" mapstructure:"url"`
	DialTimeout  int    `json:"dial_timeout" mapstructure:"dial_timeout"`   // seconds
	ReadTimeout  int    `json:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout int    `json:"write_timeout" mapstructure:"write_timeout"` // seconds
}

// AIConfig holds LLM provider configuration
type AIConfig struct {
	Provider       string `json:"provider" mapstructure:"provider"` // openai, anthropic
	APIKey         string `json:"api_key" mapstructure:"api_key"`
	Model          string `json:"model" mapstructure:"model"`
	GuardrailModel string `json:"guardrail_model" mapstructure:"guardrail_model"`
	MaxIterations  int    `json:"max_iterations" mapstructure:"max_iterations"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	File   string `json:"file" mapstructure:"file"`
	Pretty bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Redis: RedisConfig{
			DialTimeout:  3,
			ReadTimeout:  3,
			WriteTimeout: 3,
		},
		AI: AIConfig{
			Provider:       "openai",
			Model:          "gpt-4.1",
			GuardrailModel: "gpt-4.1-mini",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DialTimeoutDuration returns the dial timeout as a duration.
func (c RedisConfig) DialTimeoutDuration() time.Duration {
	return time.Duration(c.DialTimeout) * time.Second
}

// ReadTimeoutDuration returns the read timeout as a duration.
func (c RedisConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns the write timeout as a duration.
func (c RedisConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}
