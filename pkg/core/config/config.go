// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Archive ArchiveConfig `yaml:"archive"`
	LLM     LLMConfig     `yaml:"llm"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig selects the store backend and its parameters.
type StorageConfig struct {
	Type   string            `yaml:"type"`   // "memory" (default), "sqlite" or "postgres"
	Params map[string]string `yaml:"params"` // backend-specific, e.g. "path", "dsn"
}

// ArchiveConfig selects the export archive backend.
type ArchiveConfig struct {
	Type   string            `yaml:"type"`   // "memory" (default), "filesystem" or "s3"
	Params map[string]string `yaml:"params"` // backend-specific, e.g. "dir", "bucket"
}

// LLMConfig configures the optional prompt test-drive endpoint.
type LLMConfig struct {
	Endpoint string        `yaml:"endpoint"` // e.g. "https://api.openai.com/v1"
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"` // e.g. "gpt-4o-mini"
	Timeout  time.Duration `yaml:"timeout"`
}

// Enabled reports whether a completion endpoint is configured.
func (c LLMConfig) Enabled() bool {
	return c.Endpoint != "" || c.APIKey != ""
}

// LoggingConfig contains log output configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info" (default), "warn", "error"
	Format string `yaml:"format"` // "text" (default) or "json"
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 60 * time.Second,
		},
	}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg
}

// Environment variables override file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PROMPTLAB_STORAGE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("PROMPTLAB_SQLITE_PATH"); v != "" {
		cfg.Storage.Type = "sqlite"
		cfg.Storage.Params = withParam(cfg.Storage.Params, "path", v)
	}
	if v := os.Getenv("PROMPTLAB_POSTGRES_DSN"); v != "" {
		cfg.Storage.Type = "postgres"
		cfg.Storage.Params = withParam(cfg.Storage.Params, "dsn", v)
	}
	if v := os.Getenv("PROMPTLAB_ARCHIVE_DIR"); v != "" {
		cfg.Archive.Type = "filesystem"
		cfg.Archive.Params = withParam(cfg.Archive.Params, "dir", v)
	}
	if v := os.Getenv("PROMPTLAB_S3_BUCKET"); v != "" {
		cfg.Archive.Type = "s3"
		cfg.Archive.Params = withParam(cfg.Archive.Params, "bucket", v)
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_ENDPOINT"); v != "" {
		cfg.LLM.Endpoint = v
	}
	if v := os.Getenv("PROMPTLAB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 60 * time.Second
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "memory"
	}
	if cfg.Archive.Type == "" {
		cfg.Archive.Type = "memory"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func withParam(params map[string]string, key, value string) map[string]string {
	if params == nil {
		params = make(map[string]string)
	}
	params[key] = value
	return params
}
