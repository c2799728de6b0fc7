// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("default storage = %q", cfg.Storage.Type)
	}
	if cfg.Archive.Type != "memory" {
		t.Errorf("default archive = %q", cfg.Archive.Type)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("default logging = %+v", cfg.Logging)
	}
	if cfg.LLM.Enabled() {
		t.Error("llm must be disabled without endpoint or key")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
  timeout: 30s
storage:
  type: sqlite
  params:
    path: /tmp/promptlab.db
llm:
  endpoint: http://localhost:11434/v1
  model: llama3
logging:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 || cfg.Server.Timeout != 30*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Storage.Type != "sqlite" || cfg.Storage.Params["path"] != "/tmp/promptlab.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if !cfg.LLM.Enabled() || cfg.LLM.Model != "llama3" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	// Defaults fill untouched sections.
	if cfg.Archive.Type != "memory" {
		t.Errorf("archive = %+v", cfg.Archive)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PROMPTLAB_POSTGRES_DSN", "postgres://localhost/promptlab")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PROMPTLAB_LOG_LEVEL", "warn")

	path := writeConfig(t, `
storage:
  type: memory
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Type != "postgres" || cfg.Storage.Params["dsn"] != "postgres://localhost/promptlab" {
		t.Errorf("env must override storage, got %+v", cfg.Storage)
	}
	if cfg.LLM.APIKey != "sk-test" || !cfg.LLM.Enabled() {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
