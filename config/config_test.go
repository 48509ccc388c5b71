package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"LESSONPIPE_API_URL", "LESSONPIPE_OUTPUT_DIR", "GEMINI_API_KEY", "GEMINI_MODEL", "OLLAMA_URL", "PORT", "LOG_MODE"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ExportDelay != DefaultExportDelay || cfg.Port != "8080" || cfg.Gemini.Model != "gemini-1.5-pro" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
	if !errors.Is(cfg.RequireGenerator(), ErrNoGenerator) {
		t.Error("expected ErrNoGenerator without API URL or key")
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "lessonpipe.yaml")
	data := []byte(`
api_url: http://file.example/generate
export_delay: 250ms
port: "9000"
gemini:
  model: gemini-file
  temperature: 0.5
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GEMINI_MODEL", "gemini-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://file.example/generate" || !cfg.UsesRemote() {
		t.Errorf("expected api_url from file, got %q", cfg.APIURL)
	}
	if cfg.ExportDelay != 250*time.Millisecond {
		t.Errorf("expected 250ms delay, got %s", cfg.ExportDelay)
	}
	if cfg.Gemini.Model != "gemini-env" {
		t.Errorf("expected env to override file, got %q", cfg.Gemini.Model)
	}
	if cfg.Gemini.MaxOutputTokens != DefaultMaxOutputTokens {
		t.Errorf("expected unset fields to keep defaults, got %d", cfg.Gemini.MaxOutputTokens)
	}
	if cfg.RequireGenerator() != nil {
		t.Error("remote URL should satisfy generator requirement")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative delay", func(c *Config) { c.ExportDelay = -time.Second }},
		{"bad port", func(c *Config) { c.Port = "http" }},
		{"port range", func(c *Config) { c.Port = "70000" }},
		{"temperature", func(c *Config) { c.Gemini.Temperature = 3 }},
		{"tokens", func(c *Config) { c.Gemini.MaxOutputTokens = 0 }},
		{"log mode", func(c *Config) { c.LogMode = "verbose" }},
		{"shutdown", func(c *Config) { c.ShutdownTimeout = 0 }},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
