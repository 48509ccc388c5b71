// Package config loads lessonpipe settings: defaults, then an optional
// YAML file, then environment variables. CLI flags are applied last by the
// commands themselves.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort            = "8080"
	DefaultExportDelay     = 100 * time.Millisecond
	DefaultShutdownTimeout = 15 * time.Second
	DefaultGeminiModel     = "gemini-1.5-pro"
	DefaultTemperature     = 0.35
	DefaultMaxOutputTokens = 1024
	DefaultOllamaURL       = "http://localhost:11434/api/embeddings"
)

// ErrNoGenerator is returned when neither a remote service nor a Gemini
// key is configured.
var ErrNoGenerator = errors.New("no content generator configured: set LESSONPIPE_API_URL or GEMINI_API_KEY")

// Gemini holds the model settings for direct generation.
type Gemini struct {
	APIKey          string  `yaml:"api_key"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
}

// Config is the full application configuration.
type Config struct {
	APIURL          string        `yaml:"api_url"`
	OutputDir       string        `yaml:"output_dir"`
	ExportDelay     time.Duration `yaml:"export_delay"`
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Gemini          Gemini        `yaml:"gemini"`
	OllamaURL       string        `yaml:"ollama_url"`
	LogMode         string        `yaml:"log_mode"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ExportDelay:     DefaultExportDelay,
		Port:            DefaultPort,
		ShutdownTimeout: DefaultShutdownTimeout,
		Gemini: Gemini{
			Model:           DefaultGeminiModel,
			Temperature:     DefaultTemperature,
			MaxOutputTokens: DefaultMaxOutputTokens,
		},
		OllamaURL: DefaultOllamaURL,
		LogMode:   "dev",
	}
}

// Load builds the configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.APIURL, "LESSONPIPE_API_URL")
	setFromEnv(&c.OutputDir, "LESSONPIPE_OUTPUT_DIR")
	setFromEnv(&c.Gemini.APIKey, "GEMINI_API_KEY")
	setFromEnv(&c.Gemini.Model, "GEMINI_MODEL")
	setFromEnv(&c.OllamaURL, "OLLAMA_URL")
	setFromEnv(&c.Port, "PORT")
	setFromEnv(&c.LogMode, "LOG_MODE")
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if c.ExportDelay < 0 {
		return fmt.Errorf("export_delay must not be negative (got %s)", c.ExportDelay)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive (got %s)", c.ShutdownTimeout)
	}
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("gemini temperature must be within [0, 2] (got %v)", c.Gemini.Temperature)
	}
	if c.Gemini.MaxOutputTokens <= 0 {
		return fmt.Errorf("gemini max_output_tokens must be positive (got %d)", c.Gemini.MaxOutputTokens)
	}
	switch c.LogMode {
	case "dev", "prod":
	default:
		return fmt.Errorf("log_mode must be dev or prod (got %q)", c.LogMode)
	}
	return nil
}

// RequireGenerator checks that some content generator is available.
func (c *Config) RequireGenerator() error {
	if c.APIURL == "" && c.Gemini.APIKey == "" {
		return ErrNoGenerator
	}
	return nil
}

// UsesRemote reports whether generation goes through the remote service.
func (c *Config) UsesRemote() bool {
	return c.APIURL != ""
}
