// Package config loads runtime configuration from an optional YAML file
// with environment overrides on top. API keys are environment-only so a
// committed config file can never leak credentials.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Backend configures one remote generation or transcription provider.
type Backend struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// Meili configures the optional review search index.
type Meili struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"-"`
	Index  string `yaml:"index"`
}

// Config is the full runtime configuration.
type Config struct {
	Addr         string  `yaml:"addr"`
	DBPath       string  `yaml:"db_path"`
	LogLevel     string  `yaml:"log_level"`
	DefaultCount int     `yaml:"default_count"`
	Environment  string  `yaml:"environment"`
	Anthropic    Backend `yaml:"anthropic"`
	OpenAI       Backend `yaml:"openai"`
	Groq         Backend `yaml:"groq"`
	Whisper      Backend `yaml:"whisper"`
	Meili        Meili   `yaml:"meili"`
}

// Default returns the configuration used when no file and no environment
// overrides are present. The pipeline still works with it: the local
// engine needs no credentials.
func Default() Config {
	return Config{
		Addr:         ":8787",
		DBPath:       "adstudio.db",
		LogLevel:     "info",
		DefaultCount: 10,
		Environment:  "development",
		Anthropic:    Backend{Model: "claude-haiku-4-5-20251001"},
		OpenAI:       Backend{Model: "gpt-4o-mini"},
		Groq: Backend{
			Model:   "llama-3.3-70b-versatile",
			BaseURL: "https://api.groq.com/openai/v1",
		},
		Whisper: Backend{Model: "whisper-1"},
		Meili:   Meili{Index: "reviews"},
	}
}

// Load reads path (when it exists) over the defaults, then applies
// environment overrides. A missing file is not an error; a malformed one
// is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = 10
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Addr, "ADSTUDIO_ADDR")
	setString(&c.DBPath, "ADSTUDIO_DB")
	setString(&c.LogLevel, "ADSTUDIO_LOG_LEVEL")
	setString(&c.Environment, "ADSTUDIO_ENV")
	setInt(&c.DefaultCount, "ADSTUDIO_COUNT")

	setString(&c.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setString(&c.Anthropic.Model, "ADSTUDIO_ANTHROPIC_MODEL")
	setString(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.OpenAI.Model, "ADSTUDIO_OPENAI_MODEL")
	setString(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&c.Groq.APIKey, "GROQ_API_KEY")
	setString(&c.Groq.Model, "ADSTUDIO_GROQ_MODEL")
	setString(&c.Groq.BaseURL, "GROQ_BASE_URL")
	setString(&c.Whisper.APIKey, "OPENAI_API_KEY")
	setString(&c.Whisper.Model, "ADSTUDIO_WHISPER_MODEL")

	setString(&c.Meili.Host, "MEILI_HOST")
	setString(&c.Meili.APIKey, "MEILI_API_KEY")
	setString(&c.Meili.Index, "MEILI_INDEX")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
