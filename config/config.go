// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads memberqa settings from defaults, a YAML or TOML
// file, a .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/memberqa/ai"
)

// Built-in defaults.
const (
	DefaultTopK        = 5
	DefaultLogLevel    = "info"
	DefaultMessagesAPI = "https://november7-730026606190.europe-west1.run.app/messages"
	DefaultIndexPath   = "memberqa.db"
	DefaultListenAddr  = ":8000"
	DefaultMaxConns    = 256
)

// MessagesConfig locates the member messages.
type MessagesConfig struct {
	API         string  `yaml:"api" toml:"api"`
	Path        string  `yaml:"path" toml:"path"`
	TimeoutSecs int     `yaml:"timeout_secs" toml:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" toml:"rate_limit"`
	Burst       int     `yaml:"burst" toml:"burst"`
	MaxAttempts int     `yaml:"max_attempts" toml:"max_attempts"`
}

// Timeout returns the fetch timeout.
func (m MessagesConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSecs) * time.Second
}

// IndexConfig controls where corpus generations are persisted.
type IndexConfig struct {
	Path     string `yaml:"path" toml:"path"`
	InMemory bool   `yaml:"in_memory" toml:"in_memory"`
	Disabled bool   `yaml:"disabled" toml:"disabled"`
}

// LLMConfig configures the optional external answer service.
type LLMConfig struct {
	Mode        string  `yaml:"mode" toml:"mode"`
	Model       string  `yaml:"model" toml:"model"`
	BaseURL     string  `yaml:"base_url" toml:"base_url"`
	APIKey      string  `yaml:"api_key" toml:"api_key"`
	MaxTokens   int     `yaml:"max_tokens" toml:"max_tokens"`
	Temperature float64 `yaml:"temperature" toml:"temperature"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr                string `yaml:"addr" toml:"addr"`
	MaxConns            int    `yaml:"max_conns" toml:"max_conns"`
	ShutdownTimeoutSecs int    `yaml:"shutdown_timeout_secs" toml:"shutdown_timeout_secs"`
}

// ShutdownTimeout returns how long graceful shutdown may take.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSecs) * time.Second
}

// Config is the root application configuration.
type Config struct {
	TopK     int            `yaml:"top_k" toml:"top_k"`
	LogLevel string         `yaml:"log_level" toml:"log_level"`
	Messages MessagesConfig `yaml:"messages" toml:"messages"`
	Index    IndexConfig    `yaml:"index" toml:"index"`
	LLM      LLMConfig      `yaml:"llm" toml:"llm"`
	Server   ServerConfig   `yaml:"server" toml:"server"`
}

// Default returns the built-in configuration.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		TopK:     DefaultTopK,
		LogLevel: DefaultLogLevel,
		Messages: MessagesConfig{
			API:         DefaultMessagesAPI,
			TimeoutSecs: 10,
			RateLimit:   1,
			Burst:       1,
			MaxAttempts: 3,
		},
		Index: IndexConfig{
			Path: DefaultIndexPath,
		},
		LLM: LLMConfig{
			Mode:        string(aiDefaults.Mode),
			Model:       aiDefaults.Model,
			MaxTokens:   aiDefaults.MaxTokens,
			Temperature: aiDefaults.Temperature,
		},
		Server: ServerConfig{
			Addr:                DefaultListenAddr,
			MaxConns:            DefaultMaxConns,
			ShutdownTimeoutSecs: 10,
		},
	}
}

// Load reads a config file over the defaults. The format follows the file
// extension: .yaml/.yml or .toml. A missing file yields the defaults, and
// an empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables already set are not overridden and a missing file is ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv() error {
	return c.ApplyLookup(os.LookupEnv)
}

// ApplyLookup overrides settings from lookup, which has the signature of
// os.LookupEnv. Empty values are ignored.
func (c *Config) ApplyLookup(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("TOP_K"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: TOP_K=%q", ErrInvalidValue, v)
		}
		c.TopK = n
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := get("MESSAGES_API"); ok {
		c.Messages.API = v
	}
	if v, ok := get("MESSAGES_PATH"); ok {
		c.Messages.Path = v
	}
	// METADATA_PATH is the older name
	if v, ok := get("METADATA_PATH"); ok {
		c.Index.Path = v
	}
	if v, ok := get("INDEX_PATH"); ok {
		c.Index.Path = v
	}
	if v, ok := get("ANSWER_MODE"); ok {
		c.LLM.Mode = strings.ToLower(v)
	}
	if v, ok := get("OPENAI_API_KEY"); ok {
		c.LLM.APIKey = v
	}
	if v, ok := get("OPENAI_MODEL"); ok {
		c.LLM.Model = v
	}
	if v, ok := get("OPENAI_BASE_URL"); ok {
		c.LLM.BaseURL = v
	}
	if v, ok := get("LISTEN_ADDR"); ok {
		c.Server.Addr = v
	}
	return nil
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("config: top_k must be at least 1, got %d", c.TopK)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log_level must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	if c.Messages.API != "" {
		if u, err := url.Parse(c.Messages.API); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: messages.api is not an absolute URL: %q", c.Messages.API)
		}
	}
	if c.Messages.TimeoutSecs < 1 {
		return fmt.Errorf("config: messages.timeout_secs must be at least 1")
	}
	if c.Messages.RateLimit <= 0 {
		return fmt.Errorf("config: messages.rate_limit must be positive")
	}
	if c.Messages.MaxAttempts < 1 {
		return fmt.Errorf("config: messages.max_attempts must be at least 1")
	}
	if !c.Index.Disabled && !c.Index.InMemory && c.Index.Path == "" {
		return fmt.Errorf("config: index.path is required unless index.in_memory or index.disabled is set")
	}
	if c.Server.MaxConns < 1 {
		return fmt.Errorf("config: server.max_conns must be at least 1")
	}
	if err := c.AIConfig().Validate(); err != nil {
		return fmt.Errorf("config: llm: %w", err)
	}
	return nil
}

// AIConfig converts the llm section to a normalized ai.Config.
func (c *Config) AIConfig() *ai.Config {
	mode, err := ai.ParseMode(c.LLM.Mode)
	if err != nil {
		// Left as is so Validate reports it
		mode = ai.Mode(c.LLM.Mode)
	}
	cfg := ai.NewConfig(
		ai.WithMode(mode),
		ai.WithModel(c.LLM.Model),
		ai.WithBaseURL(c.LLM.BaseURL),
		ai.WithAPIKey(c.LLM.APIKey),
		ai.WithMaxTokens(c.LLM.MaxTokens),
		ai.WithTemperature(c.LLM.Temperature),
	)
	cfg.Normalize()
	return cfg
}
