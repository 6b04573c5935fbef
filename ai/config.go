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


package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how answers are produced.
type Mode string

const (
	// ModeAuto uses the external generator when an API key is configured.
	ModeAuto Mode = "auto"
	// ModeRules always uses the rule-based extractors.
	ModeRules Mode = "rules"
	// ModeLLM requires the external generator.
	ModeLLM Mode = "llm"
)

// ParseMode converts a string to a Mode. Empty input yields ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeRules, ModeLLM:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Config holds configuration for the external answer generator.
type Config struct {
	// BaseURL is the OpenAI-compatible API root. Empty means the public OpenAI API.
	// Example: "http://localhost:11434/v1" for a local server
	BaseURL string

	// APIKey authenticates against the API. In ModeAuto an empty key
	// disables the generator.
	APIKey string

	// Model is the chat model identifier.
	// Example: "gpt-4o-mini", "qwen2.5:3b"
	Model string

	// Mode selects rule-based or generated answers.
	// Default: ModeAuto
	Mode Mode

	// MaxTokens caps the generated answer length.
	// Default: 200
	MaxTokens int

	// Temperature is the sampling temperature.
	// Default: 0
	Temperature float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the API root.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithModel sets the chat model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithMode sets the answer mode.
func WithMode(mode Mode) ConfigOption {
	return func(c *Config) {
		c.Mode = mode
	}
}

// WithMaxTokens sets the answer length cap.
func WithMaxTokens(n int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// DefaultConfig returns a Config with defaults for the public OpenAI API.
func DefaultConfig() *Config {
	return &Config{
		Model:     "gpt-4o-mini",
		Mode:      ModeAuto,
		MaxTokens: 200,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    WithModel("gpt-4o-mini"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// A custom BaseURL gets the /v1 suffix most OpenAI-compatible servers expect.
func (c *Config) Normalize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/v1") {
		c.BaseURL = strings.TrimSuffix(c.BaseURL, "/") + "/v1"
	}
	if c.Mode == "" {
		c.Mode = ModeAuto
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	if _, err := ParseMode(string(c.Mode)); err != nil {
		return fmt.Errorf("ai config: %w", err)
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.MaxTokens < 1 {
		return errors.New("ai config: MaxTokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	return nil
}
