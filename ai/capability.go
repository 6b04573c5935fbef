package ai

import "fmt"

// Capability is the answer mode resolved once at startup.
type Capability struct {
	Mode Mode

	// Enabled means answers should come from the generator.
	Enabled bool

	// Available means the generator is configured well enough to call.
	Available bool

	// Reason explains the resolution for logs and health output.
	Reason string
}

// ResolveCapability decides whether the external generator is used.
// cfg is not modified; the decision is made on a normalized copy.
//
//   - ModeRules never uses it.
//   - ModeAuto uses it iff an API key is set.
//   - ModeLLM always uses it; it is available with an API key or a custom BaseURL.
func ResolveCapability(cfg *Config) Capability {
	if cfg == nil {
		return Capability{Mode: ModeRules, Reason: "no generator configured"}
	}
	normalized := *cfg
	normalized.Normalize()
	cfg = &normalized

	switch cfg.Mode {
	case ModeRules:
		return Capability{Mode: ModeRules, Reason: "rule-based answers requested"}
	case ModeLLM:
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return Capability{Mode: ModeLLM, Enabled: true, Reason: "OPENAI_API_KEY is not set"}
		}
		return Capability{Mode: ModeLLM, Enabled: true, Available: true, Reason: "generator required"}
	default:
		if cfg.APIKey == "" {
			return Capability{Mode: ModeAuto, Reason: "OPENAI_API_KEY is not set"}
		}
		return Capability{Mode: ModeAuto, Enabled: true, Available: true, Reason: "OPENAI_API_KEY is set"}
	}
}

// UsesGenerator reports whether answers should be delegated and can be.
func (c Capability) UsesGenerator() bool {
	return c.Enabled && c.Available
}

// UnavailableAnswer is the answer returned when the generator is required
// but cannot be used.
func (c Capability) UnavailableAnswer() string {
	return fmt.Sprintf("The %s (%s).", ErrUnavailable, c.Reason)
}
