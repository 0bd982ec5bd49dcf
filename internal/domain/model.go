// Package domain defines the core entities and value objects for aicoder.
//
// The domain layer is independent of infrastructure concerns; it carries the
// data that flows between the Ollama transport, the streaming pipeline and the
// agent-mode execution loop.
package domain

import "fmt"

// ModelProfile describes a model declared in the config file together with its
// generation parameters. The zero values of the sampling fields are replaced by
// Ollama's own defaults when left unset.
type ModelProfile struct {
	Name          string  `yaml:"name"`
	ContextWindow int     `yaml:"context_window"`
	MaxTokens     int     `yaml:"max_tokens"`
	Temperature   float64 `yaml:"temperature"`
	TopP          float64 `yaml:"top_p"`
	TopK          int     `yaml:"top_k"`
	NumKeep       int     `yaml:"num_keep"`
}

// NewModelProfile builds a profile with the default sampling parameters.
func NewModelProfile(name string, contextWindow, maxTokens int) ModelProfile {
	return ModelProfile{
		Name:          name,
		ContextWindow: contextWindow,
		MaxTokens:     maxTokens,
		Temperature:   0.7,
		TopP:          0.9,
		TopK:          40,
		NumKeep:       4,
	}
}

// WithTemperature returns a copy with the temperature clamped to [0, 2].
func (m ModelProfile) WithTemperature(temperature float64) ModelProfile {
	m.Temperature = clamp(temperature, 0, 2)
	return m
}

// WithTopP returns a copy with top_p clamped to [0, 1].
func (m ModelProfile) WithTopP(topP float64) ModelProfile {
	m.TopP = clamp(topP, 0, 1)
	return m
}

// Validate checks the profile for configurations that cannot work.
func (m ModelProfile) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	if m.ContextWindow <= 0 {
		return fmt.Errorf("model %s: context window must be > 0", m.Name)
	}
	if m.MaxTokens <= 0 {
		return fmt.Errorf("model %s: max tokens must be > 0", m.Name)
	}
	if m.MaxTokens > m.ContextWindow {
		return fmt.Errorf("model %s: max tokens cannot exceed context window", m.Name)
	}
	return nil
}

// CheckPromptFits estimates the prompt's token count (roughly four characters
// per token) and rejects prompts that cannot fit alongside the generation
// budget.
func (m ModelProfile) CheckPromptFits(prompt string) error {
	estimated := len(prompt)/4 + m.MaxTokens
	if estimated > m.ContextWindow {
		return &ContextOverflowError{Model: m.Name, Tokens: estimated, MaxTokens: m.ContextWindow}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
