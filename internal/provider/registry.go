package provider

import (
	"fmt"
	"sort"
)

// Factory creates providers.
type Factory func(cfg Config) (Provider, error)

// DefaultModels maps provider names to their default models.
var DefaultModels = map[string]string{
	NameAnthropic: "claude-sonnet-4-5-20250929",
	NameOpenAI:    "gpt-4o",
	NameGemini:    "gemini-2.5-flash",
}

// Provider identifiers.
const (
	NameAnthropic = "anthropic"
	NameOpenAI    = "openai"
	NameGemini    = "gemini"
)

var registry = map[string]Factory{}

// New creates a provider by name.
func New(name string, cfg Config) (Provider, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s (available: %v)", name, Names())
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModels[name]
	}
	return factory(cfg)
}

// Register adds a custom provider factory.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// Names returns the sorted list of registered providers.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
