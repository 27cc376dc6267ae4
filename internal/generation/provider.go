package generation

import (
	"fmt"
	"strings"
)

// Provider names a language model service.
type Provider string

// Supported providers
const (
	// ProviderOpenRouter is a managed, OpenAI-compatible gateway
	ProviderOpenRouter Provider = "openrouter"
	// ProviderGemini is Google's managed Gemini API
	ProviderGemini Provider = "gemini"
	// ProviderOllama is a local Ollama server
	ProviderOllama Provider = "ollama"
)

// Providers lists every supported provider.
var Providers = []Provider{ProviderOpenRouter, ProviderGemini, ProviderOllama}

// ParseProvider converts a user-supplied name to a Provider. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

// IsManaged reports whether the provider is a remote service that requires a credential.
func (p Provider) IsManaged() bool {
	return p == ProviderOpenRouter || p == ProviderGemini
}

func (p Provider) String() string {
	return string(p)
}
