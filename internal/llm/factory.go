package llm

import (
	"fmt"
	"time"
)

// FactoryOptions selects and configures a provider.
type FactoryOptions struct {
	// Provider is "openai", "ollama", or "" for automatic selection.
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

// NewProvider builds a chat provider. With no explicit provider, OpenAI is
// chosen when an API key is present, otherwise a local Ollama server.
func NewProvider(opts FactoryOptions) (Provider, error) {
	provider := opts.Provider
	if provider == "" {
		if opts.APIKey != "" {
			provider = "openai"
		} else {
			provider = "ollama"
		}
	}

	switch provider {
	case "openai":
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:  opts.APIKey,
			BaseURL: opts.BaseURL,
			Model:   opts.Model,
			Timeout: opts.Timeout,
		})
	case "ollama":
		return NewOllamaProvider(OllamaConfig{
			BaseURL: opts.BaseURL,
			Model:   opts.Model,
			Timeout: opts.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q (expected openai or ollama)", provider)
	}
}
