package embedding

import (
	"fmt"
	"time"
)

// Provider identifies an embedding backend.
type Provider string

const (
	// ProviderONNX runs a local MiniLM ONNX model (requires CGO and onnxruntime).
	ProviderONNX Provider = "onnx"
	// ProviderOllama calls a local Ollama server over HTTP.
	ProviderOllama Provider = "ollama"
	// ProviderMock produces deterministic hash-based embeddings (tests only).
	ProviderMock Provider = "mock"
)

// Options configures NewEmbedder.
type Options struct {
	Provider   string
	ModelPath  string
	BaseURL    string
	Model      string
	Dimensions int
	MaxTokens  int
	CacheSize  int
	Timeout    time.Duration
}

// NewEmbedder creates the embedding backend named by opts.Provider.
// Supported providers: "onnx" (default), "ollama", "mock".
func NewEmbedder(opts Options) (Embedder, error) {
	switch Provider(opts.Provider) {
	case ProviderONNX, "":
		return NewONNXEmbedder(opts.ModelPath, opts.Dimensions, opts.MaxTokens, opts.CacheSize)
	case ProviderOllama:
		return NewOllamaEmbedder(OllamaConfig{
			BaseURL:    opts.BaseURL,
			Model:      opts.Model,
			Dimensions: opts.Dimensions,
			Timeout:    opts.Timeout,
		}, opts.CacheSize), nil
	case ProviderMock:
		return NewMockEmbedder(opts.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: onnx, ollama, mock)", opts.Provider)
	}
}
