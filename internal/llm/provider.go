// Package llm provides chat completion clients for answer generation.
package llm

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single generation request.
const DefaultTimeout = 120 * time.Second

// Message is a single chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options holds generation parameters.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Provider generates a chat completion from a list of messages.
type Provider interface {
	Chat(ctx context.Context, messages []Message, opts Options) (string, error)
	ModelName() string
	Close() error
}
