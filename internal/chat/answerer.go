// Package chat answers recruiter questions using retrieved career context.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lmercier/careerchat/internal/embedding"
	"github.com/lmercier/careerchat/internal/llm"
	"github.com/lmercier/careerchat/internal/vector"
	"github.com/lmercier/careerchat/pkg/utils"
)

// ErrGeneration wraps failures from the language model.
var ErrGeneration = errors.New("answer generation failed")

// Defaults for answer generation.
const (
	DefaultTopK        = 5
	DefaultTemperature = 0.2
)

const systemPrompt = `You are answering questions about a job candidate on their behalf.
Answer in the first person, as the candidate.
Use ONLY the information in the provided context. If the context does not
contain the answer, say so plainly instead of guessing.`

const promptTemplate = `Context about the candidate:

%s

Question: %s

Answer:`

// Answerer retrieves the most relevant knowledge-base chunks for a question
// and asks the language model to answer from them.
type Answerer struct {
	embedder embedding.Embedder
	index    *vector.Index
	provider llm.Provider
	topK     int
	logger   *zap.Logger
}

// NewAnswerer wires the retrieval pipeline together. topK <= 0 falls back to
// DefaultTopK.
func NewAnswerer(embedder embedding.Embedder, index *vector.Index, provider llm.Provider, topK int, logger *zap.Logger) *Answerer {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Answerer{
		embedder: embedder,
		index:    index,
		provider: provider,
		topK:     topK,
		logger:   logger,
	}
}

// BuildContext embeds the query, retrieves the top matching chunks and joins
// them into a single context block. An empty result is not an error; the
// model is simply told there is no information.
func (a *Answerer) BuildContext(ctx context.Context, query string) (string, error) {
	queryEmb, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	results, err := a.index.Search(ctx, queryEmb, a.topK)
	if err != nil {
		return "", fmt.Errorf("search index: %w", err)
	}

	parts := make([]string, 0, len(results))
	for _, res := range results {
		parts = append(parts, res.Record.Text)
	}
	joined := strings.Join(parts, "\n\n")
	a.logger.Debug("built retrieval context",
		zap.Int("chunks", len(parts)),
		zap.Int("top_k", a.topK),
		zap.String("preview", utils.Truncate(joined, 120)))
	return joined, nil
}

// Answer runs retrieval then generation and returns the trimmed model output.
func (a *Answerer) Answer(ctx context.Context, query string) (string, error) {
	contextBlock, err := a.BuildContext(ctx, query)
	if err != nil {
		return "", err
	}
	if contextBlock == "" {
		contextBlock = "(no information available)"
	}

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(promptTemplate, contextBlock, query)},
	}

	answer, err := a.provider.Chat(ctx, messages, llm.Options{Temperature: DefaultTemperature})
	if err != nil {
		a.logger.Error("generation failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return strings.TrimSpace(answer), nil
}

// TopK reports how many chunks are retrieved per question.
func (a *Answerer) TopK() int {
	return a.topK
}
