package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/lmercier/careerchat/internal/embedding"
	"github.com/lmercier/careerchat/internal/llm"
	"github.com/lmercier/careerchat/internal/vector"
)

// fakeProvider records the last request and returns a canned answer.
type fakeProvider struct {
	lastMessages []llm.Message
	lastOptions  llm.Options
	answer       string
	err          error
}

func (f *fakeProvider) Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	f.lastMessages = messages
	f.lastOptions = opts
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeProvider) ModelName() string { return "fake" }
func (f *fakeProvider) Close() error      { return nil }

func buildIndex(t *testing.T, embedder embedding.Embedder, texts []string) *vector.Index {
	t.Helper()
	ctx := context.Background()
	embs, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		t.Fatal(err)
	}
	idx, err := vector.NewIndex(embedder.Dimensions())
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Add(ctx, texts, embs); err != nil {
		t.Fatal(err)
	}
	return idx
}

func TestAnswerer_RetrievesRelevantChunk(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	chunks := []string{
		"[Section: Skills]\nPython, SQL, Docker",
		"[Section: Education]\nMaster of Computer Science",
		"[Section: Experience]\nBackend engineer at Acme",
	}
	idx := buildIndex(t, embedder, chunks)
	a := NewAnswerer(embedder, idx, &fakeProvider{answer: "x"}, 1, zap.NewNop())

	// The mock embedder is deterministic, so querying with a chunk's own
	// text must rank that chunk first.
	got, err := a.BuildContext(context.Background(), chunks[0])
	if err != nil {
		t.Fatal(err)
	}
	if got != chunks[0] {
		t.Errorf("context = %q, want the skills chunk", got)
	}
}

func TestAnswerer_ContextJoinsChunks(t *testing.T) {
	embedder := embedding.NewMockEmbedder(16)
	chunks := []string{"first chunk", "second chunk", "third chunk"}
	idx := buildIndex(t, embedder, chunks)
	a := NewAnswerer(embedder, idx, &fakeProvider{answer: "x"}, 3, zap.NewNop())

	got, err := a.BuildContext(context.Background(), "anything")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(got, "\n\n") != 2 {
		t.Errorf("expected three chunks joined by blank lines, got %q", got)
	}
}

func TestAnswerer_Answer(t *testing.T) {
	embedder := embedding.NewMockEmbedder(16)
	idx := buildIndex(t, embedder, []string{"Skills: Go, Kubernetes"})
	provider := &fakeProvider{answer: "  My strongest skills are Go and Kubernetes.  "}
	a := NewAnswerer(embedder, idx, provider, 5, zap.NewNop())

	answer, err := a.Answer(context.Background(), "what are your skills?")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "My strongest skills are Go and Kubernetes." {
		t.Errorf("answer = %q, want trimmed model output", answer)
	}
	if provider.lastOptions.Temperature != DefaultTemperature {
		t.Errorf("temperature = %v, want %v", provider.lastOptions.Temperature, DefaultTemperature)
	}
	if len(provider.lastMessages) != 2 || provider.lastMessages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", provider.lastMessages)
	}
	userMsg := provider.lastMessages[1].Content
	if !strings.Contains(userMsg, "Skills: Go, Kubernetes") {
		t.Error("prompt must include retrieved context")
	}
	if !strings.Contains(userMsg, "what are your skills?") {
		t.Error("prompt must include the question")
	}
}

func TestAnswerer_EmptyIndexIsNotAnError(t *testing.T) {
	embedder := embedding.NewMockEmbedder(16)
	idx, err := vector.NewIndex(16)
	if err != nil {
		t.Fatal(err)
	}
	provider := &fakeProvider{answer: "I do not have that information."}
	a := NewAnswerer(embedder, idx, provider, 5, zap.NewNop())

	answer, err := a.Answer(context.Background(), "anything?")
	if err != nil {
		t.Fatal(err)
	}
	if answer == "" {
		t.Error("expected an answer even with empty context")
	}
	if !strings.Contains(provider.lastMessages[1].Content, "(no information available)") {
		t.Error("empty context should be replaced by a placeholder")
	}
}

func TestAnswerer_GenerationFailure(t *testing.T) {
	embedder := embedding.NewMockEmbedder(16)
	idx := buildIndex(t, embedder, []string{"chunk"})
	provider := &fakeProvider{err: fmt.Errorf("connection refused")}
	a := NewAnswerer(embedder, idx, provider, 5, zap.NewNop())

	_, err := a.Answer(context.Background(), "question")
	if !errors.Is(err, ErrGeneration) {
		t.Errorf("expected ErrGeneration, got %v", err)
	}
}

func TestNewAnswerer_TopKFallback(t *testing.T) {
	idx, err := vector.NewIndex(8)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAnswerer(embedding.NewMockEmbedder(8), idx, &fakeProvider{}, 0, nil)
	if a.TopK() != DefaultTopK {
		t.Errorf("TopK = %d, want %d", a.TopK(), DefaultTopK)
	}
}
