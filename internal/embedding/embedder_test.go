package embedding

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(16)
	ctx := context.Background()
	a1, err := e.Embed(ctx, "hello")
	if err != nil {
		t.Fatal(err)
	}
	a2, _ := e.Embed(ctx, "hello")
	b, _ := e.Embed(ctx, "world")
	for i := range a1 {
		if a1[i] != a2[i] {
			t.Fatal("same text must embed identically")
		}
	}
	same := true
	for i := range a1 {
		if a1[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts should embed differently")
	}
}

func TestMockEmbedder_UnitNorm(t *testing.T) {
	e := NewMockEmbedder(32)
	emb, _ := e.Embed(context.Background(), "some chunk of resume text")
	var sum float64
	for _, v := range emb {
		sum += float64(v * v)
	}
	if math.Abs(math.Sqrt(sum)-1.0) > 1e-5 {
		t.Errorf("norm = %f, want 1.0", math.Sqrt(sum))
	}
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	e := NewMockEmbedder(8)
	embs, err := e.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(embs) != 0 {
		t.Errorf("empty batch should return empty matrix, got %d rows", len(embs))
	}
}

func TestEmbedBatch_MatchesSingle(t *testing.T) {
	e := NewMockEmbedder(8)
	ctx := context.Background()
	batch, err := e.EmbedBatch(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 2 {
		t.Fatalf("got %d rows", len(batch))
	}
	single, _ := e.Embed(ctx, "a")
	for i := range single {
		if batch[0][i] != single[i] {
			t.Fatal("batch row must equal single encoding")
		}
	}
}

func TestNewEmbedder_Factory(t *testing.T) {
	e, err := NewEmbedder(Options{Provider: "mock", Dimensions: 8})
	if err != nil {
		t.Fatal(err)
	}
	if e.Dimensions() != 8 {
		t.Errorf("Dimensions=%d", e.Dimensions())
	}
	if _, err := NewEmbedder(Options{Provider: "bogus"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
