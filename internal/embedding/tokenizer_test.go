package embedding

import "testing"

func TestSimpleTokenizer(t *testing.T) {
	tok := &SimpleTokenizer{}
	inputIDs, attentionMask, tokenTypeIDs := tok.Tokenize("hello world", 8)
	if len(inputIDs) != 8 || len(attentionMask) != 8 || len(tokenTypeIDs) != 8 {
		t.Fatal("all outputs must be padded to maxTokens")
	}
	if inputIDs[0] != 101 {
		t.Errorf("first token should be [CLS], got %d", inputIDs[0])
	}
	if attentionMask[0] != 1 || attentionMask[1] != 1 || attentionMask[2] != 1 {
		t.Error("attention mask should cover CLS and both words")
	}
	if inputIDs[3] != 102 {
		t.Errorf("token after words should be [SEP], got %d", inputIDs[3])
	}
}

func TestHashString(t *testing.T) {
	if HashString("go") != HashString("go") {
		t.Error("hash must be deterministic")
	}
	if HashString("go") < 0 {
		t.Error("hash must be non-negative")
	}
}
