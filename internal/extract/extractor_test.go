package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestExtractBytes_Plain(t *testing.T) {
	e := NewExtractor()
	text, err := e.ExtractBytes([]byte("hello resume"), ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello resume" {
		t.Errorf("got %q", text)
	}
}

func TestExtractBytes_Markdown(t *testing.T) {
	e := NewExtractor()
	text, err := e.ExtractBytes([]byte("# Skills\nGo, SQL"), ".md")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "Go, SQL") {
		t.Errorf("got %q", text)
	}
}

func TestExtractBytes_InvalidUTF8(t *testing.T) {
	e := NewExtractor()
	text, err := e.ExtractBytes([]byte{'a', 0xff, 'b'}, ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(text, "a") || !strings.HasSuffix(text, "b") {
		t.Errorf("got %q", text)
	}
}

func TestExtractBytes_UnsupportedFormat(t *testing.T) {
	e := NewExtractor()
	_, err := e.ExtractBytes([]byte("x"), ".pages")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), ".pdf") {
		t.Errorf("error should name the expected formats: %v", err)
	}
}

// buildDOCX assembles a minimal .docx zip with the given paragraphs.
func buildDOCX(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p w:rsidR="00000000"><w:r><w:t xml:space="preserve">`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(body.String())); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractBytes_DOCX(t *testing.T) {
	e := NewExtractor()
	content := buildDOCX(t, []string{"EXPERIENCE", "Backend engineer at Acme"})
	text, err := e.ExtractBytes(content, ".docx")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), text)
	}
	if lines[0] != "EXPERIENCE" {
		t.Errorf("first line = %q", lines[0])
	}
}

func TestExtractBytes_DOCXNotAZip(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("plain text, not a zip"), ".docx"); err == nil {
		t.Error("expected error for non-zip docx")
	}
}
