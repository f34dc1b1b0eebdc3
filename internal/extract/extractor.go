// Package extract provides plain-text extraction from resume files.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file types no extractor handles.
var ErrUnsupportedFormat = errors.New("unsupported resume format")

// supportedExtensions lists the formats Extract accepts, for error messages.
var supportedExtensions = []string{".pdf", ".docx", ".txt", ".md", ".xlsx"}

// Extractor extracts raw text from resume files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
// PDF, DOCX, and XLSX are parsed from their binary formats; .txt and .md are
// returned as-is (UTF-8 validated). Any other extension is an error naming the
// expected formats.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".xlsx":
		return extractExcel(content)
	case ".txt", ".md":
		return extractPlain(content)
	default:
		return "", fmt.Errorf("%w: %q (expected one of %s)",
			ErrUnsupportedFormat, ext, strings.Join(supportedExtensions, ", "))
	}
}
