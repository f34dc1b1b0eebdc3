package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lmercier/careerchat/internal/models"
)

// Default chunk size bounds, in characters.
const (
	DefaultMaxChars = 800
	DefaultMinChars = 200
)

// paragraphSplit matches blank-line boundaries between paragraphs.
var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

// ChunkOptions bounds chunk sizes. MaxChars caps a single chunk (word wrap
// may overflow it by at most one unbreakable word); MinChars is the threshold
// below which adjacent chunks are merged.
type ChunkOptions struct {
	MaxChars int
	MinChars int
}

// DefaultChunkOptions returns the standard 800/200 bounds.
func DefaultChunkOptions() ChunkOptions {
	return ChunkOptions{MaxChars: DefaultMaxChars, MinChars: DefaultMinChars}
}

// SectionsToChunks converts sections into chunks sized for embedding. Each
// section's content is prefixed with a "[Section: <title>]" marker; sections
// longer than MaxChars are split on paragraph boundaries, and oversized
// paragraphs are word-wrapped. A final merge pass folds runs of small chunks
// together so retrieval is not degraded by fragments.
func SectionsToChunks(sections []models.Section, opts ChunkOptions) []string {
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	var chunks []string
	for _, section := range sections {
		marked := fmt.Sprintf("[Section: %s]\n%s", section.Title, section.Content)
		if len(marked) <= opts.MaxChars {
			chunks = append(chunks, marked)
			continue
		}
		chunks = append(chunks, splitText(marked, opts.MaxChars)...)
	}
	return mergeSmallChunks(chunks, opts.MinChars)
}

// splitText splits text into pieces of at most maxChars: first on blank-line
// paragraph boundaries, then by word wrapping any paragraph still too long.
// Words are never broken, so a single word longer than maxChars stays whole.
func splitText(text string, maxChars int) []string {
	var chunks []string
	for _, para := range paragraphSplit.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) <= maxChars {
			chunks = append(chunks, para)
			continue
		}
		chunks = append(chunks, wrapWords(para, maxChars)...)
	}
	return chunks
}

// wrapWords greedily packs whitespace-separated words into lines of at most
// width characters without breaking words.
func wrapWords(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= width {
			current += " " + word
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	return append(lines, current)
}

// mergeSmallChunks folds adjacent chunks together left to right: chunks
// accumulate into a buffer (joined by a blank line) while the combined length
// stays below minChars; reaching the threshold flushes the buffer. The final
// buffer is flushed regardless of size. Merging only looks at document order,
// which is an acceptable proxy for semantic adjacency at resume scale.
func mergeSmallChunks(chunks []string, minChars int) []string {
	if minChars <= 0 {
		return chunks
	}
	var merged []string
	buffer := ""
	for _, chunk := range chunks {
		switch {
		case buffer == "":
			buffer = chunk
		case len(buffer)+len(chunk) < minChars:
			buffer = buffer + "\n\n" + chunk
		default:
			merged = append(merged, buffer)
			buffer = chunk
		}
	}
	if buffer != "" {
		merged = append(merged, buffer)
	}
	return merged
}
