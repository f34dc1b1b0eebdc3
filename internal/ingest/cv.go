package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/lmercier/careerchat/internal/extract"
	"github.com/lmercier/careerchat/internal/models"
)

// LoadResume reads the resume file at path, extracts its raw text, and splits
// it into sections. The returned document keeps the full raw text for
// reference; chunking operates on the sections.
func LoadResume(path string, logger *zap.Logger) (models.Document, []models.Section, error) {
	if _, err := os.Stat(path); err != nil {
		return models.Document{}, nil, fmt.Errorf("resume not found at %s: %w", path, err)
	}
	raw, err := extract.NewExtractor().Extract(path)
	if err != nil {
		return models.Document{}, nil, fmt.Errorf("load resume %s: %w", path, err)
	}
	doc := models.Document{Name: filepath.Base(path), Text: raw}
	sections := SplitSections(raw)
	logger.Info("resume loaded",
		zap.String("path", path),
		zap.Int("bytes", len(raw)),
		zap.Int("sections", len(sections)),
	)
	return doc, sections, nil
}
