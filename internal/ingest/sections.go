// Package ingest turns resume text and profile exports into chunks sized for embedding.
package ingest

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/lmercier/careerchat/internal/models"
)

// untitledSectionTitle names the section holding content that appears before
// any detected heading, or the whole document when no heading is found.
const untitledSectionTitle = "Resume"

// headingMaxChars and headingMaxWords bound what a heading line may look like.
const (
	headingMaxChars          = 80
	headingMaxWords          = 5
	headingUppercaseRatioMin = 0.6
)

// categoryPatterns maps each semantic category to its known heading patterns
// (English and French). Iterated in fixed order, first match wins.
var categoryPatterns = []struct {
	category models.Category
	patterns []*regexp.Regexp
}{
	{models.CategoryExperience, compilePatterns(
		`expériences? professionnelles?`,
		`experience professionnelle`,
		`work experience`,
		`professional experience`,
	)},
	{models.CategoryEducation, compilePatterns(
		`formation`,
		`éducation`,
		`education`,
		`studies`,
	)},
	{models.CategorySkills, compilePatterns(
		`compétences`,
		`compétences techniques`,
		`skills`,
		`technical skills`,
	)},
	{models.CategoryProjects, compilePatterns(
		`projets?`,
		`projects?`,
		`personal projects`,
	)},
	{models.CategorySummary, compilePatterns(
		`profil`,
		`profil professionnel`,
		`résumé`,
		`summary`,
		`about me`,
		`à propos`,
	)},
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)^(?:` + p + `)$`)
	}
	return out
}

// GuessCategory returns the semantic category whose heading patterns match
// title, or CategoryNone.
func GuessCategory(title string) models.Category {
	normalized := strings.ToLower(strings.TrimSpace(title))
	for _, entry := range categoryPatterns {
		for _, p := range entry.patterns {
			if p.MatchString(normalized) {
				return entry.category
			}
		}
	}
	return models.CategoryNone
}

// isHeading reports whether line looks like a section heading: either it
// matches a known category pattern, or it is short (≤5 words, ≤80 chars)
// and mostly uppercase (>60% of alphabetic characters).
func isHeading(line string) bool {
	if GuessCategory(line) != models.CategoryNone {
		return true
	}
	if len(line) > headingMaxChars {
		return false
	}
	if len(strings.Fields(line)) > headingMaxWords {
		return false
	}
	var upper, alpha int
	for _, r := range line {
		if unicode.IsLetter(r) {
			alpha++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return alpha > 0 && float64(upper)/float64(alpha) > headingUppercaseRatioMin
}

// SplitSections scans raw resume text and splits it into titled sections at
// detected heading lines. Content before the first heading lands in an
// untitled section; when no heading is found at all, the entire text becomes
// one untitled section. Empty input yields zero sections.
func SplitSections(raw string) []models.Section {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	var sections []models.Section
	title := untitledSectionTitle
	var content []string

	flush := func() {
		if len(content) == 0 {
			return
		}
		sections = append(sections, models.Section{
			Title:    title,
			Content:  strings.Join(content, "\n"),
			Category: GuessCategory(title),
		})
		content = nil
	}

	for _, line := range lines {
		if isHeading(line) {
			flush()
			title = line
		} else {
			content = append(content, line)
		}
	}
	flush()

	// Headings with no content at all: fall back to one untitled section so
	// the document still contributes text to the index.
	if len(sections) == 0 {
		sections = append(sections, models.Section{
			Title:   untitledSectionTitle,
			Content: strings.TrimSpace(raw),
		})
	}
	return sections
}
