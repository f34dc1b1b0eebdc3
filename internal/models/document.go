// Package models defines core data structures for source documents, sections, and profile records.
package models

// Document is a named raw-text source (resume, profile export category).
// It is immutable once loaded.
type Document struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Category is the semantic category of a resume section.
type Category string

const (
	CategoryExperience Category = "experience"
	CategoryEducation  Category = "education"
	CategorySkills     Category = "skills"
	CategoryProjects   Category = "projects"
	CategorySummary    Category = "summary"
	// CategoryNone marks sections whose title matched no known pattern.
	CategoryNone Category = ""
)

// Section is a titled span of a document's text, tagged with a semantic
// category when the title matches a known heading pattern.
type Section struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category Category `json:"category,omitempty"`
}
