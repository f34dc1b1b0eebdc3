package ingest

import (
	"strings"

	"github.com/lmercier/careerchat/internal/models"
)

// ExportToChunks renders every record of a profile export as one
// self-contained chunk with labeled fields in a fixed order. Absent optional
// fields are omitted entirely; skills collapse into a single comma-joined
// chunk. Deterministic: the same export always yields the same chunks.
func ExportToChunks(export models.ProfileExport) []string {
	var chunks []string
	if chunk := profileChunk(export.Profile); chunk != "" {
		chunks = append(chunks, chunk)
	}
	for _, pos := range export.Positions {
		chunks = append(chunks, positionChunk(pos))
	}
	for _, edu := range export.Educations {
		chunks = append(chunks, educationChunk(edu))
	}
	for _, cert := range export.Certifications {
		chunks = append(chunks, certificationChunk(cert))
	}
	for _, project := range export.Projects {
		chunks = append(chunks, projectChunk(project))
	}
	if len(export.Skills) > 0 {
		names := make([]string, len(export.Skills))
		for i, s := range export.Skills {
			names[i] = s.Name
		}
		chunks = append(chunks, "Skills: "+strings.Join(names, ", "))
	}
	return chunks
}

func profileChunk(p *models.ProfileSummary) string {
	if p == nil {
		return ""
	}
	var lines []string
	if name := strings.TrimSpace(p.FirstName + " " + p.LastName); name != "" {
		lines = append(lines, "Name: "+name)
	}
	if p.Headline != "" {
		lines = append(lines, "Headline: "+p.Headline)
	}
	if p.Location != "" {
		lines = append(lines, "Location: "+p.Location)
	}
	if p.Summary != "" {
		lines = append(lines, "Summary: "+p.Summary)
	}
	if len(lines) == 0 {
		return ""
	}
	return "Professional profile\n" + strings.Join(lines, "\n")
}

func positionChunk(pos models.Position) string {
	lines := []string{
		"Work experience",
		"Title: " + pos.Title,
		"Company: " + pos.Company,
	}
	if pos.Location != "" {
		lines = append(lines, "Location: "+pos.Location)
	}
	if pos.StartDate != "" || pos.EndDate != "" {
		lines = append(lines, "Period: "+period(pos.StartDate, pos.EndDate, "Present"))
	}
	if pos.Description != "" {
		lines = append(lines, "Description: "+pos.Description)
	}
	return strings.Join(lines, "\n")
}

func educationChunk(edu models.Education) string {
	lines := []string{
		"Education",
		"School: " + edu.School,
	}
	if edu.Degree != "" {
		lines = append(lines, "Degree: "+edu.Degree)
	}
	if edu.FieldOfStudy != "" {
		lines = append(lines, "Field of study: "+edu.FieldOfStudy)
	}
	if edu.StartDate != "" || edu.EndDate != "" {
		lines = append(lines, "Period: "+period(edu.StartDate, edu.EndDate, "?"))
	}
	return strings.Join(lines, "\n")
}

func certificationChunk(cert models.Certification) string {
	lines := []string{
		"Certification",
		"Name: " + cert.Name,
	}
	if cert.Authority != "" {
		lines = append(lines, "Authority: "+cert.Authority)
	}
	if cert.License != "" {
		lines = append(lines, "License: "+cert.License)
	}
	if cert.StartDate != "" || cert.EndDate != "" {
		lines = append(lines, "Period: "+period(cert.StartDate, cert.EndDate, "?"))
	}
	return strings.Join(lines, "\n")
}

func projectChunk(project models.Project) string {
	lines := []string{
		"Project",
		"Title: " + project.Title,
	}
	if project.Description != "" {
		lines = append(lines, "Description: "+project.Description)
	}
	if project.URL != "" {
		lines = append(lines, "URL: "+project.URL)
	}
	if project.StartDate != "" || project.EndDate != "" {
		lines = append(lines, "Period: "+period(project.StartDate, project.EndDate, "?"))
	}
	return strings.Join(lines, "\n")
}

// period formats a date range; missing start renders as "?" and missing end
// as the given placeholder ("Present" for positions).
func period(start, end, endPlaceholder string) string {
	if start == "" {
		start = "?"
	}
	if end == "" {
		end = endPlaceholder
	}
	return start + " → " + end
}
