package ingest

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/lmercier/careerchat/internal/models"
)

// Export file names vary with the export language and version, so each
// category tries several candidates. Missing categories contribute nothing
// and are never fatal.
var (
	profileFiles       = []string{"Profile.json", "profile.json", "Profile.txt.json"}
	positionFiles      = []string{"Positions", "positions", "Experience", "experience"}
	educationFiles     = []string{"Education", "education"}
	skillFiles         = []string{"Skills", "skills"}
	certificationFiles = []string{"Certifications", "certifications"}
	projectFiles       = []string{"Projects", "projects"}
)

// LoadExport reads a professional-network export directory. Every category is
// optional: unreadable or absent files are logged and skipped.
func LoadExport(dir string, logger *zap.Logger) models.ProfileExport {
	return models.ProfileExport{
		Profile:        loadProfile(dir, logger),
		Positions:      loadPositions(dir, logger),
		Educations:     loadEducations(dir, logger),
		Skills:         loadSkills(dir, logger),
		Certifications: loadCertifications(dir, logger),
		Projects:       loadProjects(dir, logger),
	}
}

func loadProfile(dir string, logger *zap.Logger) *models.ProfileSummary {
	var data map[string]any
	for _, name := range profileFiles {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			logger.Warn("profile json unreadable", zap.String("file", name), zap.Error(err))
			data = nil
			continue
		}
		break
	}
	if data == nil {
		return nil
	}
	// Key spellings vary across export versions.
	return &models.ProfileSummary{
		FirstName: jsonString(data, "firstName", "First Name"),
		LastName:  jsonString(data, "lastName", "Last Name"),
		Headline:  jsonString(data, "headline", "Headline"),
		Summary:   jsonString(data, "summary", "Summary"),
		Location:  jsonString(data, "locationName", "Location", "location"),
	}
}

func loadPositions(dir string, logger *zap.Logger) []models.Position {
	rows := loadTable(dir, positionFiles, logger)
	var positions []models.Position
	for _, row := range rows {
		title := field(row, "Title", "title")
		company := field(row, "Company Name", "Company", "companyName")
		if title == "" && company == "" {
			continue
		}
		positions = append(positions, models.Position{
			Title:       title,
			Company:     company,
			Location:    field(row, "Location", "location"),
			Description: field(row, "Description", "description", "Summary"),
			StartDate:   field(row, "Started On", "Start Date", "startDate"),
			EndDate:     field(row, "Finished On", "End Date", "endDate"),
		})
	}
	return positions
}

func loadEducations(dir string, logger *zap.Logger) []models.Education {
	rows := loadTable(dir, educationFiles, logger)
	var educations []models.Education
	for _, row := range rows {
		school := field(row, "School Name", "School", "schoolName")
		if school == "" {
			continue
		}
		educations = append(educations, models.Education{
			School:       school,
			Degree:       field(row, "Degree Name", "Degree"),
			FieldOfStudy: field(row, "Field Of Study", "Field of Study", "fieldOfStudy"),
			StartDate:    field(row, "Started On", "Start Date", "startDate"),
			EndDate:      field(row, "Finished On", "End Date", "endDate"),
		})
	}
	return educations
}

func loadSkills(dir string, logger *zap.Logger) []models.Skill {
	rows := loadTable(dir, skillFiles, logger)
	var skills []models.Skill
	for _, row := range rows {
		name := field(row, "Name", "Skill", "name")
		if name == "" {
			continue
		}
		skills = append(skills, models.Skill{Name: name})
	}
	return skills
}

func loadCertifications(dir string, logger *zap.Logger) []models.Certification {
	rows := loadTable(dir, certificationFiles, logger)
	var certifications []models.Certification
	for _, row := range rows {
		name := field(row, "Name", "name")
		if name == "" {
			continue
		}
		certifications = append(certifications, models.Certification{
			Name:      name,
			Authority: field(row, "Authority", "authority"),
			License:   field(row, "License Number", "licenseNumber"),
			StartDate: field(row, "Started On", "Start Date"),
			EndDate:   field(row, "Finished On", "End Date"),
		})
	}
	return certifications
}

func loadProjects(dir string, logger *zap.Logger) []models.Project {
	rows := loadTable(dir, projectFiles, logger)
	var projects []models.Project
	for _, row := range rows {
		title := field(row, "Title", "title", "Name")
		if title == "" {
			continue
		}
		projects = append(projects, models.Project{
			Title:       title,
			Description: field(row, "Description", "description"),
			URL:         field(row, "Url", "URL"),
			StartDate:   field(row, "Started On", "Start Date"),
			EndDate:     field(row, "Finished On", "End Date"),
		})
	}
	return projects
}

// loadTable reads the first available table for a category: each base name is
// tried as .csv then as .xlsx. Rows come back as header-keyed maps.
func loadTable(dir string, baseNames []string, logger *zap.Logger) []map[string]string {
	for _, base := range baseNames {
		csvPath := filepath.Join(dir, base+".csv")
		if _, err := os.Stat(csvPath); err == nil {
			rows, err := readCSV(csvPath)
			if err != nil {
				logger.Warn("csv unreadable", zap.String("path", csvPath), zap.Error(err))
				continue
			}
			return rows
		}
		xlsxPath := filepath.Join(dir, base+".xlsx")
		if _, err := os.Stat(xlsxPath); err == nil {
			rows, err := readXLSX(xlsxPath)
			if err != nil {
				logger.Warn("xlsx unreadable", zap.String("path", xlsxPath), zap.Error(err))
				continue
			}
			return rows
		}
	}
	return nil
}

func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return tableToMaps(all), nil
}

func readXLSX(path string) ([]map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return tableToMaps(rows), nil
}

// tableToMaps turns a header row plus data rows into header-keyed maps.
func tableToMaps(rows [][]string) []map[string]string {
	if len(rows) < 2 {
		return nil
	}
	header := rows[0]
	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(row) {
				m[strings.TrimSpace(key)] = strings.TrimSpace(row[i])
			}
		}
		out = append(out, m)
	}
	return out
}

// field returns the first non-empty value among the candidate column names.
func field(row map[string]string, names ...string) string {
	for _, name := range names {
		if v := row[name]; v != "" {
			return v
		}
	}
	return ""
}

// jsonString returns the first non-empty string among the candidate keys.
func jsonString(data map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := data[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
