package models

// ProfileSummary holds the identity block of a professional-network export.
type ProfileSummary struct {
	FirstName string
	LastName  string
	Headline  string
	Summary   string
	Location  string
}

// Position is one work experience entry.
type Position struct {
	Title       string
	Company     string
	Location    string
	Description string
	StartDate   string
	EndDate     string
}

// Education is one study entry.
type Education struct {
	School       string
	Degree       string
	FieldOfStudy string
	StartDate    string
	EndDate      string
}

// Skill is a single named skill.
type Skill struct {
	Name string
}

// Certification is one certification or license entry.
type Certification struct {
	Name      string
	Authority string
	License   string
	StartDate string
	EndDate   string
}

// Project is one personal or professional project entry.
type Project struct {
	Title       string
	Description string
	URL         string
	StartDate   string
	EndDate     string
}

// ProfileExport aggregates everything loaded from a professional-network
// export directory. Every field may be empty; absent categories simply
// contribute no chunks to the index.
type ProfileExport struct {
	Profile        *ProfileSummary
	Positions      []Position
	Educations     []Education
	Skills         []Skill
	Certifications []Certification
	Projects       []Project
}
