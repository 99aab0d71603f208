// Package types provides type definitions for structured data used throughout the resume importer.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExperienceRecord is a single canonical work, project, leadership or activity entry.
// Dates are canonical YYYY-MM-DD strings or empty when unknown.
type ExperienceRecord struct {
	Organization string   `json:"organization"`
	RoleTitle    string   `json:"role_title"`
	SectionLabel string   `json:"section_label,omitempty"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	IsCurrent    bool     `json:"is_current"`
	Summary      string   `json:"summary,omitempty"`
	Achievements []string `json:"achievements"`
	Skills       []string `json:"skills"`
}

// EducationRecord is a single canonical education entry
type EducationRecord struct {
	Institution  string   `json:"institution"`
	Degree       TextList `json:"degree,omitempty"`
	FieldOfStudy TextList `json:"field_of_study,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Achievements []string `json:"achievements"`
}

// SkillGroupRecord is a labeled list of skills
type SkillGroupRecord struct {
	Category string   `json:"category,omitempty"`
	Skills   []string `json:"skills"`
}

// ParsedResumeBatch is the result of parsing one résumé
type ParsedResumeBatch struct {
	Experiences []ExperienceRecord `json:"experiences"`
	Education   []EducationRecord  `json:"education"`
	Skills      []SkillGroupRecord `json:"skills"`
}

// NewParsedResumeBatch returns a batch with empty, non-nil record lists
func NewParsedResumeBatch() ParsedResumeBatch {
	return ParsedResumeBatch{
		Experiences: []ExperienceRecord{},
		Education:   []EducationRecord{},
		Skills:      []SkillGroupRecord{},
	}
}

// Empty reports whether the batch holds no records at all
func (b ParsedResumeBatch) Empty() bool {
	return len(b.Experiences) == 0 && len(b.Education) == 0 && len(b.Skills) == 0
}

// RecordCount returns the total number of records across all categories
func (b ParsedResumeBatch) RecordCount() int {
	return len(b.Experiences) + len(b.Education) + len(b.Skills)
}
