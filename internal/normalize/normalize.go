// Package normalize converts loosely shaped résumé data, as produced by a language
// model or the heuristic fallback extractor, into canonical records.
//
// Every function here is total: any input, including nil, numbers and unexpected
// nesting, produces a valid record with defaults filled in.
package normalize

import (
	"github.com/jonathan/resume-importer/internal/dates"
	"github.com/jonathan/resume-importer/internal/types"
)

const (
	unknownOrganization = "Unknown"
	unknownRole         = "Unknown Role"
	unknownInstitution  = "Unknown institution"
)

var experienceKeys = struct {
	Organization, RoleTitle, Achievements, Location, StartDate, EndDate, Summary, SectionLabel, Skills keyList
}{
	Organization: keyList{"organization", "company", "employer", "institution", "school"},
	RoleTitle:    keyList{"role_title", "title", "position", "role", "job_title"},
	Achievements: keyList{"achievements", "bullets", "details", "items", "responsibilities", "highlights"},
	Location:     keyList{"location", "city", "place"},
	StartDate:    keyList{"start_date", "start", "startDate"},
	EndDate:      keyList{"end_date", "end", "endDate"},
	Summary:      keyList{"summary", "description"},
	SectionLabel: keyList{"section_label", "section"},
	Skills:       keyList{"skills", "technologies", "tools"},
}

var educationKeys = struct {
	Institution, Degree, FieldOfStudy, Achievements, StartDate, EndDate keyList
}{
	Institution:  keyList{"institution", "school", "organization", "university", "college"},
	Degree:       keyList{"degree", "program", "major", "field", "field_of_study"},
	FieldOfStudy: keyList{"field_of_study", "major", "program", "focus", "concentration"},
	Achievements: keyList{"achievements", "bullets", "details", "items"},
	StartDate:    keyList{"start_date", "start", "startDate"},
	EndDate:      keyList{"end_date", "end", "endDate", "graduation_date"},
}

// Normalizer converts raw values into canonical records
type Normalizer struct {
	// DateWarning, when set, is called for each non-empty date value that
	// could not be normalized and was dropped.
	DateWarning func(field, raw string)
}

var defaultNormalizer = &Normalizer{}

// Experience normalizes one raw experience value
func Experience(raw any) types.ExperienceRecord { return defaultNormalizer.Experience(raw) }

// Experiences normalizes a list (or single object) of raw experience values
func Experiences(raw any) []types.ExperienceRecord { return defaultNormalizer.Experiences(raw) }

// Education normalizes one raw education value
func Education(raw any) types.EducationRecord { return defaultNormalizer.Education(raw) }

// EducationList normalizes a list (or single object) of raw education values
func EducationList(raw any) []types.EducationRecord { return defaultNormalizer.EducationList(raw) }

// Experiences normalizes a list of raw experiences. A single object is treated as
// a one-element list; any other shape yields an empty list.
func (n *Normalizer) Experiences(raw any) []types.ExperienceRecord {
	out := []types.ExperienceRecord{}
	for _, item := range records(raw) {
		out = append(out, n.Experience(item))
	}
	return out
}

// Experience normalizes one raw experience
func (n *Normalizer) Experience(raw any) types.ExperienceRecord {
	record, ok := raw.(map[string]any)
	if !ok {
		role := text(raw)
		if role == "" {
			role = unknownRole
		}
		return types.ExperienceRecord{
			Organization: unknownOrganization,
			RoleTitle:    role,
			Achievements: []string{},
			Skills:       []string{},
		}
	}

	achievements := firstTextList(record, experienceKeys.Achievements)

	roles := allTexts(record, experienceKeys.RoleTitle)
	role := unknownRole
	if len(roles) > 0 {
		role = roles[0]
	}

	org := firstText(record, experienceKeys.Organization)
	if org == "" {
		org = unknownOrganization
		if len(achievements) == 0 && len(roles) > 0 {
			org = roles[0]
		}
	}

	rawStart := firstText(record, experienceKeys.StartDate)
	rawEnd := firstText(record, experienceKeys.EndDate)

	ongoing := dates.IsOngoingMarker(rawEnd)
	if ongoing {
		rawEnd = ""
	}

	// an explicit is_current decides on its own
	isCurrent, explicit := flag(record["is_current"])
	if !explicit {
		isCurrent = ongoing || (rawEnd == "" && rawStart != "")
		for _, key := range []string{"current", "ongoing"} {
			if v, ok := flag(record[key]); ok && v {
				isCurrent = true
			}
		}
	}

	rec := types.ExperienceRecord{
		Organization: org,
		RoleTitle:    role,
		SectionLabel: firstText(record, experienceKeys.SectionLabel),
		Location:     firstText(record, experienceKeys.Location),
		StartDate:    n.date("start_date", rawStart),
		IsCurrent:    isCurrent,
		Summary:      firstText(record, experienceKeys.Summary),
		Achievements: achievements,
		Skills:       []string{},
	}
	if !isCurrent {
		rec.EndDate = n.date("end_date", rawEnd)
	}
	if v, ok := firstPresent(record, experienceKeys.Skills); ok {
		rec.Skills = SplitSkills(v)
	}
	return rec
}

// EducationList normalizes a list of raw education entries. A single object is
// treated as a one-element list; any other shape yields an empty list.
func (n *Normalizer) EducationList(raw any) []types.EducationRecord {
	out := []types.EducationRecord{}
	for _, item := range records(raw) {
		out = append(out, n.Education(item))
	}
	return out
}

// Education normalizes one raw education entry. A bare string names the
// institution on its first line; later lines become achievements.
func (n *Normalizer) Education(raw any) types.EducationRecord {
	record, ok := raw.(map[string]any)
	if !ok {
		var parts []string
		if items, isList := asList(raw); isList {
			parts = textList(items)
		} else {
			parts = splitLines(text(raw))
		}

		rec := types.EducationRecord{Institution: unknownInstitution, Achievements: []string{}}
		if len(parts) > 0 {
			rec.Institution = parts[0]
			rec.Achievements = append(rec.Achievements, parts[1:]...)
		}
		return rec
	}

	achievements := firstTextList(record, educationKeys.Achievements)

	institution := firstText(record, educationKeys.Institution)
	if institution == "" {
		if len(achievements) > 0 {
			institution = achievements[0]
			achievements = achievements[1:]
		} else {
			institution = unknownInstitution
		}
	}

	return types.EducationRecord{
		Institution:  institution,
		Degree:       types.NewTextList(firstTextList(record, educationKeys.Degree)...),
		FieldOfStudy: types.NewTextList(firstTextList(record, educationKeys.FieldOfStudy)...),
		StartDate:    n.date("start_date", firstText(record, educationKeys.StartDate)),
		EndDate:      n.date("end_date", firstText(record, educationKeys.EndDate)),
		Achievements: achievements,
	}
}

func (n *Normalizer) date(field, raw string) string {
	if raw == "" {
		return ""
	}
	canonical, ok := dates.Normalize(raw)
	if !ok && n.DateWarning != nil {
		n.DateWarning(field, raw)
	}
	return canonical
}

// records unwraps a list value, or wraps a single object
func records(raw any) []any {
	if items, ok := asList(raw); ok {
		return items
	}
	if m, ok := raw.(map[string]any); ok {
		return []any{m}
	}
	return nil
}
