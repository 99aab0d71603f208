package dedup

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-importer/internal/normalize"
	"github.com/jonathan/resume-importer/internal/similarity"
	"github.com/jonathan/resume-importer/internal/types"
)

const (
	orgRoleThreshold      = 0.8
	orgDateThreshold      = 0.9
	startDateThreshold    = 0.7
	institutionThreshold  = 0.85
	degreeFieldThreshold  = 0.7
	skillOverlapThreshold = 0.7
)

// legalSuffixes are trailing organization name tokens ignored when comparing
var legalSuffixes = map[string]bool{
	"inc": true, "incorporated": true, "corp": true, "corporation": true,
	"co": true, "company": true, "llc": true, "llp": true, "ltd": true,
	"limited": true, "plc": true, "gmbh": true, "ag": true, "sa": true,
}

// ExperienceKey is the part of an experience record used for duplicate detection
type ExperienceKey struct {
	Organization string
	RoleTitle    string
	StartDate    string
}

// EducationKey is the part of an education record used for duplicate detection.
// Degree and FieldOfStudy hold list values joined with single spaces.
type EducationKey struct {
	Institution  string
	Degree       string
	FieldOfStudy string
}

// SkillGroupKey is the part of a skill group used for duplicate detection
type SkillGroupKey struct {
	Category string
	Skills   []string
}

// ExperienceKeyOf extracts the duplicate-detection key of a record
func ExperienceKeyOf(r types.ExperienceRecord) ExperienceKey {
	return ExperienceKey{Organization: r.Organization, RoleTitle: r.RoleTitle, StartDate: r.StartDate}
}

// EducationKeyOf extracts the duplicate-detection key of a record
func EducationKeyOf(r types.EducationRecord) EducationKey {
	return NewEducationKey(r.Institution, r.Degree, r.FieldOfStudy)
}

// NewEducationKey builds a key from list-valued degree and field columns
func NewEducationKey(institution string, degree, field []string) EducationKey {
	return EducationKey{
		Institution:  institution,
		Degree:       strings.Join(degree, " "),
		FieldOfStudy: strings.Join(field, " "),
	}
}

// SkillGroupKeyOf extracts the duplicate-detection key of a record
func SkillGroupKeyOf(r types.SkillGroupRecord) SkillGroupKey {
	return SkillGroupKey(r)
}

// ExperienceKeysMatch reports whether two experience keys describe the same role:
// organization and role title both similar above 0.8, or organization similar
// above 0.9 with both start dates known and similar above 0.7.
func ExperienceKeysMatch(a, b ExperienceKey) bool {
	orgSim := similarity.Score(organizationKey(a.Organization), organizationKey(b.Organization))
	roleSim := similarity.Score(a.RoleTitle, b.RoleTitle)
	if orgSim > orgRoleThreshold && roleSim > orgRoleThreshold {
		return true
	}
	return orgSim > orgDateThreshold &&
		a.StartDate != "" && b.StartDate != "" &&
		similarity.Score(a.StartDate, b.StartDate) > startDateThreshold
}

// EducationKeysMatch reports whether two education keys describe the same entry:
// institution similar above 0.85 and either degree or field present on both
// sides and similar above 0.7, or neither side has a degree or field at all.
func EducationKeysMatch(a, b EducationKey) bool {
	if similarity.Score(a.Institution, b.Institution) <= institutionThreshold {
		return false
	}
	if bothSimilar(a.Degree, b.Degree) || bothSimilar(a.FieldOfStudy, b.FieldOfStudy) {
		return true
	}
	return a.Degree == "" && b.Degree == "" && a.FieldOfStudy == "" && b.FieldOfStudy == ""
}

func bothSimilar(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return similarity.Score(a, b) > degreeFieldThreshold
}

// SkillGroupKeysMatch reports whether two skill groups overlap: same category
// ignoring case (or both uncategorized) and a Jaccard overlap of skill names
// above 0.7. Skill names are compared through their canonical aliases.
func SkillGroupKeysMatch(a, b SkillGroupKey) bool {
	if !strings.EqualFold(strings.TrimSpace(a.Category), strings.TrimSpace(b.Category)) {
		return false
	}
	return similarity.Jaccard(normalize.SkillKeys(a.Skills), normalize.SkillKeys(b.Skills)) > skillOverlapThreshold
}

// ExperienceDuplicate reports whether two experience records are duplicates
func ExperienceDuplicate(a, b types.ExperienceRecord) bool {
	return ExperienceKeysMatch(ExperienceKeyOf(a), ExperienceKeyOf(b))
}

// EducationDuplicate reports whether two education records are duplicates
func EducationDuplicate(a, b types.EducationRecord) bool {
	return EducationKeysMatch(EducationKeyOf(a), EducationKeyOf(b))
}

// SkillGroupDuplicate reports whether two skill groups are duplicates
func SkillGroupDuplicate(a, b types.SkillGroupRecord) bool {
	return SkillGroupKeysMatch(SkillGroupKeyOf(a), SkillGroupKeyOf(b))
}

// MergeExperience combines two duplicate experiences. Scalars come from a when
// set, otherwise from b; list fields are unioned; the record is current when
// either side is.
func MergeExperience(a, b types.ExperienceRecord) types.ExperienceRecord {
	merged := types.ExperienceRecord{
		Organization: firstNonEmpty(a.Organization, b.Organization),
		RoleTitle:    firstNonEmpty(a.RoleTitle, b.RoleTitle),
		SectionLabel: firstNonEmpty(a.SectionLabel, b.SectionLabel),
		Location:     firstNonEmpty(a.Location, b.Location),
		StartDate:    firstNonEmpty(a.StartDate, b.StartDate),
		EndDate:      firstNonEmpty(a.EndDate, b.EndDate),
		IsCurrent:    a.IsCurrent || b.IsCurrent,
		Summary:      firstNonEmpty(a.Summary, b.Summary),
		Achievements: union(a.Achievements, b.Achievements),
		Skills:       union(a.Skills, b.Skills),
	}
	if merged.IsCurrent {
		merged.EndDate = ""
	}
	return merged
}

// MergeEducation combines two duplicate education entries
func MergeEducation(a, b types.EducationRecord) types.EducationRecord {
	return types.EducationRecord{
		Institution:  firstNonEmpty(a.Institution, b.Institution),
		Degree:       types.NewTextList(union(a.Degree, b.Degree)...),
		FieldOfStudy: types.NewTextList(union(a.FieldOfStudy, b.FieldOfStudy)...),
		StartDate:    firstNonEmpty(a.StartDate, b.StartDate),
		EndDate:      firstNonEmpty(a.EndDate, b.EndDate),
		Achievements: union(a.Achievements, b.Achievements),
	}
}

// Experiences collapses duplicate experiences within a batch
func Experiences(records []types.ExperienceRecord) []types.ExperienceRecord {
	return Batch(records, ExperienceDuplicate, MergeExperience)
}

// EducationList collapses duplicate education entries within a batch
func EducationList(records []types.EducationRecord) []types.EducationRecord {
	return Batch(records, EducationDuplicate, MergeEducation)
}

// NewExperiences drops the experiences that duplicate an existing key
func NewExperiences(batch []types.ExperienceRecord, existing []ExperienceKey) []types.ExperienceRecord {
	return FilterNew(batch, existing, func(r types.ExperienceRecord, k ExperienceKey) bool {
		return ExperienceKeysMatch(ExperienceKeyOf(r), k)
	})
}

// NewEducation drops the education entries that duplicate an existing key
func NewEducation(batch []types.EducationRecord, existing []EducationKey) []types.EducationRecord {
	return FilterNew(batch, existing, func(r types.EducationRecord, k EducationKey) bool {
		return EducationKeysMatch(EducationKeyOf(r), k)
	})
}

// NewSkillGroups drops the skill groups that duplicate an existing key
func NewSkillGroups(batch []types.SkillGroupRecord, existing []SkillGroupKey) []types.SkillGroupRecord {
	return FilterNew(batch, existing, func(r types.SkillGroupRecord, k SkillGroupKey) bool {
		return SkillGroupDuplicate(r, types.SkillGroupRecord(k))
	})
}

// organizationKey drops punctuation and trailing legal-entity suffixes so that
// "Acme Corp." and "Acme" compare equal. A name made only of suffixes is kept.
func organizationKey(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '.'
	})
	end := len(fields)
	for end > 0 && legalSuffixes[fields[end-1]] {
		end--
	}
	if end == 0 {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:end], " ")
}
