package normalize

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/resume-importer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestExperience(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		validate func(*testing.T, types.ExperienceRecord)
	}{
		{
			name:  "canonical keys",
			input: `{"organization":"Acme Corp","role_title":"Software Intern","location":"New York, NY","start_date":"Jun 2024","end_date":"Aug 2024","achievements":["Built X","Shipped Y"],"skills":"Go, SQL"}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.Equal(t, "Acme Corp", r.Organization)
				assert.Equal(t, "Software Intern", r.RoleTitle)
				assert.Equal(t, "New York, NY", r.Location)
				assert.Equal(t, "2024-06-01", r.StartDate)
				assert.Equal(t, "2024-08-01", r.EndDate)
				assert.False(t, r.IsCurrent)
				assert.Equal(t, []string{"Built X", "Shipped Y"}, r.Achievements)
				assert.Equal(t, []string{"Go", "SQL"}, r.Skills)
			},
		},
		{
			name:  "alias keys",
			input: `{"company":"Globex","title":"Analyst","bullets":"Reduced cost by 10%, saving $2M","city":"Boston","technologies":["Python","Airflow"]}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.Equal(t, "Globex", r.Organization)
				assert.Equal(t, "Analyst", r.RoleTitle)
				assert.Equal(t, []string{"Reduced cost by 10%, saving $2M"}, r.Achievements)
				assert.Equal(t, "Boston", r.Location)
				assert.Equal(t, []string{"Python", "Airflow"}, r.Skills)
			},
		},
		{
			name:  "empty object gets defaults",
			input: `{}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.Equal(t, "Unknown", r.Organization)
				assert.Equal(t, "Unknown Role", r.RoleTitle)
				assert.Empty(t, r.StartDate)
				assert.False(t, r.IsCurrent)
				assert.NotNil(t, r.Achievements)
				assert.NotNil(t, r.Skills)
			},
		},
		{
			name:  "organization falls back to role without achievements",
			input: `{"role":"Founder"}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.Equal(t, "Founder", r.Organization)
				assert.Equal(t, "Founder", r.RoleTitle)
			},
		},
		{
			name:  "organization stays unknown when achievements exist",
			input: `{"role":"Founder","achievements":["Raised seed round"]}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.Equal(t, "Unknown", r.Organization)
			},
		},
		{
			name:  "present end date marks current",
			input: `{"organization":"Acme","role_title":"Engineer","start_date":"Jan 2020","end_date":"Present"}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.True(t, r.IsCurrent)
				assert.Empty(t, r.EndDate)
				assert.Equal(t, "2020-01-01", r.StartDate)
			},
		},
		{
			name:  "missing end date with start marks current",
			input: `{"organization":"Acme","role_title":"Engineer","start_date":"2021"}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.True(t, r.IsCurrent)
			},
		},
		{
			name:  "explicit flag wins over end date",
			input: `{"organization":"Acme","role_title":"Engineer","start_date":"2021","end_date":"2023","is_current":true}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.True(t, r.IsCurrent)
				assert.Empty(t, r.EndDate)
			},
		},
		{
			name:  "explicit false flag wins over missing end date",
			input: `{"title":"Engineer","start_date":"2020","is_current":false}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.False(t, r.IsCurrent)
				assert.Empty(t, r.EndDate)
				assert.Equal(t, "2020-01-01", r.StartDate)
			},
		},
		{
			name:  "current flag marks current without is_current",
			input: `{"title":"Engineer","start_date":"2020","end_date":"2022","current":true}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.True(t, r.IsCurrent)
				assert.Empty(t, r.EndDate)
			},
		},
		{
			name:  "job_title and items keys",
			input: `{"company":"Globex","job_title":"Engineer","items":["Shipped X"]}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.Equal(t, "Engineer", r.RoleTitle)
				assert.Equal(t, []string{"Shipped X"}, r.Achievements)
			},
		},
		{
			name:  "position is preferred over role",
			input: `{"company":"Globex","role":"R","position":"P"}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.Equal(t, "P", r.RoleTitle)
			},
		},
		{
			name:  "details are preferred over items and responsibilities",
			input: `{"company":"Globex","title":"E","details":["D"],"items":["I"],"responsibilities":["R"]}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.Equal(t, []string{"D"}, r.Achievements)
			},
		},
		{
			name:  "unparseable date is dropped",
			input: `{"organization":"Acme","role_title":"Engineer","start_date":"Fall semester","end_date":"2023"}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.Empty(t, r.StartDate)
				assert.Equal(t, "2023-01-01", r.EndDate)
			},
		},
		{
			name:  "numeric fields become text",
			input: `{"organization":7,"role_title":"Engineer"}`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.Equal(t, "7", r.Organization)
			},
		},
		{
			name:  "bare string is the role",
			input: `"Teaching Assistant"`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.Equal(t, "Unknown", r.Organization)
				assert.Equal(t, "Teaching Assistant", r.RoleTitle)
			},
		},
		{
			name:  "null",
			input: `null`,
			validate: func(t *testing.T, r types.ExperienceRecord) {
				assert.Equal(t, "Unknown", r.Organization)
				assert.Equal(t, "Unknown Role", r.RoleTitle)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, Experience(decode(t, tt.input)))
		})
	}
}

func TestExperience_CurrentImpliesNoEndDate(t *testing.T) {
	inputs := []string{
		`{"start_date":"2020","end_date":"Now"}`,
		`{"start_date":"2020","end_date":"2022","current":true}`,
		`{"start_date":"2020","end_date":"2022","ongoing":"true"}`,
		`{"start_date":"2020"}`,
	}
	for _, input := range inputs {
		r := Experience(decode(t, input))
		assert.True(t, r.IsCurrent, input)
		assert.Empty(t, r.EndDate, input)
	}
}

func TestNormalizer_DateWarning(t *testing.T) {
	var warnings []string
	n := &Normalizer{DateWarning: func(field, raw string) {
		warnings = append(warnings, field+"="+raw)
	}}

	n.Experience(decode(t, `{"start_date":"sometime","end_date":"2022"}`))
	n.Education(decode(t, `{"institution":"MIT","end_date":"eventually"}`))

	assert.Equal(t, []string{"start_date=sometime", "end_date=eventually"}, warnings)
}

func TestExperiences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "list", input: `[{"organization":"A"},{"organization":"B"}]`, want: 2},
		{name: "single object", input: `{"organization":"A"}`, want: 1},
		{name: "string", input: `"not a list"`, want: 0},
		{name: "null", input: `null`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Experiences(decode(t, tt.input))
			assert.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestEducation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		validate func(*testing.T, types.EducationRecord)
	}{
		{
			name:  "canonical keys",
			input: `{"institution":"State University","degree":"B.S.","field_of_study":"Computer Science","end_date":"May 2025","achievements":["GPA 3.9"]}`,
			validate: func(t *testing.T, r types.EducationRecord) {
				assert.Equal(t, "State University", r.Institution)
				assert.Equal(t, types.TextList{"B.S."}, r.Degree)
				assert.Equal(t, types.TextList{"Computer Science"}, r.FieldOfStudy)
				assert.Equal(t, "2025-05-01", r.EndDate)
				assert.Equal(t, []string{"GPA 3.9"}, r.Achievements)
			},
		},
		{
			name:  "major fills degree and field",
			input: `{"school":"Tech Institute","major":"Physics"}`,
			validate: func(t *testing.T, r types.EducationRecord) {
				assert.Equal(t, "Tech Institute", r.Institution)
				assert.Equal(t, types.TextList{"Physics"}, r.Degree)
				assert.Equal(t, types.TextList{"Physics"}, r.FieldOfStudy)
			},
		},
		{
			name:  "list-valued field of study",
			input: `{"institution":"State University","field_of_study":["Math","Economics"]}`,
			validate: func(t *testing.T, r types.EducationRecord) {
				assert.Equal(t, types.TextList{"Math", "Economics"}, r.FieldOfStudy)
			},
		},
		{
			name:  "first achievement becomes institution",
			input: `{"details":["Community College of Denver","Dean's List"]}`,
			validate: func(t *testing.T, r types.EducationRecord) {
				assert.Equal(t, "Community College of Denver", r.Institution)
				assert.Equal(t, []string{"Dean's List"}, r.Achievements)
			},
		},
		{
			name:  "empty object",
			input: `{}`,
			validate: func(t *testing.T, r types.EducationRecord) {
				assert.Equal(t, "Unknown institution", r.Institution)
				assert.Empty(t, r.Degree)
				assert.NotNil(t, r.Achievements)
			},
		},
		{
			name:  "null",
			input: `null`,
			validate: func(t *testing.T, r types.EducationRecord) {
				assert.Equal(t, "Unknown institution", r.Institution)
				assert.Equal(t, []string{}, r.Achievements)
			},
		},
		{
			name:  "bare string",
			input: `"State University\n• Dean's List\n• GPA 3.8"`,
			validate: func(t *testing.T, r types.EducationRecord) {
				assert.Equal(t, "State University", r.Institution)
				assert.Equal(t, []string{"Dean's List", "GPA 3.8"}, r.Achievements)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, Education(decode(t, tt.input)))
		})
	}
}

func TestEducationList(t *testing.T) {
	assert.Len(t, EducationList(decode(t, `[{"institution":"A"},"B"]`)), 2)
	assert.Len(t, EducationList(decode(t, `{"institution":"A"}`)), 1)
	assert.Equal(t, []types.EducationRecord{}, EducationList(decode(t, `42`)))
}
