package normalize

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-importer/internal/types"
)

var canonicalDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// oddShapes are the values a model has been seen to put in any field
var oddShapes = map[string]any{
	"nil":          nil,
	"number":       42.0,
	"bool":         true,
	"empty string": "",
	"padded":       "  text  ",
	"mixed list":   []any{1.0, nil, "x", map[string]any{"a": "b"}, []any{"deep"}},
	"empty list":   []any{},
	"object":       map[string]any{"nested": []any{"a", 2.0}},
	"nested lists": []any{[]any{[]any{"deeper"}}},
	"string list":  []string{"a", " ", "b"},
}

func experienceKeyNames() []string {
	var names []string
	for _, keys := range []keyList{
		experienceKeys.Organization, experienceKeys.RoleTitle, experienceKeys.Achievements,
		experienceKeys.Location, experienceKeys.StartDate, experienceKeys.EndDate,
		experienceKeys.Summary, experienceKeys.SectionLabel, experienceKeys.Skills,
	} {
		names = append(names, keys...)
	}
	return append(names, "is_current", "current", "ongoing")
}

func educationKeyNames() []string {
	var names []string
	for _, keys := range []keyList{
		educationKeys.Institution, educationKeys.Degree, educationKeys.FieldOfStudy,
		educationKeys.Achievements, educationKeys.StartDate, educationKeys.EndDate,
	} {
		names = append(names, keys...)
	}
	return names
}

func skillKeyNames() []string {
	return append(append([]string{}, skillGroupKeys.Category...), skillGroupKeys.Skills...)
}

func assertCleanList(t *testing.T, items []string, msg string) {
	t.Helper()
	require.NotNil(t, items, msg)
	for _, s := range items {
		assert.NotEmpty(t, s, msg)
	}
}

func assertDate(t *testing.T, d, msg string) {
	t.Helper()
	if d != "" {
		assert.Regexp(t, canonicalDate, d, msg)
	}
}

func assertExperience(t *testing.T, r types.ExperienceRecord, msg string) {
	t.Helper()
	assert.NotEmpty(t, r.Organization, msg)
	assert.NotEmpty(t, r.RoleTitle, msg)
	assertCleanList(t, r.Achievements, msg)
	assertCleanList(t, r.Skills, msg)
	assertDate(t, r.StartDate, msg)
	assertDate(t, r.EndDate, msg)
	if r.IsCurrent {
		assert.Empty(t, r.EndDate, msg)
	}
}

func assertEducation(t *testing.T, r types.EducationRecord, msg string) {
	t.Helper()
	assert.NotEmpty(t, r.Institution, msg)
	assertCleanList(t, r.Achievements, msg)
	for _, s := range append(append([]string{}, r.Degree...), r.FieldOfStudy...) {
		assert.NotEmpty(t, s, msg)
	}
	assertDate(t, r.StartDate, msg)
	assertDate(t, r.EndDate, msg)
}

func assertSkillGroups(t *testing.T, groups []types.SkillGroupRecord, msg string) {
	t.Helper()
	require.NotNil(t, groups, msg)
	for _, g := range groups {
		assert.True(t, g.Category != "" || len(g.Skills) > 0, msg)
		assertCleanList(t, g.Skills, msg)
	}
}

func TestExperience_AnyShapeInAnyField(t *testing.T) {
	for shapeName, shape := range oddShapes {
		msg := fmt.Sprintf("bare %s", shapeName)
		assert.NotPanics(t, func() { assertExperience(t, Experience(shape), msg) }, msg)

		all := map[string]any{}
		for _, key := range experienceKeyNames() {
			msg := fmt.Sprintf("%s in %s", shapeName, key)
			assert.NotPanics(t, func() {
				assertExperience(t, Experience(map[string]any{key: shape}), msg)
			}, msg)
			all[key] = shape
		}
		msg = fmt.Sprintf("%s in every field", shapeName)
		assert.NotPanics(t, func() { assertExperience(t, Experience(all), msg) }, msg)
	}
}

func TestEducation_AnyShapeInAnyField(t *testing.T) {
	for shapeName, shape := range oddShapes {
		msg := fmt.Sprintf("bare %s", shapeName)
		assert.NotPanics(t, func() { assertEducation(t, Education(shape), msg) }, msg)

		all := map[string]any{}
		for _, key := range educationKeyNames() {
			msg := fmt.Sprintf("%s in %s", shapeName, key)
			assert.NotPanics(t, func() {
				assertEducation(t, Education(map[string]any{key: shape}), msg)
			}, msg)
			all[key] = shape
		}
		msg = fmt.Sprintf("%s in every field", shapeName)
		assert.NotPanics(t, func() { assertEducation(t, Education(all), msg) }, msg)
	}
}

func TestSkillGroups_AnyShapeInAnyField(t *testing.T) {
	for shapeName, shape := range oddShapes {
		msg := fmt.Sprintf("bare %s", shapeName)
		assert.NotPanics(t, func() { assertSkillGroups(t, SkillGroups(shape), msg) }, msg)

		for _, key := range skillKeyNames() {
			msg := fmt.Sprintf("%s in %s", shapeName, key)
			assert.NotPanics(t, func() {
				assertSkillGroups(t, SkillGroups(map[string]any{key: shape}), msg)
				assertSkillGroups(t, SkillGroups([]any{map[string]any{key: shape}}), msg)
			}, msg)
		}

		msg = fmt.Sprintf("%s as a category value", shapeName)
		assert.NotPanics(t, func() {
			assertSkillGroups(t, SkillGroups(map[string]any{"Languages": shape}), msg)
		}, msg)
	}
}

func TestLists_AnyShapeOfContainer(t *testing.T) {
	for shapeName, shape := range oddShapes {
		assert.NotPanics(t, func() {
			for _, r := range Experiences(shape) {
				assertExperience(t, r, shapeName)
			}
			for _, r := range EducationList(shape) {
				assertEducation(t, r, shapeName)
			}
		}, shapeName)
		assert.NotNil(t, Experiences(shape), shapeName)
		assert.NotNil(t, EducationList(shape), shapeName)
	}
}
