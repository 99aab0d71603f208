package normalize

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-importer/internal/types"
)

var skillDelimiter = regexp.MustCompile(`[,;•\n]+`)

var skillGroupKeys = struct {
	Category, Skills keyList
}{
	Category: keyList{"category", "label", "name", "group"},
	Skills:   keyList{"skills", "items", "values"},
}

// SkillGroups normalizes any raw skills value into skill groups. Accepted shapes are
// a list of groups, a single group object, an object mapping category to skills,
// and a bare string or scalar. Groups with neither a category nor skills are dropped.
func SkillGroups(raw any) []types.SkillGroupRecord {
	out := []types.SkillGroupRecord{}
	add := func(g types.SkillGroupRecord) {
		if g.Category != "" || len(g.Skills) > 0 {
			out = append(out, g)
		}
	}

	if items, ok := asList(raw); ok {
		for _, item := range items {
			add(skillGroup(item))
		}
		return out
	}

	if record, ok := raw.(map[string]any); ok {
		if isSkillGroupObject(record) {
			add(skillGroup(record))
			return out
		}
		for _, category := range sortedKeys(record) {
			add(types.SkillGroupRecord{
				Category: strings.TrimSpace(category),
				Skills:   SplitSkills(record[category]),
			})
		}
		return out
	}

	if raw != nil {
		add(skillGroup(raw))
	}
	return out
}

// SplitSkills flattens a raw skills value into trimmed, non-empty skill names.
// Strings are split on commas, semicolons, bullets and newlines.
func SplitSkills(raw any) []string {
	out := []string{}
	switch v := raw.(type) {
	case nil:
	case string:
		for _, part := range skillDelimiter.Split(v, -1) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	case map[string]any:
		for _, k := range sortedKeys(v) {
			out = append(out, SplitSkills(v[k])...)
		}
	default:
		if items, ok := asList(v); ok {
			for _, item := range items {
				out = append(out, SplitSkills(item)...)
			}
		} else if s := text(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func skillGroup(raw any) types.SkillGroupRecord {
	record, ok := raw.(map[string]any)
	if !ok {
		return types.SkillGroupRecord{Skills: SplitSkills(raw)}
	}

	g := types.SkillGroupRecord{Skills: []string{}}
	for _, k := range skillGroupKeys.Category {
		if s, ok := record[k].(string); ok && strings.TrimSpace(s) != "" {
			g.Category = strings.TrimSpace(s)
			break
		}
	}
	if v, ok := firstPresent(record, skillGroupKeys.Skills); ok {
		g.Skills = SplitSkills(v)
	}
	return g
}

func isSkillGroupObject(record map[string]any) bool {
	for _, keys := range []keyList{skillGroupKeys.Category, skillGroupKeys.Skills} {
		for _, k := range keys {
			if _, ok := record[k]; ok {
				return true
			}
		}
	}
	return false
}
