package normalize

import "strings"

// skillAliases maps common skill name variants to canonical names
var skillAliases = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"py":         "Python",
	"c sharp":    "C#",
}

// SkillKey returns the comparison key for a skill name: the canonical alias when
// one is known, lowercased and trimmed.
// Stored skill names are never rewritten; the key is only used for matching.
func SkillKey(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := skillAliases[lower]; ok {
		return strings.ToLower(canonical)
	}
	return lower
}

// SkillKeys maps SkillKey over a list, dropping blanks
func SkillKeys(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if k := SkillKey(n); k != "" {
			out = append(out, k)
		}
	}
	return out
}
