package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ResumePrompts(t *testing.T) {
	ClearCache()

	system, err := Get("parsing.json", "extract-resume-system")
	require.NoError(t, err)
	assert.Contains(t, system, "never split a bullet on commas")
	assert.Contains(t, system, "experiences")

	user, err := Get("parsing.json", "extract-resume-user")
	require.NoError(t, err)
	assert.Contains(t, user, "{{.Extraction}}")
}

func TestGet_Errors(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")

	_, err = Get("parsing.json", "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() { MustGet("nonexistent.json", "some-key") })
	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustGet("parsing.json", "extract-resume-system"))
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "all placeholders",
			template: "Hello {{.Name}}, welcome to {{.Company}}!",
			data:     map[string]string{"Name": "Alice", "Company": "Acme Corp"},
			want:     "Hello Alice, welcome to Acme Corp!",
		},
		{
			name:     "repeated placeholder",
			template: "{{.X}}-{{.X}}",
			data:     map[string]string{"X": "a"},
			want:     "a-a",
		},
		{
			name:     "unknown placeholder kept",
			template: "{{.Missing}} text",
			data:     map[string]string{"Other": "v"},
			want:     "{{.Missing}} text",
		},
		{
			name:     "values are not re-expanded",
			template: "{{.A}}",
			data:     map[string]string{"A": "{{.B}}", "B": "nope"},
			want:     "{{.B}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("parsing.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"extract-resume-system", "extract-resume-user"}, keys)
}
