package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsedResumeBatch_EmptyListsSerializeAsArrays(t *testing.T) {
	batch := NewParsedResumeBatch()
	assert.True(t, batch.Empty())
	assert.Equal(t, 0, batch.RecordCount())

	data, err := json.Marshal(batch)
	require.NoError(t, err)
	assert.JSONEq(t, `{"experiences":[],"education":[],"skills":[]}`, string(data))
}

func TestExperienceRecord_OmitsUnknownOptionalFields(t *testing.T) {
	rec := ExperienceRecord{
		Organization: "Acme Corp",
		RoleTitle:    "Software Intern",
		StartDate:    "2024-06-01",
		Achievements: []string{},
		Skills:       []string{},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Acme Corp", decoded["organization"])
	assert.Equal(t, "2024-06-01", decoded["start_date"])
	assert.NotContains(t, decoded, "end_date")
	assert.NotContains(t, decoded, "location")
	assert.Equal(t, false, decoded["is_current"])
}

func TestTextList_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		list TextList
		want string
	}{
		{name: "empty", list: nil, want: `null`},
		{name: "single value", list: TextList{"B.S."}, want: `"B.S."`},
		{name: "multiple values", list: TextList{"B.S.", "M.S."}, want: `["B.S.","M.S."]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.list)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestTextList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TextList
		wantErr bool
	}{
		{name: "string", input: `" Computer Science "`, want: TextList{"Computer Science"}},
		{name: "array drops blanks", input: `["Math", "", "Physics"]`, want: TextList{"Math", "Physics"}},
		{name: "null", input: `null`, want: nil},
		{name: "blank string", input: `"  "`, want: nil},
		{name: "number", input: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got TextList
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEducationRecord_RoundTripsDegreeShapes(t *testing.T) {
	input := `{"institution":"State University","degree":"B.S.","field_of_study":["Math","CS"],"achievements":[]}`

	var rec EducationRecord
	require.NoError(t, json.Unmarshal([]byte(input), &rec))
	assert.Equal(t, TextList{"B.S."}, rec.Degree)
	assert.Equal(t, "Math, CS", rec.FieldOfStudy.String())

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(data))
}
