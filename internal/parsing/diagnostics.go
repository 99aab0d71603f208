package parsing

import (
	"errors"

	"github.com/jonathan/resume-importer/internal/types"
)

// Stage names the pipeline phase a diagnostic came from
type Stage string

// Pipeline stages
const (
	StageAI        Stage = "ai"
	StageFallback  Stage = "fallback"
	StageNormalize Stage = "normalize"
)

// Category names a record category of the batch
type Category string

// Record categories
const (
	CategoryExperiences Category = "experiences"
	CategoryEducation   Category = "education"
	CategorySkills      Category = "skills"
)

// Categories lists every record category in batch order
var Categories = []Category{CategoryExperiences, CategoryEducation, CategorySkills}

// Source records where the records of a category came from
type Source string

// Category sources
const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)

// Diagnostic describes a degraded step. Diagnostics never stop a parse.
type Diagnostic struct {
	Stage    Stage    `json:"stage"`
	Category Category `json:"category"`
	Reason   string   `json:"reason"`
	Message  string   `json:"message"`
	Err      error    `json:"-"`
}

// Result is the outcome of parsing one résumé
type Result struct {
	Batch       types.ParsedResumeBatch `json:"batch"`
	Sources     map[Category]Source     `json:"sources"`
	Diagnostics []Diagnostic            `json:"diagnostics"`
}

func newResult() *Result {
	return &Result{
		Batch:       types.NewParsedResumeBatch(),
		Sources:     map[Category]Source{CategoryExperiences: SourceNone, CategoryEducation: SourceNone, CategorySkills: SourceNone},
		Diagnostics: []Diagnostic{},
	}
}

func (r *Result) add(stage Stage, category Category, err error) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Stage:    stage,
		Category: category,
		Reason:   reason(err),
		Message:  err.Error(),
		Err:      err,
	})
}

// DiagnosticsFor returns the diagnostics recorded for one category
func (r *Result) DiagnosticsFor(category Category) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// reason maps an error to a short metric label
func reason(err error) string {
	var (
		apiErr   *APICallError
		parseErr *ParseError
		valErr   *ValidationError
		normErr  *NormalizeError
		dateErr  *DateError
	)
	switch {
	case errors.As(err, &apiErr):
		return "api"
	case errors.As(err, &parseErr):
		return "decode"
	case errors.As(err, &valErr):
		return "schema"
	case errors.As(err, &normErr):
		return "normalize"
	case errors.As(err, &dateErr):
		return "date"
	default:
		return "other"
	}
}
