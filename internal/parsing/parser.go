// Package parsing turns raw résumé text into a deduplicated ParsedResumeBatch.
//
// A parse runs three phases. The language model extracts all three categories;
// the heuristic extractor fills experiences or education when the model produced
// none; duplicates are then merged within the batch. Failures in any phase are
// recorded as diagnostics and never abort the parse.
package parsing

import (
	"context"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/resume-importer/internal/dedup"
	"github.com/jonathan/resume-importer/internal/fallback"
	"github.com/jonathan/resume-importer/internal/llm"
	"github.com/jonathan/resume-importer/internal/logging"
	"github.com/jonathan/resume-importer/internal/metrics"
	"github.com/jonathan/resume-importer/internal/normalize"
	"github.com/jonathan/resume-importer/internal/prompts"
	"github.com/jonathan/resume-importer/internal/schemas"
	"github.com/jonathan/resume-importer/internal/types"
)

// Defaults for a Parser
const (
	DefaultMaxInputChars = 50000
	DefaultTimeout       = 90 * time.Second
)

// Parser extracts résumé records. It is safe for concurrent use.
type Parser struct {
	client        llm.Client
	tier          llm.ModelTier
	logger        *zap.Logger
	metrics       *metrics.Metrics
	maxInputChars int
	timeout       time.Duration
}

// Option configures a Parser
type Option func(*Parser)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) { p.logger = logging.OrNop(l) }
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Parser) { p.metrics = m }
}

// WithTier sets the model tier used for extraction
func WithTier(tier llm.ModelTier) Option {
	return func(p *Parser) { p.tier = tier }
}

// WithMaxInputChars caps how much text is sent to the model. The heuristic
// extractor always sees the full text.
func WithMaxInputChars(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxInputChars = n
		}
	}
}

// WithTimeout bounds the model request
func WithTimeout(d time.Duration) Option {
	return func(p *Parser) { p.timeout = d }
}

// New creates a Parser. A nil client skips the model and relies on the
// heuristic extractor.
func New(client llm.Client, opts ...Option) *Parser {
	p := &Parser{
		client:        client,
		tier:          llm.TierStandard,
		logger:        zap.NewNop(),
		maxInputChars: DefaultMaxInputChars,
		timeout:       DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseResume parses text with a default Parser and returns only the batch
func ParseResume(ctx context.Context, text string, client llm.Client) types.ParsedResumeBatch {
	return New(client).Parse(ctx, text).Batch
}

// Parse extracts, fills and deduplicates the records of one résumé
func (p *Parser) Parse(ctx context.Context, rawText string) *Result {
	started := time.Now()
	res := newResult()

	exps, edu, skills := p.extractWithModel(ctx, rawText, res)

	if len(exps) == 0 {
		exps = p.fallbackExperiences(rawText, res)
	}
	if len(edu) == 0 {
		edu = p.fallbackEducation(rawText, res)
	}

	merged := dedup.Experiences(exps)
	p.metrics.Duplicates(string(CategoryExperiences), metrics.ScopeBatch, len(exps)-len(merged))
	res.Batch.Experiences = canonicalExperiences(merged)

	mergedEdu := dedup.EducationList(edu)
	p.metrics.Duplicates(string(CategoryEducation), metrics.ScopeBatch, len(edu)-len(mergedEdu))
	res.Batch.Education = canonicalEducation(mergedEdu)

	res.Batch.Skills = skills

	p.metrics.Records(string(CategoryExperiences), len(res.Batch.Experiences))
	p.metrics.Records(string(CategoryEducation), len(res.Batch.Education))
	p.metrics.Records(string(CategorySkills), len(res.Batch.Skills))
	p.metrics.ObserveParse(time.Since(started).Seconds())

	p.logger.Info("parsed résumé",
		zap.Int("experiences", len(res.Batch.Experiences)),
		zap.Int("education", len(res.Batch.Education)),
		zap.Int("skill_groups", len(res.Batch.Skills)),
		zap.Any("sources", res.Sources),
		zap.Int("diagnostics", len(res.Diagnostics)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return res
}

// extractWithModel runs the model phase. Each category that fails validation
// or normalization comes back empty with a diagnostic; the others are kept.
func (p *Parser) extractWithModel(ctx context.Context, rawText string, res *Result) (
	exps []types.ExperienceRecord, edu []types.EducationRecord, skills []types.SkillGroupRecord,
) {
	exps, edu, skills = []types.ExperienceRecord{}, []types.EducationRecord{}, []types.SkillGroupRecord{}

	if p.client == nil {
		p.failAll(res, &APICallError{Message: "language model not configured"})
		return exps, edu, skills
	}

	payload, err := p.requestPayload(ctx, rawText)
	if err != nil {
		p.failAll(res, err)
		return exps, edu, skills
	}

	categoryErrs, err := schemas.ValidatePayload(payload)
	if err != nil {
		p.failAll(res, &ValidationError{Message: "response does not match the expected shape", Cause: err})
		return exps, edu, skills
	}

	for _, category := range Categories {
		if ce, bad := categoryErrs[string(category)]; bad {
			p.fail(res, category, &ValidationError{Field: string(category), Message: "unexpected shape", Cause: ce})
			continue
		}

		norm := p.normalizer(res, category, StageAI)
		raw := payload[string(category)]
		err := guard(category, func() {
			switch category {
			case CategoryExperiences:
				exps = norm.Experiences(raw)
			case CategoryEducation:
				edu = norm.EducationList(raw)
			case CategorySkills:
				skills = normalize.SkillGroups(raw)
			}
		})
		if err != nil {
			p.fail(res, category, err)
		}
	}

	if len(exps) > 0 {
		res.Sources[CategoryExperiences] = SourceAI
	}
	if len(edu) > 0 {
		res.Sources[CategoryEducation] = SourceAI
	}
	if len(skills) > 0 {
		res.Sources[CategorySkills] = SourceAI
	}
	return exps, edu, skills
}

// requestPayload calls the model and decodes its response into a JSON object
func (p *Parser) requestPayload(ctx context.Context, rawText string) (map[string]any, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	schema := llm.ResumeRecordsSchema(prompts.MustGet("parsing.json", "extract-resume-system"))
	prompt := prompts.Format(prompts.MustGet("parsing.json", "extract-resume-user"), map[string]string{
		"Extraction": llm.BuildExtractionPrompt(schema, truncate(rawText, p.maxInputChars)),
	})

	responseText, err := p.client.GenerateJSON(ctx, schema.SystemInstruction(), prompt, p.tier)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate content from LLM", Cause: err}
	}

	payload, err := llm.DecodeObject(responseText)
	if err != nil {
		return nil, &ParseError{Message: "failed to parse JSON response", Cause: err}
	}
	return payload, nil
}

func (p *Parser) fallbackExperiences(rawText string, res *Result) []types.ExperienceRecord {
	out := []types.ExperienceRecord{}
	norm := p.normalizer(res, CategoryExperiences, StageFallback)
	err := guard(CategoryExperiences, func() {
		out = norm.Experiences(fallback.Experiences(rawText))
	})
	if err != nil {
		res.add(StageFallback, CategoryExperiences, err)
		return []types.ExperienceRecord{}
	}
	p.recordFallback(res, CategoryExperiences, len(out))
	return out
}

func (p *Parser) fallbackEducation(rawText string, res *Result) []types.EducationRecord {
	out := []types.EducationRecord{}
	norm := p.normalizer(res, CategoryEducation, StageFallback)
	err := guard(CategoryEducation, func() {
		out = norm.EducationList(fallback.Education(rawText))
	})
	if err != nil {
		res.add(StageFallback, CategoryEducation, err)
		return []types.EducationRecord{}
	}
	p.recordFallback(res, CategoryEducation, len(out))
	return out
}

func (p *Parser) recordFallback(res *Result, category Category, n int) {
	if n == 0 {
		p.logger.Debug("heuristic extractor found nothing", zap.String("category", string(category)))
		return
	}
	res.Sources[category] = SourceFallback
	p.metrics.Fallback(string(category))
	p.logger.Info("filled category from heuristic extractor",
		zap.String("category", string(category)),
		zap.Int("records", n),
	)
}

// normalizer returns a Normalizer that records dropped dates as diagnostics
func (p *Parser) normalizer(res *Result, category Category, stage Stage) *normalize.Normalizer {
	return &normalize.Normalizer{
		DateWarning: func(field, raw string) {
			p.logger.Warn("dropped unparseable date",
				zap.String("category", string(category)),
				zap.String("field", field),
				zap.String("value", raw),
			)
			res.add(stage, category, &DateError{Field: field, Value: raw})
		},
	}
}

func (p *Parser) fail(res *Result, category Category, err error) {
	res.add(StageAI, category, err)
	p.metrics.AIFailure(string(category), reason(err))
	p.logger.Warn("model extraction failed for category",
		zap.String("category", string(category)),
		zap.Error(err),
	)
}

func (p *Parser) failAll(res *Result, err error) {
	for _, category := range Categories {
		p.fail(res, category, err)
	}
}

// guard runs fn and converts a panic into a NormalizeError
func guard(category Category, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &NormalizeError{Category: category, Panic: r}
		}
	}()
	fn()
	return nil
}

// canonicalExperiences re-applies record invariants after merging
func canonicalExperiences(records []types.ExperienceRecord) []types.ExperienceRecord {
	out := make([]types.ExperienceRecord, len(records))
	for i, r := range records {
		if r.IsCurrent {
			r.EndDate = ""
		}
		if r.Achievements == nil {
			r.Achievements = []string{}
		}
		if r.Skills == nil {
			r.Skills = []string{}
		}
		out[i] = r
	}
	return out
}

func canonicalEducation(records []types.EducationRecord) []types.EducationRecord {
	out := make([]types.EducationRecord, len(records))
	for i, r := range records {
		if r.Achievements == nil {
			r.Achievements = []string{}
		}
		out[i] = r
	}
	return out
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
