// Package pipeline runs the import flow for an uploaded résumé: store the
// source, parse it, and import the records into the user's profile.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-importer/internal/db"
	"github.com/jonathan/resume-importer/internal/ingestion"
	"github.com/jonathan/resume-importer/internal/logging"
	"github.com/jonathan/resume-importer/internal/metrics"
	"github.com/jonathan/resume-importer/internal/parsing"
	"github.com/jonathan/resume-importer/internal/types"
)

// Import steps reported through ProgressEvent
const (
	StepCreateSource = "create_source"
	StepParse        = "parse"
	StepImport       = "import"
)

// ErrSourceBusy is returned when a source is already being processed
var ErrSourceBusy = errors.New("source is already being processed")

// Store is the persistence the import flow needs
type Store interface {
	CreateSource(ctx context.Context, input *db.SourceCreateInput) (*db.Source, error)
	GetSource(ctx context.Context, id uuid.UUID) (*db.Source, error)
	SetSourceStatus(ctx context.Context, id uuid.UUID, status, parseError string) error
	ImportBatch(ctx context.Context, userID, sourceID uuid.UUID, batch types.ParsedResumeBatch) (*db.ImportResult, error)
}

// ProgressEvent represents a progress update during an import
type ProgressEvent struct {
	Step     string `json:"step"`
	Message  string `json:"message"`
	SourceID string `json:"source_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when import progress occurs
type ProgressCallback func(event ProgressEvent)

// Outcome is everything an import produced
type Outcome struct {
	Source *db.Source       `json:"source"`
	Parse  *parsing.Result  `json:"parse"`
	Import *db.ImportResult `json:"import"`
}

// Importer parses stored sources and imports their records
type Importer struct {
	store      Store
	parser     *parsing.Parser
	logger     *zap.Logger
	metrics    *metrics.Metrics
	onProgress ProgressCallback
}

// Option configures an Importer
type Option func(*Importer)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(im *Importer) { im.logger = logging.OrNop(l) }
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) Option {
	return func(im *Importer) { im.metrics = m }
}

// WithProgress registers a progress callback
func WithProgress(cb ProgressCallback) Option {
	return func(im *Importer) { im.onProgress = cb }
}

// NewImporter creates an Importer
func NewImporter(store Store, parser *parsing.Parser, opts ...Option) *Importer {
	im := &Importer{store: store, parser: parser, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// emitProgress calls the progress callback if configured
func (im *Importer) emitProgress(step string, sourceID uuid.UUID, message string, content any) {
	if im.onProgress != nil {
		im.onProgress(ProgressEvent{
			Step:     step,
			Message:  message,
			SourceID: sourceID.String(),
			Content:  content,
		})
	}
}

// CreateSource stores an extracted document as a pending source of the user
func (im *Importer) CreateSource(ctx context.Context, userID uuid.UUID, doc *ingestion.Document) (*db.Source, error) {
	source, err := im.store.CreateSource(ctx, &db.SourceCreateInput{
		UserID:      userID,
		Filename:    doc.OriginalFilename,
		MimeType:    doc.MimeType,
		RawText:     doc.Text,
		ContentHash: ingestion.ContentHash(doc.Text),
	})
	if err != nil {
		return nil, err
	}
	im.emitProgress(StepCreateSource, source.ID, fmt.Sprintf("Stored source (%d chars)", len([]rune(doc.Text))), nil)
	return source, nil
}

// ImportSource parses a stored source and imports its records. The source is
// marked processing while it runs, then parsed or failed. Parse degradations
// are reported on the outcome; only storage failures fail the import.
func (im *Importer) ImportSource(ctx context.Context, sourceID uuid.UUID) (*Outcome, error) {
	source, err := im.store.GetSource(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if source.ParseStatus == db.StatusProcessing {
		return nil, ErrSourceBusy
	}

	if err := im.store.SetSourceStatus(ctx, sourceID, db.StatusProcessing, ""); err != nil {
		return nil, err
	}

	res := im.parser.Parse(ctx, source.RawText)
	im.emitProgress(StepParse, sourceID,
		fmt.Sprintf("Parsed %d experiences, %d education entries, %d skill groups",
			len(res.Batch.Experiences), len(res.Batch.Education), len(res.Batch.Skills)),
		res)

	imported, err := im.store.ImportBatch(ctx, source.UserID, sourceID, res.Batch)
	if err != nil {
		im.logger.Error("import failed", zap.Stringer("source_id", sourceID), zap.Error(err))
		if sErr := im.store.SetSourceStatus(ctx, sourceID, db.StatusFailed, err.Error()); sErr != nil {
			im.logger.Warn("failed to record import failure", zap.Stringer("source_id", sourceID), zap.Error(sErr))
		}
		return nil, fmt.Errorf("failed to import source %s: %w", sourceID, err)
	}

	im.metrics.Duplicates("experiences", metrics.ScopeExisting, imported.Skipped.Experiences)
	im.metrics.Duplicates("education", metrics.ScopeExisting, imported.Skipped.Education)
	im.metrics.Duplicates("skills", metrics.ScopeExisting, imported.Skipped.Skills)

	if err := im.store.SetSourceStatus(ctx, sourceID, db.StatusParsed, ""); err != nil {
		return nil, err
	}
	source.ParseStatus = db.StatusParsed

	im.emitProgress(StepImport, sourceID,
		fmt.Sprintf("Imported %d records, skipped %d already present",
			imported.Inserted.Experiences+imported.Inserted.Education+imported.Inserted.Skills,
			imported.Skipped.Experiences+imported.Skipped.Education+imported.Skipped.Skills),
		imported)
	im.logger.Info("imported source",
		zap.Stringer("source_id", sourceID),
		zap.Any("inserted", imported.Inserted),
		zap.Any("skipped", imported.Skipped),
	)

	return &Outcome{Source: source, Parse: res, Import: imported}, nil
}

// ImportDocument stores a document as a new source and imports it
func (im *Importer) ImportDocument(ctx context.Context, userID uuid.UUID, doc *ingestion.Document) (*Outcome, error) {
	source, err := im.CreateSource(ctx, userID, doc)
	if err != nil {
		return nil, err
	}
	return im.ImportSource(ctx, source.ID)
}
