package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sourceColumns = `id, user_id, filename, mime_type, raw_text, content_hash, parse_status, parse_error, created_at, parsed_at`

func scanSource(row pgx.Row) (*Source, error) {
	var s Source
	err := row.Scan(&s.ID, &s.UserID, &s.Filename, &s.MimeType, &s.RawText, &s.ContentHash,
		&s.ParseStatus, &s.ParseError, &s.CreatedAt, &s.ParsedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSource stores a new résumé source in the pending state
func (db *DB) CreateSource(ctx context.Context, input *SourceCreateInput) (*Source, error) {
	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = "text/plain"
	}

	source, err := scanSource(db.pool.QueryRow(ctx,
		`INSERT INTO resume_sources (user_id, filename, mime_type, raw_text, content_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+sourceColumns,
		input.UserID, nullIfEmpty(input.Filename), mimeType, input.RawText, input.ContentHash,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}
	return source, nil
}

// GetSource retrieves a source by ID. It returns ErrNotFound when there is none.
func (db *DB) GetSource(ctx context.Context, id uuid.UUID) (*Source, error) {
	source, err := scanSource(db.pool.QueryRow(ctx,
		`SELECT `+sourceColumns+` FROM resume_sources WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get source: %w", err)
	}
	return source, nil
}

// ListSources returns a user's sources, newest first
func (db *DB) ListSources(ctx context.Context, userID uuid.UUID) ([]Source, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+sourceColumns+` FROM resume_sources WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	sources := []Source{}
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, *s)
	}
	return sources, rows.Err()
}

// SetSourceStatus records the parse status of a source. parseError is stored
// only for the failed status; reaching parsed stamps parsed_at.
func (db *DB) SetSourceStatus(ctx context.Context, id uuid.UUID, status, parseError string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid parse status %q", status)
	}
	if status != StatusFailed {
		parseError = ""
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE resume_sources
		 SET parse_status = $2,
		     parse_error = $3,
		     parsed_at = CASE WHEN $2 = 'parsed' THEN NOW() ELSE parsed_at END
		 WHERE id = $1`,
		id, status, nullIfEmpty(parseError),
	)
	if err != nil {
		return fmt.Errorf("failed to update source status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
