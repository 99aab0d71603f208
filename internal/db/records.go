package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-importer/internal/dedup"
	"github.com/jonathan/resume-importer/internal/types"
)

// ImportBatch replaces the records a source contributed with a freshly parsed
// batch. Records matching what the user's other sources already hold are
// skipped. Everything runs in one transaction.
func (db *DB) ImportBatch(ctx context.Context, userID, sourceID uuid.UUID, batch types.ParsedResumeBatch) (*ImportResult, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	existing, err := loadExistingKeys(ctx, tx, userID, sourceID)
	if err != nil {
		return nil, err
	}

	for _, table := range []string{"experience_records", "education_records", "skill_records"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE source_id = $1`, sourceID); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	exps := dedup.NewExperiences(batch.Experiences, existing.experiences)
	edu := dedup.NewEducation(batch.Education, existing.education)
	skills := dedup.NewSkillGroups(batch.Skills, existing.skills)

	b := &pgx.Batch{}
	for i, rec := range exps {
		row := newExperienceRow(rec)
		b.Queue(
			`INSERT INTO experience_records (user_id, source_id, organization, role_title, location,
			                                 start_date, end_date, is_current, summary, achievements, skills, ordinal)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			userID, sourceID, row.Organization, row.RoleTitle, row.Location,
			row.StartDate, row.EndDate, row.IsCurrent, row.Summary, row.Achievements, row.Skills, i+1,
		)
	}
	for i, rec := range edu {
		b.Queue(
			`INSERT INTO education_records (user_id, source_id, institution, degree, field_of_study,
			                                start_date, end_date, achievements, ordinal)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			userID, sourceID, rec.Institution, StringArray(rec.Degree), StringArray(rec.FieldOfStudy),
			ParseDate(rec.StartDate), ParseDate(rec.EndDate), StringArray(rec.Achievements), i+1,
		)
	}
	for i, rec := range skills {
		b.Queue(
			`INSERT INTO skill_records (user_id, source_id, category, skills, ordinal)
			 VALUES ($1, $2, $3, $4, $5)`,
			userID, sourceID, nullIfEmpty(rec.Category), StringArray(rec.Skills), i+1,
		)
	}

	if b.Len() > 0 {
		if err := tx.SendBatch(ctx, b).Close(); err != nil {
			return nil, fmt.Errorf("failed to insert records: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &ImportResult{
		Inserted: Counts{Experiences: len(exps), Education: len(edu), Skills: len(skills)},
		Skipped: Counts{
			Experiences: len(batch.Experiences) - len(exps),
			Education:   len(batch.Education) - len(edu),
			Skills:      len(batch.Skills) - len(skills),
		},
	}, nil
}

// newExperienceRow maps a parsed record onto its stored columns. A current
// role has no end date; the section label prefixes the summary.
func newExperienceRow(rec types.ExperienceRecord) Experience {
	row := Experience{
		Organization: rec.Organization,
		RoleTitle:    rec.RoleTitle,
		Location:     nullIfEmpty(rec.Location),
		StartDate:    ParseDate(rec.StartDate),
		IsCurrent:    rec.IsCurrent,
		Summary:      nullIfEmpty(labeledSummary(rec.SectionLabel, rec.Summary)),
		Achievements: StringArray(rec.Achievements),
		Skills:       StringArray(rec.Skills),
	}
	if !rec.IsCurrent {
		row.EndDate = ParseDate(rec.EndDate)
	}
	return row
}

func labeledSummary(label, summary string) string {
	switch {
	case label == "":
		return summary
	case summary == "":
		return label
	default:
		return label + ": " + summary
	}
}

type existingKeys struct {
	experiences []dedup.ExperienceKey
	education   []dedup.EducationKey
	skills      []dedup.SkillGroupKey
}

// loadExistingKeys reads the duplicate-detection keys of the records the user
// holds from sources other than sourceID
func loadExistingKeys(ctx context.Context, tx pgx.Tx, userID, sourceID uuid.UUID) (*existingKeys, error) {
	keys := &existingKeys{}

	rows, err := tx.Query(ctx,
		`SELECT organization, role_title, start_date FROM experience_records
		 WHERE user_id = $1 AND source_id <> $2`, userID, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing experiences: %w", err)
	}
	for rows.Next() {
		var k dedup.ExperienceKey
		var start *Date
		if err := rows.Scan(&k.Organization, &k.RoleTitle, &start); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan experience key: %w", err)
		}
		k.StartDate = start.String()
		keys.experiences = append(keys.experiences, k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load existing experiences: %w", err)
	}

	rows, err = tx.Query(ctx,
		`SELECT institution, degree, field_of_study FROM education_records
		 WHERE user_id = $1 AND source_id <> $2`, userID, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing education: %w", err)
	}
	for rows.Next() {
		var institution string
		var degree, field StringArray
		if err := rows.Scan(&institution, &degree, &field); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan education key: %w", err)
		}
		keys.education = append(keys.education, dedup.NewEducationKey(institution, degree, field))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load existing education: %w", err)
	}

	rows, err = tx.Query(ctx,
		`SELECT category, skills FROM skill_records
		 WHERE user_id = $1 AND source_id <> $2`, userID, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing skills: %w", err)
	}
	for rows.Next() {
		var category *string
		var skills StringArray
		if err := rows.Scan(&category, &skills); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan skill key: %w", err)
		}
		keys.skills = append(keys.skills, dedup.SkillGroupKey{Category: derefString(category), Skills: skills})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load existing skills: %w", err)
	}

	return keys, nil
}

// ListExperiences returns a user's stored experiences, newest start first
func (db *DB) ListExperiences(ctx context.Context, userID uuid.UUID) ([]Experience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, source_id, organization, role_title, location, start_date, end_date,
		        is_current, summary, achievements, skills, created_at
		 FROM experience_records WHERE user_id = $1
		 ORDER BY is_current DESC, start_date DESC NULLS LAST, ordinal`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	out := []Experience{}
	for rows.Next() {
		var e Experience
		if err := rows.Scan(&e.ID, &e.UserID, &e.SourceID, &e.Organization, &e.RoleTitle, &e.Location,
			&e.StartDate, &e.EndDate, &e.IsCurrent, &e.Summary, &e.Achievements, &e.Skills, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListEducation returns a user's stored education entries
func (db *DB) ListEducation(ctx context.Context, userID uuid.UUID) ([]Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, source_id, institution, degree, field_of_study, start_date, end_date,
		        achievements, created_at
		 FROM education_records WHERE user_id = $1
		 ORDER BY end_date DESC NULLS FIRST, ordinal`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	defer rows.Close()

	out := []Education{}
	for rows.Next() {
		var e Education
		if err := rows.Scan(&e.ID, &e.UserID, &e.SourceID, &e.Institution, &e.Degree, &e.FieldOfStudy,
			&e.StartDate, &e.EndDate, &e.Achievements, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListSkillGroups returns a user's stored skill groups
func (db *DB) ListSkillGroups(ctx context.Context, userID uuid.UUID) ([]SkillGroup, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, source_id, category, skills, created_at
		 FROM skill_records WHERE user_id = $1
		 ORDER BY created_at, ordinal`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skill groups: %w", err)
	}
	defer rows.Close()

	out := []SkillGroup{}
	for rows.Next() {
		var g SkillGroup
		if err := rows.Scan(&g.ID, &g.UserID, &g.SourceID, &g.Category, &g.Skills, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill group: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
