package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-parser/internal/types"
)

// skillLink is one resume_skills row before the skill id is resolved
type skillLink struct {
	Name string
	Kind string
}

// skillLinks lists the skills and tools of a résumé, deduplicated by
// normalized name within each kind
func skillLinks(resume *types.ParsedResume) []skillLink {
	var links []skillLink
	seen := make(map[skillLink]bool)
	add := func(names []string, kind string) {
		for _, name := range names {
			normalized := NormalizeSkillName(name)
			key := skillLink{Name: normalized, Kind: kind}
			if normalized == "" || seen[key] {
				continue
			}
			seen[key] = true
			links = append(links, skillLink{Name: name, Kind: kind})
		}
	}
	add(resume.Skills, ResumeSkillKindSkill)
	add(resume.Tools, ResumeSkillKindTool)
	return links
}

// encodeResume marshals the résumé for the JSONB data column
func encodeResume(resume *types.ParsedResume) ([]byte, error) {
	if resume == nil {
		return nil, fmt.Errorf("resume cannot be nil")
	}
	data, err := json.Marshal(resume)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parsed resume: %w", err)
	}
	return data, nil
}

// decodeResume unmarshals the data column and restores empty slices
func decodeResume(data []byte) (*types.ParsedResume, error) {
	var resume types.ParsedResume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parsed resume: %w", err)
	}
	resume.EnsureSlices()
	return &resume, nil
}

// linkSkills replaces the résumé's skill links inside tx
func linkSkills(ctx context.Context, tx pgx.Tx, resumeID uuid.UUID, resume *types.ParsedResume) error {
	if _, err := tx.Exec(ctx, `DELETE FROM resume_skills WHERE resume_id = $1`, resumeID); err != nil {
		return fmt.Errorf("failed to clear resume skills: %w", err)
	}

	for _, link := range skillLinks(resume) {
		skill, err := findOrCreateSkill(ctx, tx, link.Name)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO resume_skills (resume_id, skill_id, kind)
			 VALUES ($1, $2, $3)
			 ON CONFLICT DO NOTHING`,
			resumeID, skill.ID, link.Kind,
		)
		if err != nil {
			return fmt.Errorf("failed to link skill %s: %w", link.Name, err)
		}
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
		// Rollback errors never overwrite the main error
		_ = rErr
	}
}

const resumeColumns = `id, user_id, filename, content_hash, storage_key, data, created_at, updated_at`

func scanResume(row pgx.Row) (*ParsedResumeRecord, error) {
	var record ParsedResumeRecord
	var data []byte
	if err := row.Scan(&record.ID, &record.UserID, &record.Filename, &record.ContentHash,
		&record.StorageKey, &data, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}
	resume, err := decodeResume(data)
	if err != nil {
		return nil, err
	}
	record.Data = resume
	return &record, nil
}

// SaveParsedResume stores a parsed résumé and links its skills and tools
func (db *DB) SaveParsedResume(ctx context.Context, input *ParsedResumeInput) (*ParsedResumeRecord, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}
	data, err := encodeResume(input.Resume)
	if err != nil {
		return nil, err
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	record, err := scanResume(tx.QueryRow(ctx,
		`INSERT INTO parsed_resumes (user_id, filename, content_hash, storage_key, data)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+resumeColumns,
		input.UserID, input.Filename, input.ContentHash, nullIfEmpty(input.StorageKey), data,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to save parsed resume: %w", err)
	}

	if err := linkSkills(ctx, tx, record.ID, input.Resume); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit parsed resume: %w", err)
	}
	return record, nil
}

// GetParsedResume retrieves a parsed résumé by ID. Returns nil, nil when absent.
func (db *DB) GetParsedResume(ctx context.Context, id uuid.UUID) (*ParsedResumeRecord, error) {
	record, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM parsed_resumes WHERE id = $1`,
		id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get parsed resume: %w", err)
	}
	return record, nil
}

// ListParsedResumesByUser retrieves a user's parsed résumés, newest first
func (db *DB) ListParsedResumesByUser(ctx context.Context, userID uuid.UUID) ([]ParsedResumeRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM parsed_resumes
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list parsed resumes: %w", err)
	}
	defer rows.Close()

	records := []ParsedResumeRecord{}
	for rows.Next() {
		record, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan parsed resume: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// UpdateParsedResume replaces the stored data after a manual edit and relinks
// skills. Returns nil, nil when the record does not exist.
func (db *DB) UpdateParsedResume(ctx context.Context, id uuid.UUID, resume *types.ParsedResume) (*ParsedResumeRecord, error) {
	data, err := encodeResume(resume)
	if err != nil {
		return nil, err
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	record, err := scanResume(tx.QueryRow(ctx,
		`UPDATE parsed_resumes SET data = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+resumeColumns,
		id, data,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update parsed resume: %w", err)
	}

	if err := linkSkills(ctx, tx, id, resume); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit parsed resume: %w", err)
	}
	return record, nil
}

// DeleteParsedResume removes a parsed résumé and its skill links.
// Returns ErrNotFound when no record matched.
func (db *DB) DeleteParsedResume(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM parsed_resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete parsed resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
