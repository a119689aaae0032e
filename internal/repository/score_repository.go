package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

// ScoreRepository persists the master score table. The
// (student, week, subject, type) tuple is unique; re-uploads overwrite
// the previous value for the same key.
type ScoreRepository struct {
	db *sqlx.DB
}

// NewScoreRepository creates a new score repository.
func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// All returns the full score snapshot ordered for deterministic merging.
func (r *ScoreRepository) All(ctx context.Context) ([]models.ScoreRecord, error) {
	var records []models.ScoreRecord
	const query = `SELECT id, student_id, week, subject, type, raw_score, created_at, updated_at
        FROM scores ORDER BY student_id, week, subject, type`
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return records, nil
}

// Count returns the number of stored score records.
func (r *ScoreRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM scores"); err != nil {
		return 0, fmt.Errorf("count scores: %w", err)
	}
	return count, nil
}

// Upsert inserts or overwrites a single score record.
func (r *ScoreRepository) Upsert(ctx context.Context, record *models.ScoreRecord) error {
	prepare(record)
	const query = `INSERT INTO scores (id, student_id, week, subject, type, raw_score, created_at, updated_at)
        VALUES (:id, :student_id, :week, :subject, :type, :raw_score, :created_at, :updated_at)
        ON CONFLICT (student_id, week, subject, type)
        DO UPDATE SET raw_score = EXCLUDED.raw_score, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}

// BulkUpsert merges a batch of records into the master table in one
// transaction.
func (r *ScoreRepository) BulkUpsert(ctx context.Context, records []models.ScoreRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	for i := range records {
		prepare(&records[i])
		const query = `INSERT INTO scores (id, student_id, week, subject, type, raw_score, created_at, updated_at)
            VALUES (:id, :student_id, :week, :subject, :type, :raw_score, :created_at, :updated_at)
            ON CONFLICT (student_id, week, subject, type)
            DO UPDATE SET raw_score = EXCLUDED.raw_score, updated_at = EXCLUDED.updated_at`
		if _, err := tx.NamedExecContext(ctx, query, records[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("bulk upsert score: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scores: %w", err)
	}
	return nil
}

func prepare(record *models.ScoreRecord) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
}
