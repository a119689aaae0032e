package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

// AnonRepository maintains the append-only student-to-alias mapping.
// Aliases are sequential (S0001, S0002, ...) and never reassigned, so
// exports stay stable across roster re-uploads.
type AnonRepository struct {
	db *sqlx.DB
}

// NewAnonRepository creates a new anonymization repository.
func NewAnonRepository(db *sqlx.DB) *AnonRepository {
	return &AnonRepository{db: db}
}

// All returns the full mapping keyed by student ID.
func (r *AnonRepository) All(ctx context.Context) (map[string]models.AnonMapping, error) {
	var rows []models.AnonMapping
	const query = `SELECT student_id, anon_id, seq, created_at FROM anon_map ORDER BY seq`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list anon map: %w", err)
	}
	mapping := make(map[string]models.AnonMapping, len(rows))
	for _, row := range rows {
		mapping[row.StudentID] = row
	}
	return mapping, nil
}

// EnsureAliases assigns the next sequential aliases to any of the given
// students that are not yet mapped, then returns the complete mapping.
// Assignment runs in one transaction so concurrent exports cannot
// duplicate a sequence number.
func (r *AnonRepository) EnsureAliases(ctx context.Context, studentIDs []string) (map[string]models.AnonMapping, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	var existing []models.AnonMapping
	const selectQuery = `SELECT student_id, anon_id, seq, created_at FROM anon_map ORDER BY seq FOR UPDATE`
	if err := tx.SelectContext(ctx, &existing, selectQuery); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, fmt.Errorf("lock anon map: %w", err)
	}

	mapping := make(map[string]models.AnonMapping, len(existing))
	nextSeq := 1
	for _, row := range existing {
		mapping[row.StudentID] = row
		if row.Seq >= nextSeq {
			nextSeq = row.Seq + 1
		}
	}

	now := time.Now().UTC()
	for _, studentID := range studentIDs {
		if _, ok := mapping[studentID]; ok {
			continue
		}
		row := models.AnonMapping{
			StudentID: studentID,
			AnonID:    fmt.Sprintf("S%04d", nextSeq),
			Seq:       nextSeq,
			CreatedAt: now,
		}
		const insertQuery = `INSERT INTO anon_map (student_id, anon_id, seq, created_at)
            VALUES (:student_id, :anon_id, :seq, :created_at)`
		if _, err := tx.NamedExecContext(ctx, insertQuery, row); err != nil {
			tx.Rollback() //nolint:errcheck
			return nil, fmt.Errorf("assign alias for %s: %w", studentID, err)
		}
		mapping[studentID] = row
		nextSeq++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit anon map: %w", err)
	}
	return mapping, nil
}
