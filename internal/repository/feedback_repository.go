package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

// FeedbackRepository stores the append-only narrative feedback log.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Insert appends one note. Notes are never updated or deleted.
func (r *FeedbackRepository) Insert(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO feedbacks (id, student_id, assessment_key, note, author, created_at)
        VALUES (:id, :student_id, :assessment_key, :note, :author, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, feedback); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// ListByStudent returns a student's notes, oldest first.
func (r *FeedbackRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	const query = `SELECT id, student_id, assessment_key, note, author, created_at
        FROM feedbacks WHERE student_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &feedbacks, query, studentID); err != nil {
		return nil, fmt.Errorf("list feedbacks: %w", err)
	}
	return feedbacks, nil
}
