package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

// StudentRepository handles roster persistence.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// All returns the full roster ordered by ID.
func (r *StudentRepository) All(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	const query = `SELECT id, name, program, enrolled_year, created_at, updated_at
        FROM students ORDER BY id`
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// List returns a filtered roster page and the total match count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	where := " WHERE 1=1"
	var args []interface{}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (id ILIKE $%d OR name ILIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Program != "" {
		where += fmt.Sprintf(" AND program = $%d", len(args)+1)
		args = append(args, filter.Program)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	query := `SELECT id, name, program, enrolled_year, created_at, updated_at FROM students` + where + " ORDER BY id"
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	return students, total, nil
}

// FindByID returns a single roster entry.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	const query = `SELECT id, name, program, enrolled_year, created_at, updated_at
        FROM students WHERE id = $1`
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// BulkUpsert inserts or updates roster entries in one transaction.
// Identity (the ID) is immutable; metadata follows the latest upload.
func (r *StudentRepository) BulkUpsert(ctx context.Context, students []models.Student) error {
	if len(students) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range students {
		if students[i].CreatedAt.IsZero() {
			students[i].CreatedAt = now
		}
		students[i].UpdatedAt = now
		const query = `INSERT INTO students (id, name, program, enrolled_year, created_at, updated_at)
            VALUES (:id, :name, :program, :enrolled_year, :created_at, :updated_at)
            ON CONFLICT (id)
            DO UPDATE SET name = EXCLUDED.name, program = EXCLUDED.program,
                enrolled_year = EXCLUDED.enrolled_year, updated_at = EXCLUDED.updated_at`
		if _, err := tx.NamedExecContext(ctx, query, students[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("upsert student %s: %w", students[i].ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit students: %w", err)
	}
	return nil
}

// Programs returns the distinct program codes present on the roster.
func (r *StudentRepository) Programs(ctx context.Context) ([]string, error) {
	var programs []string
	const query = `SELECT DISTINCT program FROM students WHERE program <> '' ORDER BY program`
	if err := r.db.SelectContext(ctx, &programs, query); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}
