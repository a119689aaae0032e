package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/pa-ews-api/internal/models"
	appErrors "github.com/noah-isme/pa-ews-api/pkg/errors"
)

type feedbackStore interface {
	Insert(ctx context.Context, feedback *models.Feedback) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Feedback, error)
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// FeedbackService manages the append-only narrative note log. Notes
// reference assessments by composite key; the detectors never read
// them.
type FeedbackService struct {
	store     feedbackStore
	students  studentFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService constructs the service.
func NewFeedbackService(store feedbackStore, students studentFinder, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{store: store, students: students, validator: validate, logger: logger}
}

// CreateFeedbackRequest describes one note payload.
type CreateFeedbackRequest struct {
	StudentID     string `json:"student_id" validate:"required"`
	AssessmentKey string `json:"assessment_key" validate:"required"`
	Note          string `json:"note" validate:"required"`
	Author        string `json:"author"`
}

// Create validates and appends one note. The referenced student must
// exist; the assessment key must be well-formed.
func (s *FeedbackService) Create(ctx context.Context, req CreateFeedbackRequest) (*models.Feedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	if _, _, _, ok := models.ParseAssessmentKey(req.AssessmentKey); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("malformed assessment key %q", req.AssessmentKey))
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", req.StudentID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "lookup student")
	}

	feedback := &models.Feedback{
		StudentID:     req.StudentID,
		AssessmentKey: req.AssessmentKey,
		Note:          req.Note,
		Author:        req.Author,
	}
	if err := s.store.Insert(ctx, feedback); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store feedback")
	}
	s.logger.Info("feedback recorded",
		zap.String("student_id", feedback.StudentID),
		zap.String("assessment_key", feedback.AssessmentKey))
	return feedback, nil
}

// ListByStudent returns a student's notes, oldest first, with the
// assessment key expanded where it parses.
func (s *FeedbackService) ListByStudent(ctx context.Context, studentID string) ([]models.FeedbackDetail, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}
	feedbacks, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list feedbacks")
	}

	details := make([]models.FeedbackDetail, 0, len(feedbacks))
	for _, feedback := range feedbacks {
		detail := models.FeedbackDetail{Feedback: feedback}
		if week, subject, assessType, ok := models.ParseAssessmentKey(feedback.AssessmentKey); ok {
			detail.Week = &week
			detail.Subject = &subject
			detail.Type = &assessType
		}
		details = append(details, detail)
	}
	return details, nil
}
