package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/pa-ews-api/internal/dto"
	"github.com/noah-isme/pa-ews-api/internal/models"
	appErrors "github.com/noah-isme/pa-ews-api/pkg/errors"
)

type studentWriter interface {
	BulkUpsert(ctx context.Context, students []models.Student) error
}

type scoreWriter interface {
	BulkUpsert(ctx context.Context, records []models.ScoreRecord) error
}

// IngestService parses roster and score CSV uploads, drops malformed
// rows with a counted summary and merges the valid remainder into the
// master store. A re-upload of the same (student, week, subject, type)
// overwrites the previous value.
type IngestService struct {
	students studentWriter
	scores   scoreWriter
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewIngestService constructs the service.
func NewIngestService(students studentWriter, scores scoreWriter, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *IngestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{students: students, scores: scores, cache: cache, metrics: metrics, logger: logger}
}

// Roster CSV columns. Order is free; matching is case-insensitive.
var rosterColumns = []string{"student_id", "name", "program", "enrolled_year"}

// Score CSV columns. An empty raw_score cell records an absence.
var scoreColumns = []string{"student_id", "week", "subject", "type", "raw_score"}

// columnAliases maps accepted alternate header names onto canonical
// column names, so files headed either "raw_score" or "score" ingest
// the same way.
var columnAliases = map[string]string{"score": "raw_score"}

// IngestRoster parses one roster CSV and upserts the valid rows.
func (s *IngestService) IngestRoster(ctx context.Context, reader io.Reader) (*dto.UploadSummary, error) {
	rows, header, err := readCSV(reader, rosterColumns)
	if err != nil {
		return nil, err
	}

	summary := &dto.UploadSummary{TotalRows: len(rows)}
	students := make([]models.Student, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		student, reason := parseRosterRow(row, header)
		if reason != "" {
			summary.Errors = append(summary.Errors, dto.RowError{Line: line, Reason: reason})
			continue
		}
		students = append(students, student)
	}
	summary.Accepted = len(students)
	summary.Dropped = len(summary.Errors)

	if err := s.students.BulkUpsert(ctx, students); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store roster")
	}
	s.finish(ctx, "roster", summary)
	return summary, nil
}

// IngestScores parses one score CSV and merges the valid rows.
func (s *IngestService) IngestScores(ctx context.Context, reader io.Reader) (*dto.UploadSummary, error) {
	rows, header, err := readCSV(reader, scoreColumns)
	if err != nil {
		return nil, err
	}

	summary := &dto.UploadSummary{TotalRows: len(rows)}
	records := make([]models.ScoreRecord, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		record, reason := parseScoreRow(row, header)
		if reason != "" {
			summary.Errors = append(summary.Errors, dto.RowError{Line: line, Reason: reason})
			continue
		}
		records = append(records, record)
	}
	summary.Accepted = len(records)
	summary.Dropped = len(summary.Errors)

	if err := s.scores.BulkUpsert(ctx, records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store scores")
	}
	s.finish(ctx, "scores", summary)
	return summary, nil
}

func (s *IngestService) finish(ctx context.Context, kind string, summary *dto.UploadSummary) {
	if summary.Dropped > 0 {
		s.logger.Warn("upload rows dropped",
			zap.String("kind", kind),
			zap.Int("dropped", summary.Dropped),
			zap.Int("accepted", summary.Accepted))
	}
	if s.metrics != nil {
		s.metrics.RecordIngest(kind, summary.Accepted, summary.Dropped)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "report:*"); err != nil {
			s.logger.Warn("report cache invalidation failed", zap.Error(err))
		}
	}
}

// readCSV reads all records and resolves required columns from the
// header line, in any order.
func readCSV(reader io.Reader, required []string) ([][]string, map[string]int, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unreadable csv")
	}
	if len(all) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "empty csv")
	}

	header := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for alias, canonical := range columnAliases {
		if idx, ok := header[alias]; ok {
			if _, taken := header[canonical]; !taken {
				header[canonical] = idx
			}
		}
	}
	for _, name := range required {
		if _, ok := header[name]; !ok {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("missing column %q", name))
		}
	}
	return all[1:], header, nil
}

func cell(row []string, header map[string]int, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseRosterRow(row []string, header map[string]int) (models.Student, string) {
	student := models.Student{
		ID:      cell(row, header, "student_id"),
		Name:    cell(row, header, "name"),
		Program: strings.ToUpper(cell(row, header, "program")),
	}
	if student.ID == "" {
		return models.Student{}, "student_id is required"
	}
	if student.Name == "" {
		return models.Student{}, "name is required"
	}
	if raw := cell(row, header, "enrolled_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return models.Student{}, fmt.Sprintf("invalid enrolled_year %q", raw)
		}
		student.EnrolledYear = year
	}
	return student, ""
}

func parseScoreRow(row []string, header map[string]int) (models.ScoreRecord, string) {
	record := models.ScoreRecord{StudentID: cell(row, header, "student_id")}
	if record.StudentID == "" {
		return models.ScoreRecord{}, "student_id is required"
	}

	week, err := strconv.Atoi(cell(row, header, "week"))
	if err != nil || week < models.MinWeek || week > models.MaxWeek {
		return models.ScoreRecord{}, fmt.Sprintf("week must be %d..%d", models.MinWeek, models.MaxWeek)
	}
	record.Week = week

	subject, ok := models.ParseSubject(cell(row, header, "subject"))
	if !ok {
		return models.ScoreRecord{}, fmt.Sprintf("unknown subject %q", cell(row, header, "subject"))
	}
	record.Subject = subject

	assessType, ok := models.ParseAssessmentType(cell(row, header, "type"))
	if !ok {
		return models.ScoreRecord{}, fmt.Sprintf("unknown type %q", cell(row, header, "type"))
	}
	record.Type = assessType

	if raw := cell(row, header, "raw_score"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 || value > 100 {
			return models.ScoreRecord{}, fmt.Sprintf("raw_score %q is not in 0..100", raw)
		}
		record.RawScore = &value
	}
	return record, ""
}
