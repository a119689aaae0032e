package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

type mockStudentWriter struct {
	stored []models.Student
	err    error
}

func (m *mockStudentWriter) BulkUpsert(ctx context.Context, students []models.Student) error {
	if m.err != nil {
		return m.err
	}
	m.stored = append(m.stored, students...)
	return nil
}

type mockScoreWriter struct {
	stored []models.ScoreRecord
	err    error
}

func (m *mockScoreWriter) BulkUpsert(ctx context.Context, records []models.ScoreRecord) error {
	if m.err != nil {
		return m.err
	}
	m.stored = append(m.stored, records...)
	return nil
}

func TestIngestRosterDropsMalformedRows(t *testing.T) {
	students := &mockStudentWriter{}
	svc := NewIngestService(students, &mockScoreWriter{}, nil, nil, zap.NewNop())

	csvBody := strings.Join([]string{
		"student_id,name,program,enrolled_year",
		"41301001,Alice,MED,2024",
		",Bob,MED,2024",
		"41301003,Carol,pharm,not-a-year",
		"41301004,Dave,,",
	}, "\n")

	summary, err := svc.IngestRoster(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalRows)
	assert.Equal(t, 2, summary.Accepted)
	assert.Equal(t, 2, summary.Dropped)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, 3, summary.Errors[0].Line)
	assert.Equal(t, 4, summary.Errors[1].Line)

	require.Len(t, students.stored, 2)
	assert.Equal(t, "MED", students.stored[0].Program)
	assert.Equal(t, "Dave", students.stored[1].Name)
	assert.Equal(t, 0, students.stored[1].EnrolledYear)
}

func TestIngestScoresParsesAbsencesAndDropsInvalid(t *testing.T) {
	scores := &mockScoreWriter{}
	svc := NewIngestService(&mockStudentWriter{}, scores, nil, nil, zap.NewNop())

	csvBody := strings.Join([]string{
		"student_id,week,subject,type,score",
		"41301001,1,biochem,weekly,35.5",
		"41301001,2,BIOCHEM,WEEKLY,",
		"41301001,19,BIOCHEM,WEEKLY,50",
		"41301001,3,HISTORY,WEEKLY,50",
		"41301001,4,BIOCHEM,QUIZ,50",
		"41301001,5,BIOCHEM,WEEKLY,140",
	}, "\n")

	summary, err := svc.IngestScores(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Accepted)
	assert.Equal(t, 4, summary.Dropped)

	require.Len(t, scores.stored, 2)
	require.NotNil(t, scores.stored[0].RawScore)
	assert.Equal(t, 35.5, *scores.stored[0].RawScore)
	assert.Equal(t, models.SubjectBiochem, scores.stored[0].Subject)
	assert.Nil(t, scores.stored[1].RawScore)
}

func TestIngestScoresAcceptsRawScoreHeader(t *testing.T) {
	scores := &mockScoreWriter{}
	svc := NewIngestService(&mockStudentWriter{}, scores, nil, nil, zap.NewNop())

	csvBody := strings.Join([]string{
		"student_id,week,subject,type,raw_score",
		"41301001,1,BIOCHEM,WEEKLY,35.5",
		"41301001,2,BIOCHEM,WEEKLY,",
	}, "\n")

	summary, err := svc.IngestScores(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Accepted)
	assert.Equal(t, 0, summary.Dropped)
	require.Len(t, scores.stored, 2)
	require.NotNil(t, scores.stored[0].RawScore)
	assert.Equal(t, 35.5, *scores.stored[0].RawScore)
	assert.Nil(t, scores.stored[1].RawScore)
}

func TestIngestScoresColumnsInAnyOrder(t *testing.T) {
	scores := &mockScoreWriter{}
	svc := NewIngestService(&mockStudentWriter{}, scores, nil, nil, zap.NewNop())

	csvBody := strings.Join([]string{
		"score,type,subject,week,student_id",
		"62,MIDTERM,MOLBIO,9,41301001",
	}, "\n")

	summary, err := svc.IngestScores(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Accepted)
	require.Len(t, scores.stored, 1)
	assert.Equal(t, 9, scores.stored[0].Week)
	assert.Equal(t, models.AssessmentMidterm, scores.stored[0].Type)
}

func TestIngestScoresMissingColumn(t *testing.T) {
	svc := NewIngestService(&mockStudentWriter{}, &mockScoreWriter{}, nil, nil, zap.NewNop())

	_, err := svc.IngestScores(context.Background(), strings.NewReader("student_id,week,subject,score\n41301001,1,BIOCHEM,50"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type")
}

func TestIngestRosterEmptyFile(t *testing.T) {
	svc := NewIngestService(&mockStudentWriter{}, &mockScoreWriter{}, nil, nil, zap.NewNop())

	_, err := svc.IngestRoster(context.Background(), strings.NewReader(""))
	require.Error(t, err)
}
