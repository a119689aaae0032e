package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

func newDashboardService(records []models.ScoreRecord) *DashboardService {
	return NewDashboardService(
		&stubScores{records: records},
		&stubRoster{students: []models.Student{{ID: "41301001", Name: "Alice", Program: "MED"}}},
		&stubThresholds{cfg: models.DefaultThresholds()},
		nil,
		zap.NewNop(),
		0,
	)
}

func TestDashboardWeeklyCountsWithFilter(t *testing.T) {
	records := []models.ScoreRecord{
		weeklyScore("41301001", 1, models.SubjectBiochem, fptr(35)),
		weeklyScore("41301001", 1, models.SubjectMolbio, fptr(85)),
		weeklyScore("41301001", 2, models.SubjectBiochem, fptr(65)),
	}
	svc := newDashboardService(records)

	counts, cached, err := svc.Weekly(context.Background(), models.ScoreFilter{})
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, counts, 2)
	assert.Equal(t, models.WeeklyBandCount{Week: 1, Red: 1, Green: 1}, counts[0])
	assert.Equal(t, models.WeeklyBandCount{Week: 2, Yellow: 1}, counts[1])

	filtered, _, err := svc.Weekly(context.Background(), models.ScoreFilter{Subject: models.SubjectBiochem})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, 0, filtered[0].Green)
}

func TestDashboardScatterRequiresBothExams(t *testing.T) {
	records := []models.ScoreRecord{
		examScore("41301001", 9, models.SubjectBiochem, models.AssessmentMidterm, 60),
		examScore("41301001", 18, models.SubjectBiochem, models.AssessmentFinal, 70),
		examScore("41301002", 9, models.SubjectBiochem, models.AssessmentMidterm, 55),
	}
	svc := newDashboardService(records)

	pairs, _, err := svc.Scatter(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "41301001", pairs[0].StudentID)
	assert.Equal(t, 60.0, pairs[0].MidtermMean)
}

func TestDashboardPivotUnknownSubject(t *testing.T) {
	svc := newDashboardService([]models.ScoreRecord{
		weeklyScore("41301001", 1, models.SubjectBiochem, fptr(50)),
	})

	_, _, err := svc.Pivot(context.Background(), "HISTORY")
	require.Error(t, err)
}

func TestDashboardPivotRows(t *testing.T) {
	records := []models.ScoreRecord{
		weeklyScore("41301001", 1, models.SubjectBiochem, fptr(50)),
		weeklyScore("41301001", 5, models.SubjectBiochem, fptr(75)),
		weeklyScore("41301001", 5, models.SubjectMolbio, fptr(90)),
	}
	svc := newDashboardService(records)

	rows, _, err := svc.Pivot(context.Background(), "biochem")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Weeks, models.MaxWeek)
	require.NotNil(t, rows[0].Weeks[4])
	assert.Equal(t, 75.0, *rows[0].Weeks[4])
	assert.Nil(t, rows[0].Weeks[1])
}

func TestDashboardMergedFilterByBand(t *testing.T) {
	records := []models.ScoreRecord{
		weeklyScore("41301001", 1, models.SubjectBiochem, fptr(35)),
		weeklyScore("41301001", 2, models.SubjectBiochem, fptr(85)),
	}
	svc := newDashboardService(records)

	merged, err := svc.Merged(context.Background(), models.ScoreFilter{Band: models.BandRed})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, models.BandRed, merged[0].Band)
	assert.Equal(t, "Alice", merged[0].StudentName)
}
