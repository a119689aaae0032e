package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

func record(studentID string, week int, subject models.Subject, assessType models.AssessmentType, score float64) models.ScoreRecord {
	return models.ScoreRecord{
		StudentID: studentID,
		Week:      week,
		Subject:   subject,
		Type:      assessType,
		RawScore:  ptrFloat(score),
	}
}

func TestDivergenceMidtermGapTriggers(t *testing.T) {
	cfg := models.DefaultThresholds() // yellow_max 70, mid_low 60
	records := []models.ScoreRecord{
		record("s1", 1, models.SubjectBiochem, models.AssessmentWeekly, 75),
		record("s1", 2, models.SubjectBiochem, models.AssessmentWeekly, 75),
		record("s1", 9, models.SubjectBiochem, models.AssessmentMidterm, 55),
	}
	merged := Merge(records, nil, cfg)

	flags := Divergence(merged, cfg)
	require.Len(t, flags, 1)
	assert.Contains(t, flags[0].Reason, "midterm")
	require.NotNil(t, flags[0].WeeklyMean)
	assert.Equal(t, 75.0, *flags[0].WeeklyMean)
	require.NotNil(t, flags[0].MidtermMean)
	assert.Equal(t, 55.0, *flags[0].MidtermMean)
}

func TestDivergenceSkipsConditionWhenOperandMissing(t *testing.T) {
	cfg := models.DefaultThresholds()
	// High weekly mean but no midterm or final data at all.
	records := []models.ScoreRecord{
		record("s1", 1, models.SubjectBiochem, models.AssessmentWeekly, 90),
	}
	merged := Merge(records, nil, cfg)

	assert.Empty(t, Divergence(merged, cfg))
}

func TestDivergenceFinalGapTriggers(t *testing.T) {
	cfg := models.DefaultThresholds()
	records := []models.ScoreRecord{
		record("s1", 1, models.SubjectMolbio, models.AssessmentWeekly, 80),
		record("s1", 18, models.SubjectMolbio, models.AssessmentFinal, 50),
	}
	merged := Merge(records, nil, cfg)

	flags := Divergence(merged, cfg)
	require.Len(t, flags, 1)
	assert.Contains(t, flags[0].Reason, "final")
	assert.NotContains(t, flags[0].Reason, "midterm")
}

func TestDivergenceCrossSubjectGap(t *testing.T) {
	cfg := models.DefaultThresholds() // cross_gap 20
	records := []models.ScoreRecord{
		record("s1", 1, models.SubjectBiochem, models.AssessmentWeekly, 80),
		record("s1", 2, models.SubjectBiochem, models.AssessmentWeekly, 80),
		record("s1", 1, models.SubjectMolbio, models.AssessmentWeekly, 55),
		record("s1", 2, models.SubjectMolbio, models.AssessmentWeekly, 55),
	}
	merged := Merge(records, nil, cfg)

	flags := Divergence(merged, cfg)
	require.Len(t, flags, 1)
	assert.Contains(t, flags[0].Reason, "cross-subject gap")
	require.NotNil(t, flags[0].CrossGap)
	assert.Equal(t, 25.0, *flags[0].CrossGap)
}

func TestDivergenceCrossGapRequiresBothSubjects(t *testing.T) {
	cfg := models.DefaultThresholds()
	records := []models.ScoreRecord{
		record("s1", 1, models.SubjectBiochem, models.AssessmentWeekly, 20),
	}
	merged := Merge(records, nil, cfg)

	assert.Empty(t, Divergence(merged, cfg))
}

func TestDivergenceConcatenatesAllReasons(t *testing.T) {
	cfg := models.DefaultThresholds()
	records := []models.ScoreRecord{
		record("s1", 1, models.SubjectBiochem, models.AssessmentWeekly, 95),
		record("s1", 1, models.SubjectMolbio, models.AssessmentWeekly, 60),
		record("s1", 9, models.SubjectBiochem, models.AssessmentMidterm, 40),
		record("s1", 18, models.SubjectBiochem, models.AssessmentFinal, 45),
	}
	merged := Merge(records, nil, cfg)

	flags := Divergence(merged, cfg)
	require.Len(t, flags, 1)
	// weekly mean 77.5 >= 70; midterm 40 < 60; final 45 < 60; gap 35 >= 20
	assert.Contains(t, flags[0].Reason, "midterm")
	assert.Contains(t, flags[0].Reason, "final")
	assert.Contains(t, flags[0].Reason, "cross-subject gap")
}

func TestDivergenceEmptyInput(t *testing.T) {
	cfg := models.DefaultThresholds()
	flags := Divergence(nil, cfg)
	require.NotNil(t, flags)
	assert.Empty(t, flags)
}
