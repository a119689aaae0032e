package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

func weeklyRecord(studentID string, week int, subject models.Subject, score *float64) models.ScoreRecord {
	return models.ScoreRecord{
		StudentID: studentID,
		Week:      week,
		Subject:   subject,
		Type:      models.AssessmentWeekly,
		RawScore:  score,
	}
}

func TestMergeEmptyInputs(t *testing.T) {
	merged := Merge(nil, nil, models.DefaultThresholds())
	require.NotNil(t, merged)
	assert.Empty(t, merged)
}

func TestMergeEnrichesAndClassifies(t *testing.T) {
	cfg := models.DefaultThresholds()
	cfg.ByProgram["PHARM"] = models.ThresholdPair{RedMax: 50, YellowMax: 80}
	students := []models.Student{
		{ID: "41303001", Name: "Alice", Program: "PHARM"},
		{ID: "41201002", Name: "Bob", Program: "MED"},
	}
	records := []models.ScoreRecord{
		weeklyRecord("41303001", 3, models.SubjectBiochem, ptrFloat(45)),
		weeklyRecord("41201002", 3, models.SubjectBiochem, ptrFloat(45)),
	}

	merged := Merge(records, students, cfg)
	require.Len(t, merged, 2)

	// Sorted by student ID: Bob's record first.
	bob, alice := merged[0], merged[1]

	assert.Equal(t, "41201002", bob.StudentID)
	assert.Equal(t, models.BandYellow, bob.Band) // 45 > global 40
	assert.Equal(t, models.CohortRepeating, bob.Cohort)
	assert.Equal(t, models.DepartmentMedicine, bob.Department)

	assert.Equal(t, "41303001", alice.StudentID)
	assert.Equal(t, models.BandRed, alice.Band) // 45 <= PHARM 50
	assert.Equal(t, 50.0, alice.RedMax)
	assert.Equal(t, models.CohortOnTrack, alice.Cohort)
	assert.Equal(t, models.DepartmentPharmacy, alice.Department)
	assert.Equal(t, "03-BIOCHEM-WEEKLY", alice.AssessmentKey)
}

func TestMergeUnknownStudentFallsBackToGlobal(t *testing.T) {
	cfg := models.DefaultThresholds()
	records := []models.ScoreRecord{weeklyRecord("999", 1, models.SubjectMolbio, ptrFloat(35))}

	merged := Merge(records, nil, cfg)
	require.Len(t, merged, 1)
	assert.Equal(t, "", merged[0].Program)
	assert.Equal(t, cfg.Global.RedMax, merged[0].RedMax)
	assert.Equal(t, models.BandRed, merged[0].Band)
}

func TestMergeIsIdempotent(t *testing.T) {
	cfg := models.DefaultThresholds()
	students := []models.Student{{ID: "41301001", Name: "Casey", Program: "MED"}}
	records := []models.ScoreRecord{
		weeklyRecord("41301001", 2, models.SubjectMolbio, ptrFloat(62)),
		weeklyRecord("41301001", 1, models.SubjectBiochem, nil),
		weeklyRecord("41301001", 1, models.SubjectMolbio, ptrFloat(88)),
	}

	first := Merge(records, students, cfg)
	second := Merge(records, students, cfg)
	assert.Equal(t, first, second)

	// Deterministic order regardless of input order.
	require.Len(t, first, 3)
	assert.Equal(t, 1, first[0].Week)
	assert.Equal(t, models.SubjectBiochem, first[0].Subject)
	assert.Equal(t, models.BandGray, first[0].Band)
}

func TestFilterMatchesMergedView(t *testing.T) {
	cfg := models.DefaultThresholds()
	students := []models.Student{{ID: "41301001", Program: "MED"}}
	records := []models.ScoreRecord{
		weeklyRecord("41301001", 1, models.SubjectBiochem, ptrFloat(30)),
		weeklyRecord("41301001", 2, models.SubjectBiochem, ptrFloat(90)),
		weeklyRecord("41301001", 2, models.SubjectMolbio, ptrFloat(90)),
	}
	merged := Merge(records, students, cfg)

	reds := Filter(merged, models.ScoreFilter{Band: models.BandRed})
	require.Len(t, reds, 1)
	assert.Equal(t, 1, reds[0].Week)

	weekTwo := Filter(merged, models.ScoreFilter{Week: 2, Subject: models.SubjectMolbio})
	require.Len(t, weekTwo, 1)

	none := Filter(merged, models.ScoreFilter{Program: "PHARM"})
	assert.Empty(t, none)
}
