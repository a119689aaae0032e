package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

// weeklySeries builds a merged weekly series for one student/subject,
// starting at week 1. A nil score yields a gray (absent) record.
func weeklySeries(studentID string, subject models.Subject, scores []*float64) []models.ScoredRecord {
	cfg := models.DefaultThresholds()
	records := make([]models.ScoreRecord, 0, len(scores))
	for i, score := range scores {
		records = append(records, weeklyRecord(studentID, i+1, subject, score))
	}
	return Merge(records, nil, cfg)
}

func TestConsecutiveRunsRedAndYellowBothFire(t *testing.T) {
	// Bands: RED, RED, GREEN, YELLOW, YELLOW, YELLOW with defaults 40/70.
	merged := weeklySeries("s1", models.SubjectBiochem, []*float64{
		ptrFloat(35), ptrFloat(35), ptrFloat(80), ptrFloat(65), ptrFloat(65), ptrFloat(65),
	})

	flags := ConsecutiveRuns(merged, 2, 3)
	require.Len(t, flags, 1)
	assert.Equal(t, "s1", flags[0].StudentID)
	assert.Contains(t, flags[0].Reason, "RED for >=2")
	assert.Contains(t, flags[0].Reason, "YELLOW for >=3")
	assert.Equal(t, 2, flags[0].MaxRedRun)
	assert.Equal(t, 3, flags[0].MaxYellowRun)
}

func TestConsecutiveRunsGreenResetsBothCounters(t *testing.T) {
	// RED, GREEN, RED never reaches a run of two.
	merged := weeklySeries("s1", models.SubjectBiochem, []*float64{
		ptrFloat(35), ptrFloat(80), ptrFloat(35),
	})

	flags := ConsecutiveRuns(merged, 2, 3)
	assert.Empty(t, flags)
}

func TestConsecutiveRunsAbsentWeekResets(t *testing.T) {
	merged := weeklySeries("s1", models.SubjectBiochem, []*float64{
		ptrFloat(35), nil, ptrFloat(35),
	})

	flags := ConsecutiveRuns(merged, 2, 3)
	assert.Empty(t, flags)
}

func TestConsecutiveRunsOmitsUnflaggedStudents(t *testing.T) {
	merged := append(
		weeklySeries("risky", models.SubjectBiochem, []*float64{ptrFloat(35), ptrFloat(35)}),
		weeklySeries("fine", models.SubjectBiochem, []*float64{ptrFloat(90), ptrFloat(90)})...,
	)

	flags := ConsecutiveRuns(merged, 2, 3)
	require.Len(t, flags, 1)
	assert.Equal(t, "risky", flags[0].StudentID)
}

func TestScanWindowsAndRuleTriggers(t *testing.T) {
	// [35,35,65,65] with 40/70: 2 red + 2 yellow -> red>=2 and total>=4.
	merged := weeklySeries("s1", models.SubjectBiochem, []*float64{
		ptrFloat(35), ptrFloat(35), ptrFloat(65), ptrFloat(65),
	})
	rule := models.WindowRule{MinRedCount: 2, MinTotalCount: 4, WindowLength: 4}

	triggers := ScanWindows(merged, rule)
	require.Len(t, triggers, 1)
	trigger := triggers[0]
	assert.Equal(t, "s1", trigger.StudentID)
	assert.Equal(t, models.SubjectBiochem, trigger.Subject)
	assert.Equal(t, 1, trigger.WeekStart)
	assert.Equal(t, 4, trigger.WeekEnd)
	assert.Equal(t, 2, trigger.RedCount)
	assert.Equal(t, 2, trigger.YellowCount)
	assert.Equal(t, []float64{35, 35, 65, 65}, trigger.Scores)
}

func TestScanWindowsRedCountBelowMinimumNeverTriggers(t *testing.T) {
	// [35,75,75,75]: 1 red only; total is irrelevant when red < min_red.
	merged := weeklySeries("s1", models.SubjectBiochem, []*float64{
		ptrFloat(35), ptrFloat(75), ptrFloat(75), ptrFloat(75),
	})
	rule := models.WindowRule{MinRedCount: 2, MinTotalCount: 1, WindowLength: 4}

	assert.Empty(t, ScanWindows(merged, rule))
}

func TestScanWindowsSkipsWindowsWithGaps(t *testing.T) {
	// [35,35,nil,65]: week 3 missing, the 1-4 window is never evaluated.
	merged := weeklySeries("s1", models.SubjectBiochem, []*float64{
		ptrFloat(35), ptrFloat(35), nil, ptrFloat(65),
	})
	rule := models.WindowRule{MinRedCount: 2, MinTotalCount: 2, WindowLength: 4}

	assert.Empty(t, ScanWindows(merged, rule))
}

func TestScanWindowsReportsEveryTriggeringWindow(t *testing.T) {
	// Five consecutive reds: windows 1-4 and 2-5 both trigger.
	merged := weeklySeries("s1", models.SubjectBiochem, []*float64{
		ptrFloat(30), ptrFloat(30), ptrFloat(30), ptrFloat(30), ptrFloat(30),
	})
	rule := models.WindowRule{MinRedCount: 2, MinTotalCount: 4, WindowLength: 4}

	triggers := ScanWindows(merged, rule)
	require.Len(t, triggers, 2)
	assert.Equal(t, 1, triggers[0].WeekStart)
	assert.Equal(t, 2, triggers[1].WeekStart)
}

func TestScanWindowsEvaluatesSubjectsIndependently(t *testing.T) {
	biochem := weeklySeries("s1", models.SubjectBiochem, []*float64{
		ptrFloat(30), ptrFloat(30), ptrFloat(30), ptrFloat(30),
	})
	molbio := weeklySeries("s1", models.SubjectMolbio, []*float64{
		ptrFloat(90), ptrFloat(90), ptrFloat(90), ptrFloat(90),
	})
	rule := models.WindowRule{MinRedCount: 2, MinTotalCount: 4, WindowLength: 4}

	triggers := ScanWindows(append(biochem, molbio...), rule)
	require.Len(t, triggers, 1)
	assert.Equal(t, models.SubjectBiochem, triggers[0].Subject)
}

func TestScanWindowsDefaultLengthIsMinTotal(t *testing.T) {
	merged := weeklySeries("s1", models.SubjectBiochem, []*float64{
		ptrFloat(30), ptrFloat(30), ptrFloat(30),
	})
	rule := models.WindowRule{MinRedCount: 2, MinTotalCount: 3}

	triggers := ScanWindows(merged, rule)
	require.Len(t, triggers, 1)
	assert.Equal(t, 3, triggers[0].WeekEnd)
}

func TestScanWindowsHonoursProgramOverrides(t *testing.T) {
	cfg := models.DefaultThresholds()
	cfg.ByProgram["PHARM"] = models.ThresholdPair{RedMax: 50, YellowMax: 80}
	students := []models.Student{{ID: "s1", Program: "PHARM"}}
	records := []models.ScoreRecord{
		weeklyRecord("s1", 1, models.SubjectBiochem, ptrFloat(45)),
		weeklyRecord("s1", 2, models.SubjectBiochem, ptrFloat(45)),
	}
	merged := Merge(records, students, cfg)
	rule := models.WindowRule{MinRedCount: 2, MinTotalCount: 2, WindowLength: 2}

	// 45 is red under the PHARM override even though it is yellow globally.
	triggers := ScanWindows(merged, rule)
	require.Len(t, triggers, 1)
	assert.Equal(t, 2, triggers[0].RedCount)
}
