package engine

import (
	"sort"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

// Merge joins score records with roster metadata, resolves the
// applicable thresholds and classifies every record. The result is the
// flat analytic table every detector reads from, ordered by
// (student, week, subject, type) so repeated runs over the same inputs
// are byte-identical. Records without a roster entry keep empty
// program/name and classify against the global pair. Empty input
// yields an empty, well-typed slice.
func Merge(records []models.ScoreRecord, students []models.Student, cfg models.ThresholdConfig) []models.ScoredRecord {
	roster := make(map[string]models.Student, len(students))
	for _, student := range students {
		roster[student.ID] = student
	}

	merged := make([]models.ScoredRecord, 0, len(records))
	for _, record := range records {
		var program, name string
		if student, ok := roster[record.StudentID]; ok {
			program = student.Program
			name = student.Name
		}
		pair := Resolve(cfg, program)
		merged = append(merged, models.ScoredRecord{
			ScoreRecord:   record,
			Program:       program,
			StudentName:   name,
			Cohort:        models.DeriveCohort(record.StudentID),
			Department:    models.DeriveDepartment(record.StudentID),
			RedMax:        pair.RedMax,
			YellowMax:     pair.YellowMax,
			Band:          Classify(record.RawScore, pair),
			AssessmentKey: record.AssessmentKey(),
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.StudentID != b.StudentID {
			return a.StudentID < b.StudentID
		}
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return a.Type < b.Type
	})
	return merged
}

// Filter applies the merged-view filter, preserving order.
func Filter(merged []models.ScoredRecord, filter models.ScoreFilter) []models.ScoredRecord {
	result := make([]models.ScoredRecord, 0, len(merged))
	for _, record := range merged {
		if filter.Matches(record) {
			result = append(result, record)
		}
	}
	return result
}
