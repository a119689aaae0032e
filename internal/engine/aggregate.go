package engine

import (
	"sort"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

// WeeklyBandCounts tallies RED/YELLOW/GREEN per week over the given
// record set, ordered by week and zero-filled where a band is absent.
// Gray (missing) records carry no countable score and are excluded,
// matching the merged view's display semantics. Empty input yields an
// empty slice.
func WeeklyBandCounts(merged []models.ScoredRecord) []models.WeeklyBandCount {
	byWeek := make(map[int]*models.WeeklyBandCount)
	for _, record := range merged {
		count, ok := byWeek[record.Week]
		if !ok {
			count = &models.WeeklyBandCount{Week: record.Week}
			byWeek[record.Week] = count
		}
		switch record.Band {
		case models.BandRed:
			count.Red++
		case models.BandYellow:
			count.Yellow++
		case models.BandGreen:
			count.Green++
		}
	}

	counts := make([]models.WeeklyBandCount, 0, len(byWeek))
	for _, count := range byWeek {
		counts = append(counts, *count)
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Week < counts[j].Week })
	return counts
}

// MidFinalPairs computes per-student (midterm mean, final mean) pairs
// across both subjects. Students missing either value are dropped, not
// zero-filled.
func MidFinalPairs(merged []models.ScoredRecord) []models.ScatterPair {
	type pairAcc struct {
		midterm meanAcc
		final   meanAcc
	}
	accs := make(map[string]*pairAcc)
	for _, record := range merged {
		if record.RawScore == nil {
			continue
		}
		if record.Type != models.AssessmentMidterm && record.Type != models.AssessmentFinal {
			continue
		}
		acc, ok := accs[record.StudentID]
		if !ok {
			acc = &pairAcc{}
			accs[record.StudentID] = acc
		}
		if record.Type == models.AssessmentMidterm {
			acc.midterm.add(*record.RawScore)
		} else {
			acc.final.add(*record.RawScore)
		}
	}

	pairs := make([]models.ScatterPair, 0, len(accs))
	for studentID, acc := range accs {
		mid, fin := acc.midterm.mean(), acc.final.mean()
		if mid == nil || fin == nil {
			continue
		}
		pairs = append(pairs, models.ScatterPair{StudentID: studentID, MidtermMean: *mid, FinalMean: *fin})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].StudentID < pairs[j].StudentID })
	return pairs
}

// SubjectPivot lays out each student's weekly scores for one subject as
// a fixed 18-cell row, nil where no score exists. Rows are sorted by
// student ID.
func SubjectPivot(merged []models.ScoredRecord, subject models.Subject) []models.PivotRow {
	byStudent := make(map[string][]*float64)
	var order []string
	for _, record := range merged {
		if record.Type != models.AssessmentWeekly || record.Subject != subject {
			continue
		}
		cells, ok := byStudent[record.StudentID]
		if !ok {
			cells = make([]*float64, models.MaxWeek)
			byStudent[record.StudentID] = cells
			order = append(order, record.StudentID)
		}
		if record.Week >= models.MinWeek && record.Week <= models.MaxWeek {
			cells[record.Week-1] = record.RawScore
		}
	}

	sort.Strings(order)
	rows := make([]models.PivotRow, 0, len(order))
	for _, studentID := range order {
		rows = append(rows, models.PivotRow{StudentID: studentID, Weeks: byStudent[studentID]})
	}
	return rows
}
