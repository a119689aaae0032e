package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

// ConsecutiveRuns scans each student's weekly band sequence for
// sustained red/yellow streaks. The sequence covers both subjects,
// ordered by week (Merge guarantees the order). A red week resets the
// yellow counter and vice versa; a green or gray week resets both. A
// student is flagged when the longest red run reaches redRun or the
// longest yellow run reaches yellowRun; both reasons concatenate when
// both fire. Students without a trigger are omitted entirely.
func ConsecutiveRuns(merged []models.ScoredRecord, redRun, yellowRun int) []models.RiskFlag {
	if redRun <= 0 {
		redRun = 2
	}
	if yellowRun <= 0 {
		yellowRun = 3
	}

	type runState struct {
		curRed, curYellow int
		maxRed, maxYellow int
	}
	states := make(map[string]*runState)
	meta := make(map[string]models.ScoredRecord)
	var order []string

	for _, record := range merged {
		if record.Type != models.AssessmentWeekly {
			continue
		}
		state, ok := states[record.StudentID]
		if !ok {
			state = &runState{}
			states[record.StudentID] = state
			meta[record.StudentID] = record
			order = append(order, record.StudentID)
		}
		switch record.Band {
		case models.BandRed:
			state.curRed++
			state.curYellow = 0
		case models.BandYellow:
			state.curYellow++
			state.curRed = 0
		default:
			state.curRed = 0
			state.curYellow = 0
		}
		if state.curRed > state.maxRed {
			state.maxRed = state.curRed
		}
		if state.curYellow > state.maxYellow {
			state.maxYellow = state.curYellow
		}
	}

	sort.Strings(order)
	flags := make([]models.RiskFlag, 0)
	for _, studentID := range order {
		state := states[studentID]
		var reasons []string
		if state.maxRed >= redRun {
			reasons = append(reasons, fmt.Sprintf("RED for >=%d consecutive weeks", redRun))
		}
		if state.maxYellow >= yellowRun {
			reasons = append(reasons, fmt.Sprintf("YELLOW for >=%d consecutive weeks", yellowRun))
		}
		if len(reasons) == 0 {
			continue
		}
		record := meta[studentID]
		flags = append(flags, models.RiskFlag{
			StudentID:    studentID,
			StudentName:  record.StudentName,
			Program:      record.Program,
			Reason:       strings.Join(reasons, "; "),
			MaxRedRun:    state.maxRed,
			MaxYellowRun: state.maxYellow,
		})
	}
	return flags
}

// ScanWindows slides a fixed-length window over every student's weekly
// score series, independently per subject. A window is evaluated only
// when every week inside it has a score; a single gap skips the whole
// window. Within a complete window, reds and yellows are counted with
// the same classifier the merged view uses (per-record resolved
// thresholds), and the window triggers when
// redCount >= MinRedCount AND redCount+yellowCount >= MinTotalCount.
// Every triggering window is reported; the (student, week start,
// subject) triple is unique by construction of the scan.
func ScanWindows(merged []models.ScoredRecord, rule models.WindowRule) []models.WindowTrigger {
	length := rule.EffectiveLength()
	if length <= 0 || length > models.MaxWeek {
		return []models.WindowTrigger{}
	}

	type series struct {
		weeks  map[int]*float64
		pair   models.ThresholdPair
		sample models.ScoredRecord
	}
	byStudentSubject := make(map[string]map[models.Subject]*series)
	var studentOrder []string

	for _, record := range merged {
		if record.Type != models.AssessmentWeekly {
			continue
		}
		subjects, ok := byStudentSubject[record.StudentID]
		if !ok {
			subjects = make(map[models.Subject]*series)
			byStudentSubject[record.StudentID] = subjects
			studentOrder = append(studentOrder, record.StudentID)
		}
		s, ok := subjects[record.Subject]
		if !ok {
			s = &series{
				weeks:  make(map[int]*float64),
				pair:   models.ThresholdPair{RedMax: record.RedMax, YellowMax: record.YellowMax},
				sample: record,
			}
			subjects[record.Subject] = s
		}
		s.weeks[record.Week] = record.RawScore
	}

	sort.Strings(studentOrder)
	triggers := make([]models.WindowTrigger, 0)
	for _, studentID := range studentOrder {
		for _, subject := range models.Subjects {
			s, ok := byStudentSubject[studentID][subject]
			if !ok {
				continue
			}
			for start := models.MinWeek; start+length-1 <= models.MaxWeek; start++ {
				scores, complete := windowScores(s.weeks, start, length)
				if !complete {
					continue
				}
				redCount, yellowCount := 0, 0
				for i := range scores {
					switch Classify(&scores[i], s.pair) {
					case models.BandRed:
						redCount++
					case models.BandYellow:
						yellowCount++
					}
				}
				if redCount < rule.MinRedCount || redCount+yellowCount < rule.MinTotalCount {
					continue
				}
				end := start + length - 1
				triggers = append(triggers, models.WindowTrigger{
					StudentID:   studentID,
					StudentName: s.sample.StudentName,
					Program:     s.sample.Program,
					Subject:     subject,
					WeekStart:   start,
					WeekEnd:     end,
					RedCount:    redCount,
					YellowCount: yellowCount,
					Reason: fmt.Sprintf("%s weeks %d-%d: %d RED and %d RED+YELLOW of %d",
						subject, start, end, redCount, redCount+yellowCount, length),
					Scores: scores,
				})
			}
		}
	}
	return triggers
}

// windowScores collects the scores for weeks [start, start+length) and
// reports whether the window is gap-free.
func windowScores(weeks map[int]*float64, start, length int) ([]float64, bool) {
	scores := make([]float64, 0, length)
	for week := start; week < start+length; week++ {
		value, ok := weeks[week]
		if !ok || value == nil {
			return nil, false
		}
		scores = append(scores, *value)
	}
	return scores, true
}
