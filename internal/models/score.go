package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Subject identifies one of the two tracked courses.
type Subject string

const (
	SubjectBiochem Subject = "BIOCHEM"
	SubjectMolbio  Subject = "MOLBIO"
)

// Subjects lists the tracked subjects in display order.
var Subjects = []Subject{SubjectBiochem, SubjectMolbio}

// ParseSubject normalises raw input into a Subject.
func ParseSubject(raw string) (Subject, bool) {
	switch Subject(strings.ToUpper(strings.TrimSpace(raw))) {
	case SubjectBiochem:
		return SubjectBiochem, true
	case SubjectMolbio:
		return SubjectMolbio, true
	}
	return "", false
}

// AssessmentType distinguishes weekly quizzes from midterm/final exams.
type AssessmentType string

const (
	AssessmentWeekly  AssessmentType = "WEEKLY"
	AssessmentMidterm AssessmentType = "MIDTERM"
	AssessmentFinal   AssessmentType = "FINAL"
)

// ParseAssessmentType normalises raw input into an AssessmentType.
func ParseAssessmentType(raw string) (AssessmentType, bool) {
	switch AssessmentType(strings.ToUpper(strings.TrimSpace(raw))) {
	case AssessmentWeekly:
		return AssessmentWeekly, true
	case AssessmentMidterm:
		return AssessmentMidterm, true
	case AssessmentFinal:
		return AssessmentFinal, true
	}
	return "", false
}

// The curriculum runs a fixed 18-week term.
const (
	MinWeek = 1
	MaxWeek = 18
)

// Band is the traffic-light severity classification of a score.
type Band string

const (
	BandRed    Band = "RED"
	BandYellow Band = "YELLOW"
	BandGreen  Band = "GREEN"
	// BandGray marks a missing score.
	BandGray Band = "GRAY"
)

// ParseBand normalises raw input into a Band.
func ParseBand(raw string) (Band, bool) {
	switch Band(strings.ToUpper(strings.TrimSpace(raw))) {
	case BandRed:
		return BandRed, true
	case BandYellow:
		return BandYellow, true
	case BandGreen:
		return BandGreen, true
	case BandGray:
		return BandGray, true
	}
	return "", false
}

// ScoreRecord is one assessment result. RawScore is nil when the
// student was absent. At most one record exists per
// (student, week, subject, type); later uploads overwrite earlier ones.
type ScoreRecord struct {
	ID        string         `db:"id" json:"id,omitempty"`
	StudentID string         `db:"student_id" json:"student_id"`
	Week      int            `db:"week" json:"week"`
	Subject   Subject        `db:"subject" json:"subject"`
	Type      AssessmentType `db:"type" json:"type"`
	RawScore  *float64       `db:"raw_score" json:"raw_score"`
	CreatedAt time.Time      `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at,omitempty"`
}

// AssessmentKey builds the stable composite key used to cross-reference
// feedback notes, e.g. "09-BIOCHEM-MIDTERM".
func (r ScoreRecord) AssessmentKey() string {
	return FormatAssessmentKey(r.Week, r.Subject, r.Type)
}

// FormatAssessmentKey renders a (week, subject, type) tuple.
func FormatAssessmentKey(week int, subject Subject, assessType AssessmentType) string {
	return fmt.Sprintf("%02d-%s-%s", week, subject, assessType)
}

// ParseAssessmentKey splits a composite key back into its parts.
func ParseAssessmentKey(key string) (week int, subject Subject, assessType AssessmentType, ok bool) {
	parts := strings.SplitN(key, "-", 3)
	if len(parts) != 3 {
		return 0, "", "", false
	}
	week, err := strconv.Atoi(parts[0])
	if err != nil || week < MinWeek || week > MaxWeek {
		return 0, "", "", false
	}
	subject, ok = ParseSubject(parts[1])
	if !ok {
		return 0, "", "", false
	}
	assessType, ok = ParseAssessmentType(parts[2])
	if !ok {
		return 0, "", "", false
	}
	return week, subject, assessType, true
}

// ScoredRecord is a merged analytic row: the raw record enriched with
// roster metadata, the thresholds that applied to it and its band.
type ScoredRecord struct {
	ScoreRecord
	Program       string  `json:"program"`
	StudentName   string  `json:"student_name"`
	Cohort        string  `json:"cohort"`
	Department    string  `json:"department"`
	RedMax        float64 `json:"red_max"`
	YellowMax     float64 `json:"yellow_max"`
	Band          Band    `json:"band"`
	AssessmentKey string  `json:"assessment_key"`
}

// ScoreFilter narrows merged-view queries. Zero values mean "no filter".
type ScoreFilter struct {
	Program string
	Subject Subject
	Week    int
	Band    Band
}

// Matches reports whether the merged row passes the filter.
func (f ScoreFilter) Matches(r ScoredRecord) bool {
	if f.Program != "" && r.Program != f.Program {
		return false
	}
	if f.Subject != "" && r.Subject != f.Subject {
		return false
	}
	if f.Week != 0 && r.Week != f.Week {
		return false
	}
	if f.Band != "" && r.Band != f.Band {
		return false
	}
	return true
}
