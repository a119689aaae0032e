package models

import (
	"strconv"
	"time"
)

// Student represents a learner on the monitored roster. Identity is
// immutable once created; name/program/year follow the latest upload.
type Student struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Program      string    `db:"program" json:"program"`
	EnrolledYear int       `db:"enrolled_year" json:"enrolled_year"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Cohort labels derived from the numeric student-ID prefix. The
// on-track intake carries prefix 413; smaller prefixes are repeating
// students, larger ones entered with advanced standing.
const (
	CohortRepeating        = "repeating"
	CohortOnTrack          = "on-track"
	CohortAdvancedStanding = "advanced-standing"
	CohortUnknown          = "unknown"

	onTrackPrefix = 413
)

// Department labels derived from the 2-digit code in ID positions 4-5.
const (
	DepartmentMedicine  = "medicine"
	DepartmentDentistry = "dentistry"
	DepartmentPharmacy  = "pharmacy"
	DepartmentUnknown   = "unknown"
)

// DeriveCohort classifies a student ID by its 3-digit numeric prefix.
// Malformed IDs classify as unknown rather than failing.
func DeriveCohort(studentID string) string {
	if len(studentID) < 3 {
		return CohortUnknown
	}
	prefix, err := strconv.Atoi(studentID[:3])
	if err != nil {
		return CohortUnknown
	}
	switch {
	case prefix < onTrackPrefix:
		return CohortRepeating
	case prefix == onTrackPrefix:
		return CohortOnTrack
	default:
		return CohortAdvancedStanding
	}
}

// DeriveDepartment maps the code at ID positions 4-5 to a department.
func DeriveDepartment(studentID string) string {
	if len(studentID) < 5 {
		return DepartmentUnknown
	}
	switch studentID[3:5] {
	case "01":
		return DepartmentMedicine
	case "02":
		return DepartmentDentistry
	case "03":
		return DepartmentPharmacy
	default:
		return DepartmentUnknown
	}
}

// StudentDetail extends the roster entry with derived labels.
type StudentDetail struct {
	Student
	Cohort     string `json:"cohort"`
	Department string `json:"department"`
}

// Detail attaches derived labels to the student.
func (s Student) Detail() StudentDetail {
	return StudentDetail{
		Student:    s,
		Cohort:     DeriveCohort(s.ID),
		Department: DeriveDepartment(s.ID),
	}
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Program  string
	Page     int
	PageSize int
}
