package models

import "time"

// Feedback is a narrative note tied to a student and an assessment key.
// The log is append-only; the detectors never consume it.
type Feedback struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	AssessmentKey string    `db:"assessment_key" json:"assessment_key"`
	Note          string    `db:"note" json:"note"`
	Author        string    `db:"author" json:"author"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// FeedbackDetail joins a note with the assessment it references.
type FeedbackDetail struct {
	Feedback
	Week    *int            `json:"week,omitempty"`
	Subject *Subject        `json:"subject,omitempty"`
	Type    *AssessmentType `json:"type,omitempty"`
}
