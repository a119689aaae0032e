package models

import "time"

// AnonMapping maps a student to an opaque sequential alias (S0001...).
// Aliases are assigned once, in order, and never reused or reassigned.
type AnonMapping struct {
	StudentID string    `db:"student_id" json:"student_id"`
	AnonID    string    `db:"anon_id" json:"anon_id"`
	Seq       int       `db:"seq" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
