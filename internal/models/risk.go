package models

// RiskFlag reports a consecutive-run trigger for one student. Reason
// concatenates every satisfied condition with "; ".
type RiskFlag struct {
	StudentID    string `json:"student_id"`
	StudentName  string `json:"student_name,omitempty"`
	Program      string `json:"program,omitempty"`
	Reason       string `json:"reason"`
	MaxRedRun    int    `json:"max_red_run"`
	MaxYellowRun int    `json:"max_yellow_run"`
}

// WindowTrigger reports one AND-rule window hit. Every triggering
// window is reported; the (student, week start, subject) triple is the
// unique key. Scores carry the raw window values for audit.
type WindowTrigger struct {
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	Program     string    `json:"program,omitempty"`
	Subject     Subject   `json:"subject"`
	WeekStart   int       `json:"week_start"`
	WeekEnd     int       `json:"week_end"`
	RedCount    int       `json:"red_count"`
	YellowCount int       `json:"yellow_count"`
	Reason      string    `json:"reason"`
	Scores      []float64 `json:"scores"`
}

// DivergenceFlag reports cross-assessment or cross-subject gaps for one
// student. Mean fields are nil when the underlying data is missing; a
// condition with a missing operand is skipped, never false-triggered.
type DivergenceFlag struct {
	StudentID   string   `json:"student_id"`
	StudentName string   `json:"student_name,omitempty"`
	Program     string   `json:"program,omitempty"`
	Reason      string   `json:"reason"`
	WeeklyMean  *float64 `json:"weekly_mean,omitempty"`
	MidtermMean *float64 `json:"midterm_mean,omitempty"`
	FinalMean   *float64 `json:"final_mean,omitempty"`
	CrossGap    *float64 `json:"cross_gap,omitempty"`
}

// WeeklyBandCount is one row of the week-indexed band tally. Counts are
// zero-filled for bands absent in a given week.
type WeeklyBandCount struct {
	Week   int `json:"week"`
	Red    int `json:"red"`
	Yellow int `json:"yellow"`
	Green  int `json:"green"`
}

// ScatterPair holds per-student midterm/final means for correlation
// viewing. Only students with both values appear.
type ScatterPair struct {
	StudentID   string  `json:"student_id"`
	MidtermMean float64 `json:"midterm_mean"`
	FinalMean   float64 `json:"final_mean"`
}

// PivotRow is one student's 18 weekly cells for a single subject. Cells
// are nil where no score exists.
type PivotRow struct {
	StudentID string     `json:"student_id"`
	Weeks     []*float64 `json:"weeks"`
}
