package dto

// RowError pinpoints one dropped upload row. Line numbers are
// 1-based and count the header line.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// UploadSummary reports the outcome of one CSV ingestion. Malformed
// rows never abort the batch; they are dropped and surfaced here.
type UploadSummary struct {
	TotalRows int        `json:"total_rows"`
	Accepted  int        `json:"accepted"`
	Dropped   int        `json:"dropped"`
	Errors    []RowError `json:"errors,omitempty"`
}
