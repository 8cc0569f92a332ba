package models

import "time"

// Submission audit outcomes.
const (
	SubmissionStatusAppended = "APPENDED"
	SubmissionStatusFailed   = "FAILED"
)

// SubmissionAudit records one ingestion attempt that reached the store. It
// lets operators reconcile the sheet after a failed or partial append.
type SubmissionAudit struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	SheetName    string    `db:"sheet_name" json:"sheet_name"`
	RowsExpected int       `db:"rows_expected" json:"rows_expected"`
	RowsAppended int       `db:"rows_appended" json:"rows_appended"`
	UpdatedRange string    `db:"updated_range" json:"updated_range"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage string    `db:"error_message" json:"error_message,omitempty"`
	RequestID    string    `db:"request_id" json:"request_id,omitempty"`
	SubmittedAt  time.Time `db:"submitted_at" json:"submitted_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
