package dto

// SetupSheetMessage is the confirmation returned after provisioning.
const SetupSheetMessage = "Headers written and sheet set to RTL"

// SubmitResponse is returned by POST /submit.
type SubmitResponse struct {
	OK           bool   `json:"ok"`
	StudentID    string `json:"student_id"`
	RowsAppended int    `json:"rows_appended"`
}

// SetupSheetResponse is returned by /setup-sheet.
type SetupSheetResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ReadinessResponse is returned by GET /ready.
type ReadinessResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
