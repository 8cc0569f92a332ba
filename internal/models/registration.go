package models

import "time"

// Column positions of the registration sheet. The header written during
// provisioning and every ingested row are both indexed by these constants, so
// the two cannot drift apart without a compile error.
const (
	ColStudentID = iota
	ColSubmittedAt
	ColFullName
	ColPhone
	ColWhatsApp
	ColGuardianPhone
	ColLevel
	ColYear
	ColSubject
	ColTeacher
	ColGroup
	ColSchedule
	ColPaymentStatus
	ColReviewStatus
	ColNotes

	ColumnCount
)

// Defaults written into every new row.
const (
	PaymentStatusUnpaid = "unpaid"
	ReviewStatusPending = "pending"
)

// SubmittedAtLayout is the timestamp format of the submission column
// (ISO 8601, UTC, millisecond precision).
const SubmittedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// ColumnSchema holds the header labels in physical column order (A..O).
var ColumnSchema = [ColumnCount]string{
	ColStudentID:     "رقم الطالب",
	ColSubmittedAt:   "تاريخ الإرسال",
	ColFullName:      "الاسم الكامل",
	ColPhone:         "رقم التليفون",
	ColWhatsApp:      "واتساب",
	ColGuardianPhone: "رقم ولي الأمر",
	ColLevel:         "المرحلة",
	ColYear:          "السنة",
	ColSubject:       "المادة",
	ColTeacher:       "المدرس",
	ColGroup:         "المجموعة",
	ColSchedule:      "المواعيد",
	ColPaymentStatus: "حالة الدفع",
	ColReviewStatus:  "الحالة",
	ColNotes:         "سبب الرفض/ملاحظات",
}

// Row is one persisted record: one (student, subject) pair.
type Row [ColumnCount]string

// Values returns the row as a cell slice for the store.
func (r Row) Values() []string {
	return append([]string(nil), r[:]...)
}

// HeaderValues returns the header labels as a cell slice.
func HeaderValues() []string {
	return Row(ColumnSchema).Values()
}

// SubjectChoice is one subject the student registers for.
type SubjectChoice struct {
	Subject  string `json:"subject"`
	Teacher  string `json:"teacher"`
	Group    string `json:"group"`
	Schedule string `json:"schedule"`
	WhatsApp string `json:"whatsapp"`
}

// RegistrationPayload is the form submission. Only FullName and Phone are
// required; everything else is free text.
type RegistrationPayload struct {
	FullName      string          `json:"full_name" validate:"required"`
	Phone         string          `json:"phone" validate:"required"`
	WhatsApp      string          `json:"whatsapp"`
	GuardianPhone string          `json:"guardian_phone"`
	Level         string          `json:"level"`
	Year          string          `json:"year"`
	Subjects      []SubjectChoice `json:"subjects"`
}

// SubjectList returns the subjects to materialise. An empty list yields one
// blank choice so every accepted submission produces at least one row.
func (p RegistrationPayload) SubjectList() []SubjectChoice {
	if len(p.Subjects) > 0 {
		return p.Subjects
	}
	return []SubjectChoice{{}}
}

// BuildRow derives the row for one subject. The subject's own WhatsApp number
// wins over the registration-level one.
func (p RegistrationPayload) BuildRow(studentID string, submittedAt time.Time, s SubjectChoice) Row {
	var row Row
	row[ColStudentID] = studentID
	row[ColSubmittedAt] = submittedAt.UTC().Format(SubmittedAtLayout)
	row[ColFullName] = p.FullName
	row[ColPhone] = p.Phone
	row[ColWhatsApp] = firstNonEmpty(s.WhatsApp, p.WhatsApp)
	row[ColGuardianPhone] = p.GuardianPhone
	row[ColLevel] = p.Level
	row[ColYear] = p.Year
	row[ColSubject] = s.Subject
	row[ColTeacher] = s.Teacher
	row[ColGroup] = s.Group
	row[ColSchedule] = s.Schedule
	row[ColPaymentStatus] = PaymentStatusUnpaid
	row[ColReviewStatus] = ReviewStatusPending
	row[ColNotes] = ""
	return row
}

// SubmissionResult is returned to the caller after a successful ingestion.
type SubmissionResult struct {
	StudentID    string
	SubmittedAt  time.Time
	RowsAppended int
	UpdatedRange string
}

// ProvisionResult describes which sheet was provisioned.
type ProvisionResult struct {
	SheetID      int64
	SheetTitle   string
	Requested    string
	UsedFallback bool
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
