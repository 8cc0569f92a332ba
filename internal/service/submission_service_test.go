package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-registration-api/internal/models"
	appErrors "github.com/noah-isme/sma-registration-api/pkg/errors"
	"github.com/noah-isme/sma-registration-api/pkg/sheets"
)

var fixedNow = time.Date(2024, 9, 1, 8, 30, 0, 0, time.UTC)

func newSubmissionFixture(t *testing.T) (*SubmissionService, *sheets.MemoryStore, *staticStores, *recordingAuditor) {
	t.Helper()
	store := sheets.NewMemoryStore("mem", "Registrations")
	stores := &staticStores{store: store}
	auditor := &recordingAuditor{}
	svc := NewSubmissionService(stores, "Registrations", validator.New(), auditor, NewMetricsService(), zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, store, stores, auditor
}

func TestSubmissionServiceAppendsOneRowPerSubject(t *testing.T) {
	svc, store, _, auditor := newSubmissionFixture(t)

	payload := models.RegistrationPayload{
		FullName:      "Sara Ali",
		Phone:         "0100000000",
		WhatsApp:      "0122",
		GuardianPhone: "0111",
		Level:         "ثانوي",
		Year:          "ثالثة",
		Subjects: []models.SubjectChoice{
			{Subject: "Math", Teacher: "T1", Group: "G1", Schedule: "Sat"},
			{Subject: "Physics", Teacher: "T2"},
			{Subject: "Chemistry", WhatsApp: "0155"},
		},
	}
	res, err := svc.Ingest(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, 3, res.RowsAppended)
	assert.NotEmpty(t, res.StudentID)

	rows := store.Rows("Registrations")
	require.Len(t, rows, 3)
	for i, row := range rows {
		require.Len(t, row, models.ColumnCount)
		assert.Equal(t, res.StudentID, row[models.ColStudentID])
		assert.Equal(t, "2024-09-01T08:30:00.000Z", row[models.ColSubmittedAt])
		assert.Equal(t, "Sara Ali", row[models.ColFullName])
		assert.Equal(t, "0100000000", row[models.ColPhone])
		assert.Equal(t, "0111", row[models.ColGuardianPhone])
		assert.Equal(t, "ثانوي", row[models.ColLevel])
		assert.Equal(t, "ثالثة", row[models.ColYear])
		assert.Equal(t, payload.Subjects[i].Subject, row[models.ColSubject])
		assert.Equal(t, payload.Subjects[i].Teacher, row[models.ColTeacher])
		assert.Equal(t, models.PaymentStatusUnpaid, row[models.ColPaymentStatus])
		assert.Equal(t, models.ReviewStatusPending, row[models.ColReviewStatus])
		assert.Equal(t, "", row[models.ColNotes])
	}
	assert.Equal(t, "0122", rows[0][models.ColWhatsApp])
	assert.Equal(t, "0122", rows[1][models.ColWhatsApp])
	assert.Equal(t, "0155", rows[2][models.ColWhatsApp])

	require.Len(t, auditor.audits, 1)
	assert.Equal(t, models.SubmissionStatusAppended, auditor.audits[0].Status)
	assert.Equal(t, 3, auditor.audits[0].RowsAppended)
	assert.Equal(t, res.StudentID, auditor.audits[0].StudentID)
}

func TestSubmissionServiceEmptySubjectsYieldsPlaceholderRow(t *testing.T) {
	for name, subjects := range map[string][]models.SubjectChoice{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			svc, store, _, _ := newSubmissionFixture(t)
			res, err := svc.Ingest(context.Background(), models.RegistrationPayload{FullName: "Omar", Phone: "0109", Level: "ابتدائي", Subjects: subjects})
			require.NoError(t, err)
			assert.Equal(t, 1, res.RowsAppended)

			rows := store.Rows("Registrations")
			require.Len(t, rows, 1)
			assert.Equal(t, "Omar", rows[0][models.ColFullName])
			assert.Equal(t, "ابتدائي", rows[0][models.ColLevel])
			for _, col := range []int{models.ColSubject, models.ColTeacher, models.ColGroup, models.ColSchedule} {
				assert.Equal(t, "", rows[0][col])
			}
		})
	}
}

func TestSubmissionServiceRejectsMissingRequiredFields(t *testing.T) {
	cases := map[string]models.RegistrationPayload{
		"missing name":  {Phone: "0100"},
		"missing phone": {FullName: "Sara"},
		"both empty":    {FullName: "", Phone: ""},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			svc, store, stores, auditor := newSubmissionFixture(t)
			payload.Subjects = []models.SubjectChoice{{Subject: "Math"}}

			res, err := svc.Ingest(context.Background(), payload)
			require.Error(t, err)
			assert.Nil(t, res)

			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
			assert.Equal(t, http.StatusBadRequest, appErr.Status)
			assert.Equal(t, MissingRequiredFieldsMessage, appErr.Message)

			assert.Zero(t, stores.calls)
			assert.Zero(t, store.Calls(sheets.OpAppend))
			assert.Empty(t, store.Rows("Registrations"))
			assert.Empty(t, auditor.audits)
		})
	}
}

func TestSubmissionServiceWhatsAppResolutionPerRow(t *testing.T) {
	svc, store, _, _ := newSubmissionFixture(t)

	_, err := svc.Ingest(context.Background(), models.RegistrationPayload{
		FullName: "n",
		Phone:    "p",
		WhatsApp: "B",
		Subjects: []models.SubjectChoice{{Subject: "x", WhatsApp: "A"}, {Subject: "y"}},
	})
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), models.RegistrationPayload{
		FullName: "n",
		Phone:    "p",
		Subjects: []models.SubjectChoice{{Subject: "z"}},
	})
	require.NoError(t, err)

	rows := store.Rows("Registrations")
	require.Len(t, rows, 3)
	assert.Equal(t, "A", rows[0][models.ColWhatsApp])
	assert.Equal(t, "B", rows[1][models.ColWhatsApp])
	assert.Equal(t, "", rows[2][models.ColWhatsApp])
}

func TestSubmissionServiceEndToEndScenario(t *testing.T) {
	store := sheets.NewMemoryStore("mem", "Registrations")
	stores := &staticStores{store: store}
	provisioner := NewProvisionerService(stores, "Registrations", nil, zap.NewNop())
	_, err := provisioner.Provision(context.Background(), "")
	require.NoError(t, err)

	svc := NewSubmissionService(stores, "Registrations", nil, nil, nil, nil)
	res, err := svc.Ingest(context.Background(), models.RegistrationPayload{
		FullName: "Sara Ali",
		Phone:    "0100000000",
		Subjects: []models.SubjectChoice{{Subject: "Math", Teacher: "T1"}, {Subject: "Physics"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.RowsAppended)

	rows := store.Rows("Registrations")
	require.Len(t, rows, 3)
	assert.Equal(t, models.HeaderValues(), rows[0])
	first, second := rows[1], rows[2]
	assert.Equal(t, res.StudentID, first[models.ColStudentID])
	assert.Equal(t, first[models.ColStudentID], second[models.ColStudentID])
	assert.Equal(t, first[models.ColSubmittedAt], second[models.ColSubmittedAt])
	assert.Equal(t, "Math", first[models.ColSubject])
	assert.Equal(t, "T1", first[models.ColTeacher])
	assert.Equal(t, "Physics", second[models.ColSubject])
	assert.Equal(t, "", second[models.ColTeacher])
}

func TestSubmissionServiceConfigurationError(t *testing.T) {
	svc, _, stores, auditor := newSubmissionFixture(t)
	stores.err = appErrors.Clone(appErrors.ErrConfiguration, "SHEET_ID not configured")

	_, err := svc.Ingest(context.Background(), models.RegistrationPayload{FullName: "a", Phone: "b"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConfiguration.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "SHEET_ID not configured", appErr.Message)
	assert.Empty(t, auditor.audits)
}

func TestSubmissionServiceStoreErrorPassesMessageThrough(t *testing.T) {
	svc, store, _, auditor := newSubmissionFixture(t)
	svc.ids = fixedIDs{id: "Sfixed"}
	store.SetError(sheets.OpAppend, errors.New("Requested entity was not found."))

	_, err := svc.Ingest(context.Background(), models.RegistrationPayload{FullName: "a", Phone: "b", Subjects: []models.SubjectChoice{{}, {}}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrStore.Code, appErr.Code)
	assert.Equal(t, "Requested entity was not found.", appErr.Message)
	assert.Equal(t, 1, store.Calls(sheets.OpAppend))

	require.Len(t, auditor.audits, 1)
	assert.Equal(t, models.SubmissionStatusFailed, auditor.audits[0].Status)
	assert.Equal(t, "Sfixed", auditor.audits[0].StudentID)
	assert.Equal(t, 2, auditor.audits[0].RowsExpected)
	assert.Zero(t, auditor.audits[0].RowsAppended)
}

func TestSubmissionServiceSingleAppendCall(t *testing.T) {
	svc, store, _, _ := newSubmissionFixture(t)

	_, err := svc.Ingest(context.Background(), models.RegistrationPayload{
		FullName: "a",
		Phone:    "b",
		Subjects: []models.SubjectChoice{{Subject: "1"}, {Subject: "2"}, {Subject: "3"}, {Subject: "4"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Calls(sheets.OpAppend))
	assert.Len(t, store.Rows("Registrations"), 4)
}
