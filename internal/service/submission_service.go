package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-registration-api/internal/models"
	appErrors "github.com/noah-isme/sma-registration-api/pkg/errors"
	"github.com/noah-isme/sma-registration-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-registration-api/pkg/sheets"
)

// MissingRequiredFieldsMessage is returned when full name or phone is absent.
const MissingRequiredFieldsMessage = "الاسم ورقم التليفون مطلوبان"

type storeSource interface {
	Store(ctx context.Context) (sheets.Store, error)
}

type submissionAuditor interface {
	Record(ctx context.Context, audit models.SubmissionAudit)
}

// SubmissionService turns one registration into appended sheet rows.
type SubmissionService struct {
	stores    storeSource
	sheetName string
	validator *validator.Validate
	ids       IDGenerator
	now       func() time.Time
	auditor   submissionAuditor
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewSubmissionService constructs the ingestion service. auditor may be nil.
func NewSubmissionService(stores storeSource, sheetName string, validate *validator.Validate, auditor submissionAuditor, metrics *MetricsService, logger *zap.Logger) *SubmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if auditor == nil {
		auditor = nopAuditor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		stores:    stores,
		sheetName: sheetName,
		validator: validate,
		ids:       StudentIDGenerator{},
		now:       time.Now,
		auditor:   auditor,
		metrics:   metrics,
		logger:    logger,
	}
}

// Ingest validates the payload, mints a student ID and appends one row per
// subject in a single append call. A partially applied append is neither
// detected nor rolled back; the audit trail records the outcome instead.
func (s *SubmissionService) Ingest(ctx context.Context, payload models.RegistrationPayload) (*models.SubmissionResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		s.metrics.RecordSubmission(OutcomeInvalid, 0)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, MissingRequiredFieldsMessage)
	}

	store, err := s.stores.Store(ctx)
	if err != nil {
		s.metrics.RecordSubmission(outcomeFor(err), 0)
		return nil, err
	}

	submittedAt := s.now().UTC()
	studentID := s.ids.NewStudentID(submittedAt)
	subjects := payload.SubjectList()
	values := make([][]string, 0, len(subjects))
	for _, subject := range subjects {
		values = append(values, payload.BuildRow(studentID, submittedAt, subject).Values())
	}

	audit := models.SubmissionAudit{
		StudentID:    studentID,
		SheetName:    s.sheetName,
		RowsExpected: len(values),
		RequestID:    requestid.FromContext(ctx),
		SubmittedAt:  submittedAt,
	}

	res, err := store.AppendValues(ctx, sheets.CellRange(s.sheetName, 1, 1), values)
	if err != nil {
		s.logger.Error("append registration rows failed",
			zap.String("student_id", studentID),
			zap.String("sheet", s.sheetName),
			zap.Int("rows", len(values)),
			zap.Error(err),
		)
		audit.Status = models.SubmissionStatusFailed
		audit.ErrorMessage = err.Error()
		s.auditor.Record(ctx, audit)
		s.metrics.RecordSubmission(OutcomeStoreError, 0)
		return nil, appErrors.Store(err)
	}

	result := &models.SubmissionResult{
		StudentID:    studentID,
		SubmittedAt:  submittedAt,
		RowsAppended: len(values),
	}
	if res != nil {
		result.UpdatedRange = res.UpdatedRange
		if res.UpdatedRows != len(values) {
			s.logger.Warn("store reported a different appended row count",
				zap.String("student_id", studentID),
				zap.Int("expected", len(values)),
				zap.Int("reported", res.UpdatedRows),
			)
		}
	}

	audit.Status = models.SubmissionStatusAppended
	audit.RowsAppended = result.RowsAppended
	audit.UpdatedRange = result.UpdatedRange
	s.auditor.Record(ctx, audit)
	s.metrics.RecordSubmission(OutcomeSuccess, result.RowsAppended)

	s.logger.Info("registration appended",
		zap.String("student_id", studentID),
		zap.String("sheet", s.sheetName),
		zap.Int("rows", result.RowsAppended),
		zap.String("range", result.UpdatedRange),
	)
	return result, nil
}

func outcomeFor(err error) string {
	switch {
	case appErrors.HasCode(err, appErrors.ErrValidation):
		return OutcomeInvalid
	case appErrors.HasCode(err, appErrors.ErrConfiguration), appErrors.HasCode(err, appErrors.ErrNoSheets):
		return OutcomeConfiguration
	default:
		return OutcomeStoreError
	}
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, models.SubmissionAudit) {}
