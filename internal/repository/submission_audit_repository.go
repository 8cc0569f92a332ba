package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-registration-api/internal/models"
)

// SubmissionAuditRepository persists the submission audit trail.
type SubmissionAuditRepository struct {
	db *sqlx.DB
}

// NewSubmissionAuditRepository constructs the repository.
func NewSubmissionAuditRepository(db *sqlx.DB) *SubmissionAuditRepository {
	return &SubmissionAuditRepository{db: db}
}

// Create inserts one audit row. Re-inserting an existing ID is a no-op, so a
// retried write after a lost acknowledgement does not duplicate the record.
func (r *SubmissionAuditRepository) Create(ctx context.Context, audit *models.SubmissionAudit) error {
	if audit.ID == "" {
		audit.ID = uuid.NewString()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO registration_submissions
	(id, student_id, sheet_name, rows_expected, rows_appended, updated_range, status, error_message, request_id, submitted_at, created_at)
	VALUES (:id, :student_id, :sheet_name, :rows_expected, :rows_appended, :updated_range, :status, :error_message, :request_id, :submitted_at, :created_at)
	ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, audit); err != nil {
		return fmt.Errorf("create submission audit: %w", err)
	}
	return nil
}

// ListByStudentID returns every recorded attempt for a student, oldest first.
func (r *SubmissionAuditRepository) ListByStudentID(ctx context.Context, studentID string) ([]models.SubmissionAudit, error) {
	const query = `SELECT id, student_id, sheet_name, rows_expected, rows_appended, updated_range, status, error_message,
       request_id, submitted_at, created_at
	FROM registration_submissions WHERE student_id = $1 ORDER BY created_at ASC`
	var audits []models.SubmissionAudit
	if err := r.db.SelectContext(ctx, &audits, query, studentID); err != nil {
		return nil, fmt.Errorf("list submission audits: %w", err)
	}
	return audits, nil
}
