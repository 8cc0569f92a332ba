package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-registration-api/internal/models"
	"github.com/noah-isme/sma-registration-api/pkg/config"
	"github.com/noah-isme/sma-registration-api/pkg/jobs"
)

type auditRepository interface {
	Create(ctx context.Context, audit *models.SubmissionAudit) error
}

// AuditService writes submission audits off the request path through a
// bounded worker queue. A full queue drops the record rather than delaying
// the submitter.
type AuditService struct {
	queue   *jobs.Queue[models.SubmissionAudit]
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAuditService constructs the dispatcher. Call Start before recording.
func NewAuditService(repo auditRepository, cfg config.AuditConfig, metrics *MetricsService, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job[models.SubmissionAudit]) error {
		audit := job.Payload
		return repo.Create(ctx, &audit)
	}
	queue := jobs.NewQueue("submission-audit", handler, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return &AuditService{queue: queue, metrics: metrics, logger: logger}
}

// Start launches the audit workers. A nil service records nothing.
func (s *AuditService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop writes every audit already queued, then stops the workers. Retries
// still waiting on their delay are dropped.
func (s *AuditService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// Record queues an audit for persistence.
func (s *AuditService) Record(ctx context.Context, audit models.SubmissionAudit) {
	if s == nil {
		return
	}
	// fixed before queuing so a retried insert reuses the same primary key
	if audit.ID == "" {
		audit.ID = uuid.NewString()
	}
	if err := s.queue.Enqueue(jobs.Job[models.SubmissionAudit]{ID: audit.StudentID, Payload: audit}); err != nil {
		s.metrics.RecordAuditDropped()
		s.logger.Warn("submission audit dropped",
			zap.String("student_id", audit.StudentID),
			zap.String("status", audit.Status),
			zap.Error(err),
		)
	}
}
