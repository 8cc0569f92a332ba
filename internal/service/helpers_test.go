package service

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/sma-registration-api/internal/models"
	"github.com/noah-isme/sma-registration-api/pkg/sheets"
)

type staticStores struct {
	store sheets.Store
	err   error
	calls int
}

func (s *staticStores) Store(ctx context.Context) (sheets.Store, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.store, nil
}

type recordingAuditor struct {
	mu     sync.Mutex
	audits []models.SubmissionAudit
}

func (r *recordingAuditor) Record(ctx context.Context, audit models.SubmissionAudit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, audit)
}

type fixedIDs struct{ id string }

func (f fixedIDs) NewStudentID(_ time.Time) string { return f.id }
