package service

import (
	"context"
	"time"

	"github.com/noah-isme/sma-registration-api/pkg/observability"
	"github.com/noah-isme/sma-registration-api/pkg/sheets"
)

// instrumentedStore times every store call and reports failures to Sentry.
type instrumentedStore struct {
	next    sheets.Store
	metrics *MetricsService
}

func (s *instrumentedStore) Metadata(ctx context.Context) (*sheets.Spreadsheet, error) {
	start := time.Now()
	meta, err := s.next.Metadata(ctx)
	s.observe(ctx, sheets.OpMetadata, start, err)
	return meta, err
}

func (s *instrumentedStore) UpdateValues(ctx context.Context, rng sheets.Range, values [][]string) error {
	start := time.Now()
	err := s.next.UpdateValues(ctx, rng, values)
	s.observe(ctx, sheets.OpUpdate, start, err)
	return err
}

func (s *instrumentedStore) AppendValues(ctx context.Context, rng sheets.Range, values [][]string) (*sheets.AppendResult, error) {
	start := time.Now()
	res, err := s.next.AppendValues(ctx, rng, values)
	s.observe(ctx, sheets.OpAppend, start, err)
	return res, err
}

func (s *instrumentedStore) UpdateDisplayProperties(ctx context.Context, sheetID int64, props sheets.DisplayProperties) error {
	start := time.Now()
	err := s.next.UpdateDisplayProperties(ctx, sheetID, props)
	s.observe(ctx, sheets.OpDisplay, start, err)
	return err
}

func (s *instrumentedStore) observe(ctx context.Context, op sheets.Operation, start time.Time, err error) {
	s.metrics.ObserveStoreCall(string(op), time.Since(start), err)
	if err != nil {
		observability.CaptureErr(ctx, err, map[string]string{"store_operation": string(op)})
	}
}
