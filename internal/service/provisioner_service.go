package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-registration-api/internal/models"
	appErrors "github.com/noah-isme/sma-registration-api/pkg/errors"
	"github.com/noah-isme/sma-registration-api/pkg/sheets"
)

// ProvisionerService prepares the registration sheet: right-to-left layout
// and the canonical header row. Every run overwrites both, so running it
// again is harmless.
type ProvisionerService struct {
	stores       storeSource
	defaultSheet string
	metrics      *MetricsService
	logger       *zap.Logger
}

// NewProvisionerService constructs the provisioner.
func NewProvisionerService(stores storeSource, defaultSheet string, metrics *MetricsService, logger *zap.Logger) *ProvisionerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProvisionerService{stores: stores, defaultSheet: defaultSheet, metrics: metrics, logger: logger}
}

// Provision locates sheetName (or the configured default when empty), falling
// back to the first sheet when no title matches, then sets it right-to-left
// and writes the header into A1:O1.
func (s *ProvisionerService) Provision(ctx context.Context, sheetName string) (*models.ProvisionResult, error) {
	result, err := s.provision(ctx, sheetName)
	if err != nil {
		s.metrics.RecordProvision(outcomeFor(err))
		s.logger.Error("sheet provisioning failed", zap.String("sheet", sheetName), zap.Error(err))
		return nil, err
	}
	s.metrics.RecordProvision(OutcomeSuccess)
	s.logger.Info("sheet provisioned",
		zap.String("requested", result.Requested),
		zap.String("sheet", result.SheetTitle),
		zap.Int64("sheet_id", result.SheetID),
		zap.Bool("fallback", result.UsedFallback),
	)
	return result, nil
}

func (s *ProvisionerService) provision(ctx context.Context, sheetName string) (*models.ProvisionResult, error) {
	if sheetName == "" {
		sheetName = s.defaultSheet
	}

	store, err := s.stores.Store(ctx)
	if err != nil {
		return nil, err
	}

	meta, err := store.Metadata(ctx)
	if err != nil {
		return nil, appErrors.Store(err)
	}

	target, found := meta.FindSheet(sheetName)
	if !found {
		if len(meta.Sheets) == 0 {
			return nil, appErrors.Clone(appErrors.ErrNoSheets, "")
		}
		target = meta.Sheets[0]
		s.logger.Warn("sheet not found, provisioning first sheet instead",
			zap.String("requested", sheetName),
			zap.String("sheet", target.Title),
		)
	}

	if err := store.UpdateDisplayProperties(ctx, target.SheetID, sheets.DisplayProperties{RightToLeft: true}); err != nil {
		return nil, appErrors.Store(err)
	}

	header := sheets.RowRange(target.Title, 1, 1, models.ColumnCount)
	if err := store.UpdateValues(ctx, header, [][]string{models.HeaderValues()}); err != nil {
		return nil, appErrors.Store(err)
	}

	return &models.ProvisionResult{
		SheetID:      target.SheetID,
		SheetTitle:   target.Title,
		Requested:    sheetName,
		UsedFallback: !found,
	}, nil
}
