package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-registration-api/pkg/config"
	appErrors "github.com/noah-isme/sma-registration-api/pkg/errors"
	"github.com/noah-isme/sma-registration-api/pkg/observability"
	"github.com/noah-isme/sma-registration-api/pkg/sheets"
)

// StoreProvider lazily builds the authenticated store client on first use and
// keeps it for the life of the process. A failed build is not cached, so a
// transient failure such as an unreachable token endpoint recovers on the next
// request. Configuration is read once at boot; a missing credential stays
// missing until restart.
//
// At most one build runs at a time. Callers waiting behind it give up when
// their own context ends.
type StoreProvider struct {
	cfg     config.SheetConfig
	metrics *MetricsService
	logger  *zap.Logger
	build   func(context.Context, config.SheetConfig) (sheets.Store, error)

	sem   chan struct{}
	store sheets.Store
}

// NewStoreProvider constructs a provider for the configured driver.
func NewStoreProvider(cfg config.SheetConfig, metrics *MetricsService, logger *zap.Logger) *StoreProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreProvider{cfg: cfg, metrics: metrics, logger: logger, build: buildStore, sem: make(chan struct{}, 1)}
}

// SheetName returns the configured target sheet title.
func (p *StoreProvider) SheetName() string {
	return p.cfg.SheetName
}

// Store returns the shared store client, building it if needed.
func (p *StoreProvider) Store(ctx context.Context) (sheets.Store, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, appErrors.Store(ctx.Err())
	}
	defer func() { <-p.sem }()

	if p.store != nil {
		return p.store, nil
	}

	start := time.Now()
	store, err := p.build(ctx, p.cfg)
	if err != nil {
		if !appErrors.HasCode(err, appErrors.ErrConfiguration) {
			observability.CaptureErr(ctx, err, map[string]string{"component": "store_provider"})
		}
		p.logger.Warn("sheet store unavailable", zap.String("driver", p.cfg.Driver), zap.Error(err))
		return nil, err
	}
	p.logger.Info("sheet store ready", zap.String("driver", p.cfg.Driver), zap.Duration("latency", time.Since(start)))
	p.store = &instrumentedStore{next: store, metrics: p.metrics}
	return p.store, nil
}

// Close releases the cached client when the driver holds resources.
func (p *StoreProvider) Close() error {
	p.sem <- struct{}{}
	defer func() { <-p.sem }()
	if p.store == nil {
		return nil
	}
	var err error
	if inst, ok := p.store.(*instrumentedStore); ok {
		if closer, ok := inst.next.(io.Closer); ok {
			err = closer.Close()
		}
	}
	p.store = nil
	return err
}

func buildStore(ctx context.Context, cfg config.SheetConfig) (sheets.Store, error) {
	switch cfg.Driver {
	case config.StoreDriverGoogle, "":
		if cfg.ServiceAccountKey == "" {
			return nil, appErrors.Clone(appErrors.ErrConfiguration, "GOOGLE_SERVICE_ACCOUNT_KEY not configured")
		}
		if cfg.SpreadsheetID == "" {
			return nil, appErrors.Clone(appErrors.ErrConfiguration, "SHEET_ID not configured")
		}
		acct, err := sheets.ParseServiceAccount(cfg.ServiceAccountKey)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrConfiguration.Code, appErrors.ErrConfiguration.Status, "GOOGLE_SERVICE_ACCOUNT_KEY is invalid: "+err.Error())
		}
		store, err := sheets.NewGoogleStore(ctx, acct, cfg.SpreadsheetID,
			sheets.WithCallTimeout(cfg.Timeout),
			sheets.WithHandshakeTimeout(cfg.Timeout),
		)
		if err != nil {
			return nil, appErrors.Store(err)
		}
		return store, nil
	case config.StoreDriverXLSX:
		if cfg.XLSXPath == "" {
			return nil, appErrors.Clone(appErrors.ErrConfiguration, "XLSX_PATH not configured")
		}
		store, err := sheets.NewXLSXStore(cfg.XLSXPath, cfg.SheetName)
		if err != nil {
			return nil, appErrors.Store(err)
		}
		return store, nil
	case config.StoreDriverMemory:
		return sheets.NewMemoryStore("memory", cfg.SheetName), nil
	default:
		return nil, appErrors.Clone(appErrors.ErrConfiguration, "unknown STORE_DRIVER "+cfg.Driver)
	}
}
