package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-registration-api/internal/service"
	"github.com/noah-isme/sma-registration-api/pkg/config"
	"github.com/noah-isme/sma-registration-api/pkg/logger"
)

func main() {
	sheetName := flag.String("sheet", "", "sheet title to provision (defaults to SHEET_NAME)")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	stores := service.NewStoreProvider(cfg.Sheet, nil, logr)
	defer stores.Close() //nolint:errcheck

	provisioner := service.NewProvisionerService(stores, stores.SheetName(), nil, logr)
	result, err := provisioner.Provision(ctx, *sheetName)
	if err != nil {
		logr.Error("setup failed", zap.Error(err))
		os.Exit(1)
	}

	if result.UsedFallback {
		logr.Warn("requested sheet not found, provisioned first sheet instead",
			zap.String("requested", result.Requested),
			zap.String("sheet", result.SheetTitle),
		)
	}
}
