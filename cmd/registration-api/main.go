package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-registration-api/api/swagger"
	"github.com/noah-isme/sma-registration-api/internal/handler"
	"github.com/noah-isme/sma-registration-api/internal/middleware"
	"github.com/noah-isme/sma-registration-api/internal/repository"
	"github.com/noah-isme/sma-registration-api/internal/service"
	"github.com/noah-isme/sma-registration-api/pkg/config"
	"github.com/noah-isme/sma-registration-api/pkg/database"
	"github.com/noah-isme/sma-registration-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-registration-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-registration-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-registration-api/pkg/observability"
)

// @title SMA Registration API
// @version 1.0.0
// @description Student registration intake backed by a spreadsheet
// @BasePath /
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	flush, err := observability.InitSentry(cfg.Sentry.DSN, cfg.Env, cfg.Sentry.Release)
	if err != nil {
		logr.Warn("sentry disabled", zap.Error(err))
	}
	defer flush()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	stores := service.NewStoreProvider(cfg.Sheet, metrics, logr)
	defer func() {
		if err := stores.Close(); err != nil {
			logr.Warn("close sheet store", zap.Error(err))
		}
	}()

	var audits *service.AuditService
	if cfg.Database.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect database", zap.Error(err))
		}
		defer db.Close()
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				logr.Fatal("failed to migrate database", zap.Error(err))
			}
		}
		audits = service.NewAuditService(repository.NewSubmissionAuditRepository(db), cfg.Audit, metrics, logr)
		audits.Start(context.Background())
		defer audits.Stop()
	} else {
		logr.Info("submission audit disabled")
	}

	submissions := service.NewSubmissionService(stores, stores.SheetName(), validator.New(), audits, metrics, logr)
	provisioner := service.NewProvisionerService(stores, stores.SheetName(), metrics, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics, "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handler.RegisterRoutes(r, cfg.APIPrefix,
		handler.NewRegistrationHandler(submissions, provisioner),
		handler.NewMetricsHandler(metrics, stores),
	)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("store_driver", cfg.Sheet.Driver),
			zap.String("sheet", cfg.Sheet.SheetName),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
