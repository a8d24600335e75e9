package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/config"
	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/onboarding"
	appHTTP "github.com/cmlabs-hris/payroll-onboarding/internal/handler/http"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/crypto"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/payrollapi"
	"github.com/cmlabs-hris/payroll-onboarding/internal/repository/memory"
	"github.com/cmlabs-hris/payroll-onboarding/internal/repository/postgresql"
	"github.com/cmlabs-hris/payroll-onboarding/internal/repository/sqlite"
	compensationService "github.com/cmlabs-hris/payroll-onboarding/internal/service/compensation"
	onboardingService "github.com/cmlabs-hris/payroll-onboarding/internal/service/onboarding"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger := appHTTP.NewLogger(cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drafts, closeDrafts, err := newDraftRepository(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize draft store: ", err)
	}
	defer closeDrafts()

	payrollClient, err := payrollapi.NewClient(cfg.PayrollAPI, logger)
	if err != nil {
		log.Fatal("Failed to initialize payroll API client: ", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	compensationSvc := compensationService.NewCompensationService(payrollClient, payrollClient, cfg.Catalog.TTL, logger)
	onboardingSvc := onboardingService.NewOnboardingService(drafts, payrollClient, payrollClient, compensationSvc, logger)

	router := appHTTP.NewRouter(
		cfg.App,
		logger,
		JWTService,
		appHTTP.NewCompensationHandler(compensationSvc),
		appHTTP.NewOnboardingHandler(onboardingSvc),
	)

	scheduler := cron.NewScheduler(logger)
	if cfg.Drafts.Retention > 0 {
		draftJobs := cron.NewDraftJobs(drafts, cfg.Drafts.Retention, logger)
		scheduler.AddJob("purge-stale-drafts", cfg.Drafts.PurgeInterval, draftJobs.PurgeStaleDrafts)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", server.Addr), slog.String("draft_store", cfg.Drafts.Store))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}

// newDraftRepository opens the store selected by DRAFT_STORE.
func newDraftRepository(ctx context.Context, cfg *config.Config) (onboarding.DraftRepository, func(), error) {
	sealer, err := crypto.NewSealer(cfg.Drafts.EncryptionKey)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Drafts.Store {
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, err
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgresql.NewDraftRepository(db, sealer), db.Close, nil

	case "sqlite":
		db, err := database.NewSQLiteDB(ctx, cfg.Drafts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := sqlite.NewDraftRepository(ctx, db, sealer)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil

	default:
		return memory.NewDraftRepository(), func() {}, nil
	}
}
