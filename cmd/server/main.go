package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmoura/financo-backend/internal/adapter/httpapi"
	"github.com/dmoura/financo-backend/internal/adapter/marketdata"
	"github.com/dmoura/financo-backend/internal/adapter/repository/postgres"
	"github.com/dmoura/financo-backend/internal/config"
	"github.com/dmoura/financo-backend/internal/scheduler"
	"github.com/dmoura/financo-backend/internal/usecase/analyzer"
	"github.com/dmoura/financo-backend/internal/usecase/challenge"
	"github.com/dmoura/financo-backend/internal/usecase/dashboard"
	"github.com/dmoura/financo-backend/internal/usecase/health"
	"github.com/dmoura/financo-backend/internal/usecase/position"
	"github.com/dmoura/financo-backend/internal/usecase/screener"
	"github.com/dmoura/financo-backend/internal/usecase/statement"
	"github.com/dmoura/financo-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting financo backend")

	db, err := postgres.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Repositories
	instrumentRepo := postgres.NewInstrumentRepository(db)
	operationRepo := postgres.NewOperationRepository(db)
	analysisRepo := postgres.NewAnalysisRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	billRepo := postgres.NewBillRepository(db)
	cardRepo := postgres.NewCardRepository(db)
	challengeRepo := postgres.NewChallengeRepository(db)

	// External data sources
	quoteClient := marketdata.NewClient(cfg.QuoteAPIURL, log)
	universeClient := marketdata.NewUniverseClient(cfg.UniverseAPIURL, log)

	// Use cases
	positionService := position.NewService(instrumentRepo, operationRepo, log)
	analyzerService := analyzer.NewService(instrumentRepo, analysisRepo, quoteClient, log)
	screenerService := screener.NewService(universeClient, log)
	healthService := health.NewService(transactionRepo, billRepo, cardRepo, instrumentRepo, analysisRepo, log)
	dashboardService := dashboard.NewService(transactionRepo, billRepo, log)
	statementService := statement.NewService(cardRepo, log)
	challengeService := challenge.NewService(challengeRepo, log)

	// Background jobs
	sched := scheduler.New(log)

	analysisJob := &scheduler.AnalysisJob{
		Analyzer:       analyzerService,
		InstrumentRepo: instrumentRepo,
		Log:            log,
	}
	if err := sched.AddJob(cfg.AnalysisSchedule, analysisJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register analysis job")
	}

	if cfg.UniverseAPIURL != "" {
		screenerJob := &scheduler.ScreenerJob{
			Screener: screenerService,
			Log:      log,
		}
		if err := sched.AddJob(cfg.ScreenerSchedule, screenerJob); err != nil {
			log.Fatal().Err(err).Msg("Failed to register screener job")
		}
	}

	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := httpapi.New(httpapi.Config{
		Port: cfg.Port,
		Log:  log,
		Services: httpapi.Services{
			Position:    positionService,
			Analyzer:    analyzerService,
			Screener:    screenerService,
			Health:      healthService,
			Dashboard:   dashboardService,
			Statement:   statementService,
			Challenge:   challengeService,
			Instruments: instrumentRepo,
		},
		DevMode: cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
