// Package main is the entry point for the aesy analysis server. It wires
// the FX rate store, the provider clients and the scoring/valuation
// engine behind an HTTP API, and keeps the rate history current with a
// daily snapshot job.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nickybricks/private-aesy-sub003/internal/clientdata"
	"github.com/nickybricks/private-aesy-sub003/internal/clients/classifier"
	"github.com/nickybricks/private-aesy-sub003/internal/clients/fundamentals"
	"github.com/nickybricks/private-aesy-sub003/internal/clients/fxquote"
	"github.com/nickybricks/private-aesy-sub003/internal/config"
	"github.com/nickybricks/private-aesy-sub003/internal/database"
	"github.com/nickybricks/private-aesy-sub003/internal/domain"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/analysis"
	analysishandlers "github.com/nickybricks/private-aesy-sub003/internal/modules/analysis/handlers"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/fx"
	fxhandlers "github.com/nickybricks/private-aesy-sub003/internal/modules/fx/handlers"
	"github.com/nickybricks/private-aesy-sub003/internal/scheduler"
	"github.com/nickybricks/private-aesy-sub003/internal/server"
	"github.com/nickybricks/private-aesy-sub003/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting aesy server")

	// Two databases: rates.db holds the FX history (standard profile),
	// cache.db holds short-lived provider responses (cache profile).
	ratesDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "rates.db"),
		Profile: database.ProfileStandard,
		Name:    "rates",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open rates database")
	}
	defer ratesDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	if err := ratesDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate rates database")
	}
	if err := cacheDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate cache database")
	}

	// Clients
	cacheRepo := clientdata.NewRepository(cacheDB.Conn())
	fxQuoteClient := fxquote.NewClient(cfg.FxAPIBaseURL, cacheRepo, log)
	fundamentalsClient := fundamentals.NewClient(cfg.ProviderURL, cfg.ProviderKey, cacheRepo, log)

	var answerClassifier domain.AnswerClassifier
	if cfg.GeminiAPIKey != "" {
		gemini, err := classifier.NewGeminiClassifier(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create answer classifier")
		}
		answerClassifier = gemini
		log.Info().Str("model", cfg.GeminiModel).Msg("Answer classifier enabled")
	}

	// Engine
	fxRepo := fx.NewRepository(ratesDB.Conn())
	fxResolver := fx.NewResolver(fxRepo, fxQuoteClient, log)
	analysisService := analysis.NewService(fxResolver, answerClassifier, cfg.MarginPercent, log)

	// Handlers
	fxHandler := fxhandlers.NewHandler(fxResolver, log)
	analysisHandler := analysishandlers.NewHandler(analysisService, fundamentalsClient, log)

	// Background jobs
	snapshotJob := fx.NewSnapshotJob(fxRepo, fxQuoteClient, cfg.WatchedPairs, log)
	cleanupJob := clientdata.NewCleanupJob(cacheRepo, log)

	sched := scheduler.New(log)
	if err := sched.AddJob("0 0 6 * * *", snapshotJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register FX snapshot job")
	}
	if err := sched.AddJob("0 30 3 * * *", cleanupJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cache cleanup job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:              log,
		RatesDB:          ratesDB,
		CacheDB:          cacheDB,
		Config:           cfg,
		Port:             cfg.Port,
		DevMode:          cfg.DevMode,
		FxHandler:        fxHandler,
		AnalysisHandler:  analysisHandler,
		SnapshotJob:      snapshotJob,
		CacheCleanupJob:  cleanupJob,
		SchedulerService: sched,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
