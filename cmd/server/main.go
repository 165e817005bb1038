package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/viajafacil/viajafacil/internal/assistant"
	"github.com/viajafacil/viajafacil/internal/backup"
	"github.com/viajafacil/viajafacil/internal/config"
	httpserver "github.com/viajafacil/viajafacil/internal/interfaces/http"
	"github.com/viajafacil/viajafacil/internal/report"
	"github.com/viajafacil/viajafacil/internal/repository"
	"github.com/viajafacil/viajafacil/internal/store"
	"github.com/viajafacil/viajafacil/pkg/database"
	"github.com/viajafacil/viajafacil/pkg/utils"
)

func main() {
	// Local overrides for development; missing .env is fine
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting ViajaFacil trip planner",
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		logger.Fatal("Failed to initialize database schema", zap.Error(err))
	}

	tripRepo := repository.NewTripRepository(db, logger)
	trips, err := tripRepo.Load()
	if err != nil {
		logger.Fatal("Failed to load trips", zap.Error(err))
	}
	logger.Info("Trips loaded", zap.Int("count", len(trips)))

	tripStore := store.New(trips, tripRepo, logger)
	backupSvc := backup.NewService(cfg.Backup.AppName, logger)
	reportWriter := report.NewWriter(cfg.Report.OutputDir, logger)

	var assistantClient *assistant.Client
	if cfg.OpenAI.APIKey != "" {
		assistantClient = assistant.NewClient(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.Temperature,
			cfg.OpenAI.Timeout,
			logger,
		)
	} else {
		logger.Warn("No AI API key configured, assistant features disabled")
	}

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		tripStore,
		backupSvc,
		assistantClient,
		reportWriter,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}
