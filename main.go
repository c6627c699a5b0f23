package main

import (
	"context"
	"fmt"
	"os"

	"techdoc_pipeline/core"
	"techdoc_pipeline/db"
	"techdoc_pipeline/extract"
	"techdoc_pipeline/logging"
	"techdoc_pipeline/metrics"
	"techdoc_pipeline/pipeline"
	"techdoc_pipeline/shutdown"
	"techdoc_pipeline/textsource"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Use fmt here since logger isn't initialized yet
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <pdf-file-or-directory>\n", os.Args[0])
		os.Exit(core.ExitCodeError)
	}
	inputPath := os.Args[1]

	isDevelopment := os.Getenv("DEV_MODE") == "true"

	config, err := core.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(core.ExitCodeError)
	}

	logger, err := logging.NewLogger(isDevelopment, config.LogFilePath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(core.ExitCodeError)
	}

	logger.Info("Configuration loaded",
		zap.String("base_url", config.OpenAIBaseURL),
		zap.String("extraction_model", config.ExtractionModel),
		zap.Bool("enable_generative", config.EnableGenerative),
		zap.Bool("enable_nlp", config.EnableNLP),
		zap.Int("max_concurrent", config.MaxConcurrent),
		zap.Duration("processing_timeout", config.ProcessingTimeout),
		zap.String("output_dir", config.OutputDir),
		zap.String("database_path", config.DatabasePath),
		zap.Bool("dev_mode", isDevelopment),
	)

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		logger.Fatal("Failed to create output directory", zap.Error(err))
	}

	database, err := db.NewDatabase(config.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open history database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to migrate history database", zap.Error(err))
	}
	if config.RetentionDays > 0 {
		result, err := database.Cleanup(context.Background(), config.RetentionDays)
		if err != nil {
			logger.Warn("History retention cleanup failed", zap.Error(err))
		} else if result.TotalDeleted > 0 {
			logger.Info("Purged expired history rows",
				zap.Int64("deleted", result.TotalDeleted),
				zap.Int("retention_days", config.RetentionDays))
		}
	}

	writer := db.NewAsyncWriter(db.NewInsertHandler(database), db.DefaultChannelCapacity)
	writer.Start()
	repo := db.NewRepository(database, writer)

	store := metrics.NewStore(metrics.DefaultStoreConfig())
	handle := extract.NewModelHandle(config, logger.Zap())
	adapter := textsource.NewPDFAdapter(textsource.DefaultConfig())
	driver := pipeline.NewDriver(config, adapter, handle, store, logger.Zap())

	manager := shutdown.NewManager(logger.Zap())
	manager.Register("logger", 0, func(ctx context.Context) error {
		logger.Sync()
		return nil
	})
	manager.Register("async-writer", 20, func(ctx context.Context) error {
		writer.Stop()
		return nil
	})
	manager.Register("database", 30, func(ctx context.Context) error {
		return database.Close()
	})
	manager.Start()

	app := &application{
		config: config,
		driver: driver,
		store:  store,
		repo:   repo,
		logger: logger,
	}

	exitCode := app.run(manager.Context(), inputPath)

	// A signal during processing takes precedence over the run outcome.
	if manager.Interrupted() {
		exitCode = manager.ExitCode()
	}
	logger.Info("Exiting",
		zap.Int("code", exitCode),
		zap.String("status", core.ExitCodeName(exitCode)))

	if err := manager.Shutdown(); err != nil {
		logger.Error("Shutdown finished with errors", zap.Error(err))
	}
	os.Exit(exitCode)
}
