package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PaulDelamare/FoudViseur/internal/bot"
	"github.com/PaulDelamare/FoudViseur/internal/bot/handlers"
	"github.com/PaulDelamare/FoudViseur/internal/config"
	"github.com/PaulDelamare/FoudViseur/internal/database"
	"github.com/PaulDelamare/FoudViseur/internal/domain"
	"github.com/PaulDelamare/FoudViseur/internal/logger"
	"github.com/PaulDelamare/FoudViseur/internal/nutrition"
	"github.com/PaulDelamare/FoudViseur/internal/repository"
	"github.com/PaulDelamare/FoudViseur/internal/services"
	"github.com/PaulDelamare/FoudViseur/internal/staging"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	if err := logger.InitWithConfig(cfg.LoggerSettings()); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	if envErr != nil {
		logger.Warn(".env file not found, using environment only")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", "error", err)
	}
	logger.Info("Starting FoudViseur bot...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := database.NewStore(cfg.DB.Path, database.WithLogger(logger.Component("database")))
	defer store.Close()

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = store.Init(initCtx)
	cancel()
	if err != nil {
		logger.Fatal("Failed to open database", "path", cfg.DB.Path, "error", err)
	}
	logger.Info("Database ready", "path", cfg.DB.Path)

	var scanned domain.ScannedStaging = staging.NewMemory()
	if cfg.Redis.Enabled() {
		redisStaging, err := staging.NewRedis(ctx, staging.RedisOptions{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.StagingKey,
			TTL:      cfg.Redis.StagingTTL,
		}, logger.Component("staging"))
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "addr", cfg.Redis.Addr(), "error", err)
		}
		defer redisStaging.Close()
		scanned = redisStaging
		logger.Info("Scanned products staged in Redis", "addr", cfg.Redis.Addr(), "key", cfg.Redis.StagingKey)
	} else {
		logger.Info("Scanned products staged in memory")
	}

	var reader domain.BarcodeReader
	if cfg.Gemini.APIKey != "" {
		vision, err := services.NewVisionService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger.Component("vision"))
		if err != nil {
			logger.Fatal("Failed to create Gemini client", "error", err)
		}
		defer vision.Close()
		reader = vision
	} else {
		logger.Warn("GEMINI_API_KEY not set, photo scanning disabled")
	}

	// Initialize services
	meals := repository.NewMealRepository(store)
	edamam := nutrition.NewEdamam(cfg.Edamam, logger.Component("edamam"))
	mealService := services.NewMealService(meals, scanned, logger.Component("meals"))
	searchService := services.NewFoodSearchService(edamam, logger.Component("search"))
	barcodeService := services.NewBarcodeService(edamam, scanned, reader, logger.Component("barcode"))
	logger.Info("Services initialized successfully")

	telegramBot, err := bot.NewBot(cfg.TelegramToken, cfg.TelegramOwnerID, handlers.Dependencies{
		MealSvc:    mealService,
		SearchSvc:  searchService,
		BarcodeSvc: barcodeService,
		Location:   time.Local,
	})
	if err != nil {
		logger.Fatal("Failed to create bot", "error", err)
	}

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	if err := telegramBot.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Shutting down")
}
