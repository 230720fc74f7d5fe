package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"renohub/services/assistant-api/internal/config"
	"renohub/services/assistant-api/internal/domain/chat"
	"renohub/services/assistant-api/internal/domain/llm"
	"renohub/services/assistant-api/internal/domain/tool"
	"renohub/services/assistant-api/internal/infrastructure/auth"
	"renohub/services/assistant-api/internal/infrastructure/database"
	"renohub/services/assistant-api/internal/infrastructure/llmprovider"
	"renohub/services/assistant-api/internal/infrastructure/logger"
	"renohub/services/assistant-api/internal/infrastructure/marketplaceclient"
	"renohub/services/assistant-api/internal/infrastructure/observability"
	transcriptrepo "renohub/services/assistant-api/internal/infrastructure/repository/transcript"
	"renohub/services/assistant-api/internal/interfaces/httpserver"
)

// @title Assistant API
// @version 1.0
// @description Tool-augmented conversational assistant for the renovation marketplace.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	store := transcriptrepo.NewRepository(db)
	marketplaceReader := marketplaceclient.NewClient(cfg.MarketplaceAPIURL)
	registry := tool.NewRegistry(marketplaceReader, log)

	// Without a configured provider the service still runs: every turn
	// answers with the localized unavailable reply.
	var provider llm.Provider
	if cfg.LLMConfigured() {
		provider = llmprovider.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMTimeout)
	} else {
		log.Warn().Msg("no LLM provider configured, assistant will serve degraded replies")
	}

	chatService := chat.NewService(store, provider, registry, cfg.LLMModel, log)

	httpServer := httpserver.New(cfg, log, chatService, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
