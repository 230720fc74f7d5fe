//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"renohub/services/assistant-api/internal/config"
	"renohub/services/assistant-api/internal/domain/chat"
	"renohub/services/assistant-api/internal/domain/llm"
	"renohub/services/assistant-api/internal/domain/marketplace"
	"renohub/services/assistant-api/internal/domain/tool"
	"renohub/services/assistant-api/internal/infrastructure/auth"
	"renohub/services/assistant-api/internal/infrastructure/database"
	"renohub/services/assistant-api/internal/infrastructure/llmprovider"
	"renohub/services/assistant-api/internal/infrastructure/logger"
	"renohub/services/assistant-api/internal/infrastructure/marketplaceclient"
	transcriptrepo "renohub/services/assistant-api/internal/infrastructure/repository/transcript"
	"renohub/services/assistant-api/internal/interfaces/httpserver"
)

var chatSet = wire.NewSet(
	transcriptrepo.NewRepository,
	wire.Bind(new(chat.Store), new(*transcriptrepo.Repository)),
	newMarketplaceClient,
	wire.Bind(new(marketplace.Reader), new(*marketplaceclient.Client)),
	newToolRegistry,
	wire.Bind(new(chat.ToolRunner), new(*tool.Registry)),
	newLLMProvider,
	newChatService,
)

// BuildApplication demonstrates how to assemble the assistant service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		chatSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newMarketplaceClient(cfg *config.Config) *marketplaceclient.Client {
	return marketplaceclient.NewClient(cfg.MarketplaceAPIURL)
}

func newToolRegistry(reader marketplace.Reader, log zerolog.Logger) *tool.Registry {
	return tool.NewRegistry(reader, log)
}

func newLLMProvider(cfg *config.Config) llm.Provider {
	if !cfg.LLMConfigured() {
		return nil
	}
	return llmprovider.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMTimeout)
}

func newChatService(store chat.Store, provider llm.Provider, tools chat.ToolRunner, cfg *config.Config, log zerolog.Logger) *chat.Service {
	return chat.NewService(store, provider, tools, cfg.LLMModel, log)
}
