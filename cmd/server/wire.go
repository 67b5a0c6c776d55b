//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"verse-server/services/chat-api/internal/config"
	"verse-server/services/chat-api/internal/domain/chat"
	"verse-server/services/chat-api/internal/domain/llm"
	"verse-server/services/chat-api/internal/domain/thread"
	"verse-server/services/chat-api/internal/infrastructure/auth"
	"verse-server/services/chat-api/internal/infrastructure/database"
	"verse-server/services/chat-api/internal/infrastructure/gemini"
	"verse-server/services/chat-api/internal/infrastructure/logger"
	threadrepo "verse-server/services/chat-api/internal/infrastructure/repository/thread"
	"verse-server/services/chat-api/internal/interfaces/httpserver"
)

var chatSet = wire.NewSet(
	threadrepo.NewPostgresRepository,
	wire.Bind(new(thread.Repository), new(*threadrepo.PostgresRepository)),
	thread.NewService,
	newProviderClient,
	wire.Bind(new(llm.Provider), new(*gemini.Client)),
	newConfigStore,
	chat.NewService,
)

// BuildApplication assembles the chat service with Wire.
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
	if err := database.Migrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newProviderClient(cfg *config.Config, log zerolog.Logger) *gemini.Client {
	return gemini.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, log)
}

func newConfigStore(cfg *config.Config) (*llm.ConfigStore, error) {
	return llm.NewConfigStore(cfg.ProviderConfig())
}
