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

	"verse-server/services/chat-api/internal/config"
	"verse-server/services/chat-api/internal/domain/chat"
	"verse-server/services/chat-api/internal/domain/llm"
	"verse-server/services/chat-api/internal/domain/thread"
	"verse-server/services/chat-api/internal/infrastructure/auth"
	"verse-server/services/chat-api/internal/infrastructure/database"
	"verse-server/services/chat-api/internal/infrastructure/gemini"
	"verse-server/services/chat-api/internal/infrastructure/logger"
	"verse-server/services/chat-api/internal/infrastructure/observability"
	threadrepo "verse-server/services/chat-api/internal/infrastructure/repository/thread"
	"verse-server/services/chat-api/internal/interfaces/httpserver"
)

// @title Chat API
// @version 1.0
// @description Chat backend with thread persistence and a generative language provider proxy.
// @contact.name Verse Server Team
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

	if err := database.Migrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	configs, err := llm.NewConfigStore(cfg.ProviderConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("seed provider config")
	}

	threadRepository := threadrepo.NewPostgresRepository(db)
	threadService := thread.NewService(threadRepository, log)
	provider := gemini.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, log)
	chatService := chat.NewService(threadService, threadRepository, provider, configs, log)

	httpServer := httpserver.New(cfg, log, chatService, threadService, configs, authValidator)
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
