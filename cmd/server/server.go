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

	"github.com/playgolfspainnow/chat-api/internal/config"
	"github.com/playgolfspainnow/chat-api/internal/domain/booking"
	"github.com/playgolfspainnow/chat-api/internal/domain/chat"
	"github.com/playgolfspainnow/chat-api/internal/domain/conversation"
	"github.com/playgolfspainnow/chat-api/internal/domain/provider"
	"github.com/playgolfspainnow/chat-api/internal/domain/tool"
	"github.com/playgolfspainnow/chat-api/internal/infrastructure/database"
	"github.com/playgolfspainnow/chat-api/internal/infrastructure/golfnow"
	"github.com/playgolfspainnow/chat-api/internal/infrastructure/llmprovider"
	"github.com/playgolfspainnow/chat-api/internal/infrastructure/logger"
	"github.com/playgolfspainnow/chat-api/internal/infrastructure/observability"
	bookingrepo "github.com/playgolfspainnow/chat-api/internal/infrastructure/repository/booking"
	conversationrepo "github.com/playgolfspainnow/chat-api/internal/infrastructure/repository/conversation"
	"github.com/playgolfspainnow/chat-api/internal/interfaces/httpserver"
)

// Application bundles the running pieces of the chat service.
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

// NewApplication builds the application shell.
func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

// Start runs the HTTP server until the context is cancelled.
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

	conversations, bookings := buildStores(ctx, cfg, log)

	golfClient, err := golfnow.NewClient(golfnow.Config{
		Username:    cfg.GolfNowUsername,
		Password:    cfg.GolfNowPassword,
		ChannelID:   cfg.GolfNowChannelID,
		AffiliateID: cfg.GolfNowAffiliateID,
		BaseURL:     cfg.GolfNowBaseURL,
		Timeout:     cfg.GolfNowTimeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize booking provider client")
	}

	selector, webSearcher := buildBackends(cfg, log)

	registry := tool.NewRegistry(golfClient, bookings, webSearcher, log)

	chatService := chat.NewService(conversations, selector, registry, chat.Config{
		MaxIterations:    cfg.MaxTurnIterations,
		ModelCallTimeout: cfg.ModelCallTimeout,
		ToolTimeout:      cfg.ToolTimeout,
	}, log)

	httpServer := httpserver.New(cfg, log, chatService, selector, conversations)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// buildStores picks PostgreSQL when a database URL is configured and falls
// back to process memory otherwise. The choice is logged once at startup.
func buildStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (conversation.Repository, booking.Repository) {
	if cfg.DatabaseURL == "" {
		log.Info().Msg("no database configured, using in-memory storage")
		return conversationrepo.NewMemoryRepository(), bookingrepo.NewMemoryRepository()
	}

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

	log.Info().Msg("using PostgreSQL storage")
	return conversationrepo.NewRepository(db), bookingrepo.NewRepository(db)
}

// buildBackends constructs the configured model backends and the optional
// web searcher. OpenAI drives tool calling; Perplexity serves both as the
// search-only fallback backend and as the web search tool's engine.
func buildBackends(cfg *config.Config, log zerolog.Logger) (*provider.Selector, tool.WebSearcher) {
	var backends []provider.Backend
	var webSearcher tool.WebSearcher

	if cfg.HasOpenAI() {
		backends = append(backends, provider.Backend{
			Kind:          provider.KindOpenAI,
			Model:         cfg.OpenAIModel,
			SupportsTools: true,
			Client:        llmprovider.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.ModelCallTimeout),
		})
	}
	if cfg.HasPerplexity() {
		client := llmprovider.NewClient(cfg.PerplexityBaseURL, cfg.PerplexityAPIKey, cfg.ModelCallTimeout)
		backends = append(backends, provider.Backend{
			Kind:          provider.KindPerplexity,
			Model:         cfg.PerplexityModel,
			SupportsTools: false,
			Client:        client,
		})
		webSearcher = llmprovider.NewWebSearchAdapter(client, cfg.PerplexityModel)
	}

	if len(backends) == 0 {
		log.Warn().Msg("no chat backend configured, turns will fail until OPENAI_API_KEY or PERPLEXITY_API_KEY is set")
	}

	return provider.NewSelector(backends...), webSearcher
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
