//go:build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/playgolfspainnow/chat-api/internal/config"
	"github.com/playgolfspainnow/chat-api/internal/domain/booking"
	"github.com/playgolfspainnow/chat-api/internal/domain/chat"
	"github.com/playgolfspainnow/chat-api/internal/domain/conversation"
	"github.com/playgolfspainnow/chat-api/internal/domain/golf"
	"github.com/playgolfspainnow/chat-api/internal/domain/provider"
	"github.com/playgolfspainnow/chat-api/internal/domain/tool"
	"github.com/playgolfspainnow/chat-api/internal/infrastructure/golfnow"
	"github.com/playgolfspainnow/chat-api/internal/infrastructure/logger"
	bookingrepo "github.com/playgolfspainnow/chat-api/internal/infrastructure/repository/booking"
	conversationrepo "github.com/playgolfspainnow/chat-api/internal/infrastructure/repository/conversation"
	"github.com/playgolfspainnow/chat-api/internal/interfaces/httpserver"
)

var memorySet = wire.NewSet(
	conversationrepo.NewMemoryRepository,
	wire.Bind(new(conversation.Repository), new(*conversationrepo.MemoryRepository)),
	bookingrepo.NewMemoryRepository,
	wire.Bind(new(booking.Repository), new(*bookingrepo.MemoryRepository)),
)

// BuildApplication assembles the chat service on the in-memory stores. The
// database-backed assembly in server.go stays hand-wired because the store
// choice depends on runtime configuration.
func BuildApplication() (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		memorySet,
		newGolfNowClient,
		wire.Bind(new(golf.Client), new(*golfnow.Client)),
		newBackendSet,
		wire.FieldsOf(new(backendSet), "Selector", "Searcher"),
		newRegistry,
		wire.Bind(new(chat.ToolRunner), new(*tool.Registry)),
		newChatService,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newGolfNowClient(cfg *config.Config, log zerolog.Logger) (*golfnow.Client, error) {
	return golfnow.NewClient(golfnow.Config{
		Username:    cfg.GolfNowUsername,
		Password:    cfg.GolfNowPassword,
		ChannelID:   cfg.GolfNowChannelID,
		AffiliateID: cfg.GolfNowAffiliateID,
		BaseURL:     cfg.GolfNowBaseURL,
		Timeout:     cfg.GolfNowTimeout,
	}, log)
}

// backendSet carries the two results of buildBackends through the graph.
type backendSet struct {
	Selector *provider.Selector
	Searcher tool.WebSearcher
}

func newBackendSet(cfg *config.Config, log zerolog.Logger) backendSet {
	selector, searcher := buildBackends(cfg, log)
	return backendSet{Selector: selector, Searcher: searcher}
}

func newRegistry(golfClient golf.Client, bookings booking.Repository, webSearcher tool.WebSearcher, log zerolog.Logger) *tool.Registry {
	return tool.NewRegistry(golfClient, bookings, webSearcher, log)
}

func newChatService(store conversation.Repository, selector *provider.Selector, tools chat.ToolRunner, cfg *config.Config, log zerolog.Logger) *chat.Service {
	return chat.NewService(store, selector, tools, chat.Config{
		MaxIterations:    cfg.MaxTurnIterations,
		ModelCallTimeout: cfg.ModelCallTimeout,
		ToolTimeout:      cfg.ToolTimeout,
	}, log)
}
