package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/playgolfspainnow/chat-api/internal/domain/conversation"
	"github.com/playgolfspainnow/chat-api/internal/domain/llm"
	"github.com/playgolfspainnow/chat-api/internal/domain/provider"
	"github.com/playgolfspainnow/chat-api/internal/domain/tool"
	"github.com/playgolfspainnow/chat-api/internal/infrastructure/metrics"
)

var (
	// ErrEmptyMessage rejects turns with no user content.
	ErrEmptyMessage = errors.New("message content is empty")
	// ErrTurnInProgress rejects a second concurrent turn for the same
	// conversation; callers must serialize requests per conversation.
	ErrTurnInProgress = errors.New("a turn is already in progress for this conversation")
)

const (
	eventBuffer      = 16
	defaultMaxTokens = 2048
)

// ToolRunner is the registry surface the loop needs.
type ToolRunner interface {
	Definitions() []llm.ToolDefinition
	Execute(ctx context.Context, name, rawArgs string) *tool.Result
}

// Config bounds a turn. MaxIterations caps model invocations per turn; the
// cap is product policy for cost control, not a tunable safety margin.
type Config struct {
	MaxIterations    int
	ModelCallTimeout time.Duration
	ToolTimeout      time.Duration
}

// Service drives chat turns: it persists the user message, streams model
// output, dispatches tool calls and persists the settled assistant message.
type Service struct {
	store    conversation.Repository
	selector *provider.Selector
	tools    ToolRunner
	cfg      Config
	log      zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService constructs the chat service.
func NewService(store conversation.Repository, selector *provider.Selector, tools ToolRunner, cfg Config, log zerolog.Logger) *Service {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 5
	}
	return &Service{
		store:    store,
		selector: selector,
		tools:    tools,
		cfg:      cfg,
		log:      log.With().Str("component", "chat").Logger(),
		inFlight: make(map[string]struct{}),
	}
}

// TurnParams starts one turn. An empty ConversationID creates a new
// conversation.
type TurnParams struct {
	ConversationID string
	Content        string
	ProviderHint   provider.Kind
}

// StartedTurn hands the caller the event stream for one accepted turn. The
// channel is closed after the terminal done/error event.
type StartedTurn struct {
	Conversation *conversation.Conversation
	Events       <-chan Event
}

// StreamTurn validates the request, durably appends the user message and
// launches the orchestration loop. Validation and lookup failures are
// returned directly so the transport can answer with a proper status code;
// everything after the stream starts is reported as events.
func (s *Service) StreamTurn(ctx context.Context, params TurnParams) (*StartedTurn, error) {
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	var conv *conversation.Conversation
	if params.ConversationID != "" {
		found, err := s.store.FindByPublicID(ctx, params.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("find conversation: %w", err)
		}
		if found == nil {
			return nil, conversation.ErrNotFound
		}
		conv = found
	} else {
		conv = conversation.New(conversation.DefaultTitle)
		if err := s.store.Create(ctx, conv); err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
	}

	if !s.acquire(conv.PublicID) {
		return nil, ErrTurnInProgress
	}

	// The user message is durable before any model work so a failed turn
	// never loses context for the next one.
	if _, err := s.store.AppendMessage(ctx, conv.PublicID, conversation.RoleUser, content); err != nil {
		s.release(conv.PublicID)
		return nil, fmt.Errorf("append user message: %w", err)
	}

	events := make(chan Event, eventBuffer)
	go s.run(ctx, conv, params.ProviderHint, events)

	return &StartedTurn{Conversation: conv, Events: events}, nil
}

func (s *Service) acquire(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[conversationID]; busy {
		return false
	}
	s.inFlight[conversationID] = struct{}{}
	return true
}

func (s *Service) release(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, conversationID)
}

// run is the turn state machine. It owns the event channel and closes it
// after emitting exactly one terminal event (unless the client is gone, in
// which case nobody is listening).
func (s *Service) run(ctx context.Context, conv *conversation.Conversation, hint provider.Kind, events chan<- Event) {
	defer close(events)
	defer s.release(conv.PublicID)
	started := time.Now()

	backend, ok := s.selector.Select(hint)
	if !ok {
		s.emit(ctx, events, errorEvent("chat backend not configured"))
		metrics.TurnsTotal.WithLabelValues("none", "config_error").Inc()
		return
	}
	backendName := string(backend.Kind)
	log := s.log.With().Str("conversation_id", conv.PublicID).Str("backend", backendName).Logger()

	history, err := s.store.ListMessages(ctx, conv.PublicID)
	if err != nil {
		log.Error().Err(err).Msg("load conversation history")
		s.emit(ctx, events, errorEvent("failed to load conversation history"))
		metrics.TurnsTotal.WithLabelValues(backendName, "store_error").Inc()
		return
	}

	systemPrompt := systemPromptSearchOnly
	if backend.SupportsTools {
		systemPrompt = systemPromptWithTools
	}
	messages := make([]llm.ChatMessage, 0, len(history)+1)
	messages = append(messages, llm.ChatMessage{Role: llm.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}

	var transcript strings.Builder
	maxTokens := defaultMaxTokens

	// A backend without tool support does a single streaming pass with no
	// tool catalog. This is a structural fork, not an error.
	iterations := s.cfg.MaxIterations
	if !backend.SupportsTools {
		iterations = 1
	}

	for iteration := 0; iteration < iterations; iteration++ {
		req := llm.ChatCompletionRequest{
			Model:     backend.Model,
			Messages:  messages,
			MaxTokens: &maxTokens,
		}
		if backend.SupportsTools {
			req.Tools = s.tools.Definitions()
		}

		assistant, err := s.streamModelCall(ctx, backend, req, events, &transcript)
		if err != nil {
			// Whatever text already streamed stays part of the
			// conversation, even on failure.
			s.persistAssistant(ctx, conv, transcript.String())
			if ctx.Err() != nil {
				log.Info().Msg("client disconnected mid-turn")
				metrics.TurnsTotal.WithLabelValues(backendName, "cancelled").Inc()
				return
			}
			log.Error().Err(err).Int("iteration", iteration+1).Msg("model call failed")
			metrics.ModelCallsTotal.WithLabelValues(backendName, "error").Inc()
			s.emit(ctx, events, errorEvent("chat backend failed"))
			metrics.TurnsTotal.WithLabelValues(backendName, "model_error").Inc()
			return
		}
		metrics.ModelCallsTotal.WithLabelValues(backendName, "ok").Inc()

		if !backend.SupportsTools || len(assistant.ToolCalls) == 0 {
			break
		}

		messages = append(messages, *assistant)

		bookingConfirmed := false
		for _, call := range assistant.ToolCalls {
			if call.Function.Name == tool.NameWebSearch {
				s.emit(ctx, events, statusEvent("searching", "Searching for latest golf information..."))
			}

			result := s.executeTool(ctx, call)
			messages = append(messages, llm.ChatMessage{
				Role:       llm.RoleTool,
				ToolCallID: call.ID,
				Content:    result.ContentJSON(),
			})

			// A confirmed booking ends the turn with a synthesized
			// confirmation: the numbers must come from the provider,
			// not from another model pass.
			if result.BookingConfirmed != nil {
				text := confirmationMessage(result.BookingConfirmed)
				transcript.WriteString(text)
				s.emit(ctx, events, contentEvent(text))
				bookingConfirmed = true
				break
			}
		}
		if bookingConfirmed {
			break
		}
	}

	s.persistAssistant(ctx, conv, transcript.String())
	s.emit(ctx, events, doneEvent())
	metrics.TurnsTotal.WithLabelValues(backendName, "done").Inc()
	metrics.TurnDuration.WithLabelValues(backendName).Observe(time.Since(started).Seconds())
}

// streamModelCall drains one backend stream, forwarding text fragments as
// they arrive and accumulating any tool call split across chunks.
func (s *Service) streamModelCall(ctx context.Context, backend *provider.Backend, req llm.ChatCompletionRequest, events chan<- Event, transcript *strings.Builder) (*llm.ChatMessage, error) {
	callCtx := ctx
	if s.cfg.ModelCallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.cfg.ModelCallTimeout)
		defer cancel()
	}

	stream, err := backend.Client.StreamChatCompletion(callCtx, req)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	acc := newTurnAccumulator()
	for {
		delta, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if text := acc.apply(delta); text != "" {
			transcript.WriteString(text)
			if !s.emit(ctx, events, contentEvent(text)) {
				return nil, ctx.Err()
			}
		}
	}

	return acc.message(), nil
}

// executeTool dispatches one call under the tool timeout. A booking request
// already sent to the provider is allowed to settle and be recorded even if
// the client disconnected, so it runs detached from the request context.
func (s *Service) executeTool(ctx context.Context, call llm.ToolCall) *tool.Result {
	base := ctx
	if call.Function.Name == tool.NameBookTeeTime {
		base = context.WithoutCancel(ctx)
	}

	callCtx := base
	if s.cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(base, s.cfg.ToolTimeout)
		defer cancel()
	}

	return s.tools.Execute(callCtx, call.Function.Name, call.Function.Arguments)
}

// persistAssistant appends the settled assistant text. It runs detached from
// the request context so a disconnect does not lose the message.
func (s *Service) persistAssistant(ctx context.Context, conv *conversation.Conversation, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if _, err := s.store.AppendMessage(persistCtx, conv.PublicID, conversation.RoleAssistant, text); err != nil {
		s.log.Error().Err(err).Str("conversation_id", conv.PublicID).Msg("persist assistant message")
	}
}

func (s *Service) emit(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func confirmationMessage(b *tool.BookingOutcome) string {
	return fmt.Sprintf(
		"\n\n✅ **Booking Confirmed!**\n\n**Confirmation Number:** %s\n**Course:** %s\n**Date:** %s\n**Time:** %s\n**Total:** %.2f %s\n\nYour booking confirmation has been sent to %s. Enjoy your round!",
		b.ConfirmationNumber, b.CourseName, b.PlayDate, b.TeeTime, b.TotalPrice, b.Currency, b.UserEmail,
	)
}

// turnAccumulator folds streaming deltas into the assistant message for the
// in-turn context. Tool call name and argument text arrive in fragments
// keyed by index and are appended as they come.
type turnAccumulator struct {
	content strings.Builder
	calls   []*toolCallBuilder
}

type toolCallBuilder struct {
	id   string
	name strings.Builder
	args strings.Builder
}

func newTurnAccumulator() *turnAccumulator {
	return &turnAccumulator{}
}

func (a *turnAccumulator) apply(delta *llm.ChatCompletionDelta) string {
	if delta == nil {
		return ""
	}

	var text strings.Builder
	for _, choice := range delta.Choices {
		if choice.Index != 0 {
			continue
		}
		if choice.Delta.Content != "" {
			text.WriteString(choice.Delta.Content)
			a.content.WriteString(choice.Delta.Content)
		}
		for _, tc := range choice.Delta.ToolCalls {
			for len(a.calls) <= tc.Index {
				a.calls = append(a.calls, &toolCallBuilder{})
			}
			builder := a.calls[tc.Index]
			if tc.ID != "" {
				builder.id = tc.ID
			}
			builder.name.WriteString(tc.Function.Name)
			builder.args.WriteString(tc.Function.Arguments)
		}
	}
	return text.String()
}

func (a *turnAccumulator) message() *llm.ChatMessage {
	msg := &llm.ChatMessage{
		Role:    llm.RoleAssistant,
		Content: a.content.String(),
	}
	for i, builder := range a.calls {
		if builder.name.Len() == 0 {
			continue
		}
		id := builder.id
		if id == "" {
			id = fmt.Sprintf("call_%d", i)
		}
		msg.ToolCalls = append(msg.ToolCalls, llm.ToolCall{
			ID:   id,
			Type: "function",
			Function: llm.ToolFunction{
				Name:      builder.name.String(),
				Arguments: builder.args.String(),
			},
		})
	}
	return msg
}
