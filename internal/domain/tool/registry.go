package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog"

	"github.com/playgolfspainnow/chat-api/internal/domain/booking"
	"github.com/playgolfspainnow/chat-api/internal/domain/golf"
	"github.com/playgolfspainnow/chat-api/internal/domain/llm"
	"github.com/playgolfspainnow/chat-api/internal/infrastructure/metrics"
)

// Registry holds the fixed tool catalog and dispatches model-requested calls
// to the booking provider. Malformed or failing calls degrade to error
// results fed back to the model; they never abort the turn.
type Registry struct {
	golfClient  golf.Client
	bookings    booking.Repository
	webSearcher WebSearcher
	definitions []llm.ToolDefinition
	log         zerolog.Logger
}

// NewRegistry builds the registry. webSearcher may be nil when no search
// backend is configured.
func NewRegistry(golfClient golf.Client, bookings booking.Repository, webSearcher WebSearcher, log zerolog.Logger) *Registry {
	return &Registry{
		golfClient:  golfClient,
		bookings:    bookings,
		webSearcher: webSearcher,
		definitions: buildDefinitions(),
		log:         log.With().Str("component", "tool-registry").Logger(),
	}
}

// Definitions returns the catalog advertised to tool-capable backends.
func (r *Registry) Definitions() []llm.ToolDefinition {
	return r.definitions
}

// Execute decodes rawArgs into the matching typed variant and dispatches the
// call. The returned Result is never nil.
func (r *Registry) Execute(ctx context.Context, name, rawArgs string) *Result {
	started := time.Now()
	result := r.dispatch(ctx, name, rawArgs)

	status := "ok"
	if result.IsError {
		status = "error"
	}
	metrics.ToolCallsTotal.WithLabelValues(name, status).Inc()
	metrics.ToolDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())

	return result
}

func (r *Registry) dispatch(ctx context.Context, name, rawArgs string) *Result {
	switch name {
	case NameWebSearch:
		var args WebSearchArgs
		if msg := decodeArgs(rawArgs, &args); msg != "" {
			return errorResult(name, msg)
		}
		if args.Query == "" {
			return errorResult(name, "missing required field: query")
		}
		return r.webSearch(ctx, args)

	case NameSearchCourses:
		var args SearchCoursesArgs
		if msg := decodeArgs(rawArgs, &args); msg != "" {
			return errorResult(name, msg)
		}
		return r.searchCourses(ctx, args)

	case NameGetTeeTimes:
		var args GetTeeTimesArgs
		if msg := decodeArgs(rawArgs, &args); msg != "" {
			return errorResult(name, msg)
		}
		if args.CourseID == "" {
			return errorResult(name, "missing required field: courseId")
		}
		if args.Date == "" {
			return errorResult(name, "missing required field: date")
		}
		return r.getTeeTimes(ctx, args)

	case NameBookTeeTime:
		var args BookTeeTimeArgs
		if msg := decodeArgs(rawArgs, &args); msg != "" {
			return errorResult(name, msg)
		}
		if missing := args.missingField(); missing != "" {
			return errorResult(name, "missing required field: "+missing)
		}
		return r.bookTeeTime(ctx, args)

	default:
		return errorResult(name, fmt.Sprintf("unknown tool: %s", name))
	}
}

func (r *Registry) webSearch(ctx context.Context, args WebSearchArgs) *Result {
	if r.webSearcher == nil {
		return &Result{
			ToolName: NameWebSearch,
			Payload: map[string]string{
				"result": "Real-time search not available",
			},
		}
	}

	answer, err := r.webSearcher.SearchGolfInfo(ctx, args.Query)
	if err != nil {
		r.log.Warn().Err(err).Str("query", args.Query).Msg("web search failed")
		return errorResult(NameWebSearch, "search temporarily unavailable")
	}

	return &Result{
		ToolName: NameWebSearch,
		Payload: map[string]string{
			"source": "web_search",
			"query":  args.Query,
			"result": answer,
		},
	}
}

func (r *Registry) searchCourses(ctx context.Context, args SearchCoursesArgs) *Result {
	players := args.Players
	if players <= 0 {
		players = 4
	}

	courses, err := r.golfClient.SearchCourses(ctx, golf.CourseSearchParams{
		Location:   args.Location,
		CourseName: args.CourseName,
		Date:       args.Date,
		Players:    players,
	})
	if err != nil {
		return errorResult(NameSearchCourses, err.Error())
	}

	return &Result{
		ToolName: NameSearchCourses,
		Payload: map[string]any{
			"courses": courses,
			"count":   len(courses),
			"note":    "Always include the bookingUrl as a clickable link for each course.",
		},
	}
}

func (r *Registry) getTeeTimes(ctx context.Context, args GetTeeTimesArgs) *Result {
	players := args.Players
	if players <= 0 {
		players = 4
	}

	slots, err := r.golfClient.GetAvailableTeeTimes(ctx, args.CourseID, args.Date, players)
	if err != nil {
		return errorResult(NameGetTeeTimes, err.Error())
	}

	courseName := "Unknown"
	if course, err := r.golfClient.GetCourseByID(ctx, args.CourseID); err == nil && course != nil {
		courseName = course.Name
	}

	return &Result{
		ToolName: NameGetTeeTimes,
		Payload: map[string]any{
			"courseName": courseName,
			"date":       args.Date,
			"teeTimes":   slots,
		},
	}
}

func (r *Registry) bookTeeTime(ctx context.Context, args BookTeeTimeArgs) *Result {
	confirmation, err := r.golfClient.BookTeeTime(ctx, golf.BookingRequest{
		CourseID:    args.CourseID,
		CourseName:  args.CourseName,
		PlayDate:    args.PlayDate,
		TeeTime:     args.TeeTime,
		PlayerCount: args.PlayerCount,
		UserName:    args.UserName,
		UserEmail:   args.UserEmail,
	})
	if err != nil {
		metrics.BookingsTotal.WithLabelValues("failed").Inc()
		return &Result{
			ToolName: NameBookTeeTime,
			Payload: map[string]any{
				"success": false,
				"error":   err.Error(),
			},
		}
	}

	metrics.BookingsTotal.WithLabelValues(confirmation.Status).Inc()

	// The local mirror write is fire-and-forget: the provider already holds
	// the booking, so a storage failure must not surface to the user.
	if err := r.bookings.Create(ctx, &booking.Booking{
		CourseID:           args.CourseID,
		CourseName:         args.CourseName,
		PlayDate:           args.PlayDate,
		TeeTime:            args.TeeTime,
		PlayerCount:        args.PlayerCount,
		UserName:           args.UserName,
		UserEmail:          args.UserEmail,
		ConfirmationNumber: confirmation.ConfirmationNumber,
		TotalPrice:         confirmation.TotalPrice,
		Currency:           confirmation.Currency,
		Status:             confirmation.Status,
	}); err != nil {
		r.log.Error().Err(err).
			Str("confirmation_number", confirmation.ConfirmationNumber).
			Msg("failed to mirror booking locally")
	}

	return &Result{
		ToolName: NameBookTeeTime,
		Payload: map[string]any{
			"success":            true,
			"bookingId":          confirmation.BookingID,
			"confirmationNumber": confirmation.ConfirmationNumber,
			"courseName":         confirmation.CourseName,
			"playDate":           confirmation.PlayDate,
			"teeTime":            confirmation.TeeTime,
			"totalPrice":         confirmation.TotalPrice,
			"currency":           confirmation.Currency,
			"status":             confirmation.Status,
		},
		BookingConfirmed: &BookingOutcome{
			ConfirmationNumber: confirmation.ConfirmationNumber,
			CourseName:         confirmation.CourseName,
			PlayDate:           confirmation.PlayDate,
			TeeTime:            confirmation.TeeTime,
			TotalPrice:         confirmation.TotalPrice,
			Currency:           confirmation.Currency,
			UserEmail:          args.UserEmail,
		},
	}
}

func (a BookTeeTimeArgs) missingField() string {
	switch {
	case a.CourseID == "":
		return "courseId"
	case a.CourseName == "":
		return "courseName"
	case a.PlayDate == "":
		return "playDate"
	case a.TeeTime == "":
		return "teeTime"
	case a.PlayerCount <= 0:
		return "playerCount"
	case a.UserName == "":
		return "userName"
	case a.UserEmail == "":
		return "userEmail"
	}
	return ""
}

func decodeArgs(rawArgs string, target any) string {
	if rawArgs == "" {
		rawArgs = "{}"
	}
	if err := json.Unmarshal([]byte(rawArgs), target); err != nil {
		return fmt.Sprintf("invalid tool arguments: %v", err)
	}
	return ""
}

func buildDefinitions() []llm.ToolDefinition {
	reflector := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}

	specs := []struct {
		name        string
		description string
		args        any
	}{
		{
			name:        NameWebSearch,
			description: "Search the web for real-time golf information: current prices, latest reviews, weather forecasts, course conditions or recent news.",
			args:        &WebSearchArgs{},
		},
		{
			name:        NameSearchCourses,
			description: "Search the course database for available golf courses in Spain. Use when the user asks about courses or wants options for booking.",
			args:        &SearchCoursesArgs{},
		},
		{
			name:        NameGetTeeTimes,
			description: "Get available tee times for a specific course and date. Use after finding a course the user likes.",
			args:        &GetTeeTimesArgs{},
		},
		{
			name:        NameBookTeeTime,
			description: "Book a tee time for the user. Collect course, date, time, player count, name and email before calling.",
			args:        &BookTeeTimeArgs{},
		},
	}

	definitions := make([]llm.ToolDefinition, 0, len(specs))
	for _, spec := range specs {
		definitions = append(definitions, llm.ToolDefinition{
			Type: "function",
			Function: llm.ToolFunctionSchema{
				Name:        spec.name,
				Description: spec.description,
				Parameters:  reflector.Reflect(spec.args),
			},
		})
	}
	return definitions
}
