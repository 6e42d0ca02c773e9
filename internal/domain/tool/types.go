package tool

import (
	"context"
	"encoding/json"
)

// Tool names advertised to the model.
const (
	NameWebSearch     = "web_search_golf"
	NameSearchCourses = "search_golf_courses"
	NameGetTeeTimes   = "get_tee_times"
	NameBookTeeTime   = "book_tee_time"
)

// SearchCoursesArgs filters the course database search. Every field is
// optional; an empty call returns the full channel listing.
type SearchCoursesArgs struct {
	Location   string `json:"location,omitempty" jsonschema:"description=Location or region to search (e.g. 'Costa del Sol'; 'Sotogrande')"`
	CourseName string `json:"courseName,omitempty" jsonschema:"description=Specific course name if mentioned"`
	Date       string `json:"date,omitempty" jsonschema:"description=Date for tee time in YYYY-MM-DD format"`
	Players    int    `json:"players,omitempty" jsonschema:"description=Number of players (default 4)"`
}

// GetTeeTimesArgs identifies the course and date to check availability for.
type GetTeeTimesArgs struct {
	CourseID string `json:"courseId" jsonschema:"description=The course ID from search results"`
	Date     string `json:"date" jsonschema:"description=Date for tee time in YYYY-MM-DD format"`
	Players  int    `json:"players,omitempty" jsonschema:"description=Number of players"`
}

// BookTeeTimeArgs carries the complete booking request. All fields are
// required; the dispatcher rejects calls with any of them missing.
type BookTeeTimeArgs struct {
	CourseID    string `json:"courseId" jsonschema:"description=The course ID to book"`
	CourseName  string `json:"courseName" jsonschema:"description=Full name of the course"`
	PlayDate    string `json:"playDate" jsonschema:"description=Date for tee time in YYYY-MM-DD format"`
	TeeTime     string `json:"teeTime" jsonschema:"description=Tee time in HH:MM format (e.g. '08:00')"`
	PlayerCount int    `json:"playerCount" jsonschema:"description=Number of players"`
	UserName    string `json:"userName" jsonschema:"description=Full name of the person making the booking"`
	UserEmail   string `json:"userEmail" jsonschema:"description=Email address of the person making the booking"`
}

// WebSearchArgs is the real-time web search query.
type WebSearchArgs struct {
	Query string `json:"query" jsonschema:"description=The search query for golf information"`
}

// Result is the outcome of dispatching one tool call. Payload is
// JSON-serialized and fed back to the model as a synthetic tool message; it
// is never persisted verbatim.
type Result struct {
	ToolName string
	Payload  any
	IsError  bool
	Error    string

	// BookingConfirmed is set only when book_tee_time succeeded with the
	// provider; the orchestration loop uses it to stream the deterministic
	// confirmation and end the turn.
	BookingConfirmed *BookingOutcome
}

// BookingOutcome is the confirmed-booking detail used for the synthesized
// confirmation message.
type BookingOutcome struct {
	ConfirmationNumber string
	CourseName         string
	PlayDate           string
	TeeTime            string
	TotalPrice         float64
	Currency           string
	UserEmail          string
}

// ContentJSON renders the result for the model context.
func (r *Result) ContentJSON() string {
	if r.IsError {
		data, _ := json.Marshal(map[string]string{"error": r.Error})
		return string(data)
	}
	data, err := json.Marshal(r.Payload)
	if err != nil {
		return `{"error":"tool result not serializable"}`
	}
	return string(data)
}

func errorResult(name, message string) *Result {
	return &Result{ToolName: name, IsError: true, Error: message}
}

// WebSearcher answers free-form golf queries with real-time information.
// It is optional; without it the web search tool degrades to a notice.
type WebSearcher interface {
	SearchGolfInfo(ctx context.Context, query string) (string, error)
}
