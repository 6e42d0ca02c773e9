package chat

// EventKind discriminates the turn event stream.
type EventKind string

const (
	// EventContent carries one text fragment, forwarded as soon as the
	// backend produces it.
	EventContent EventKind = "content"
	// EventStatus carries a progress notice ahead of a slow tool call.
	EventStatus EventKind = "status"
	// EventDone terminates a successful turn. Exactly one of done/error is
	// emitted per turn.
	EventDone EventKind = "done"
	// EventError terminates a failed turn.
	EventError EventKind = "error"
)

// Event is one item on the turn's producer-consumer channel. The
// orchestration loop produces events; the transport adapter is the sole
// consumer and maps them onto the wire.
type Event struct {
	Kind    EventKind
	Content string
	Status  string
	Message string
	Err     string
}

func contentEvent(text string) Event {
	return Event{Kind: EventContent, Content: text}
}

func statusEvent(status, message string) Event {
	return Event{Kind: EventStatus, Status: status, Message: message}
}

func doneEvent() Event {
	return Event{Kind: EventDone}
}

func errorEvent(message string) Event {
	return Event{Kind: EventError, Err: message}
}
