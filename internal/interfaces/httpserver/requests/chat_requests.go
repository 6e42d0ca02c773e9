package requests

// SendMessageRequest is the body for the SSE turn endpoints. ConversationID
// is only honored on the /v1/chat form; the nested route takes it from the
// path.
type SendMessageRequest struct {
	Content        string `json:"content" binding:"required"`
	ConversationID string `json:"conversation_id"`
	Provider       string `json:"provider"`
}

// CreateConversationRequest optionally overrides the default title.
type CreateConversationRequest struct {
	Title string `json:"title"`
}
