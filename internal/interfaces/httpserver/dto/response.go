package dto

import "renohub/services/assistant-api/internal/domain/chat"

// SessionResponse wraps one session and, when requested, its transcript.
// Session is a pointer so the "no active session" case serializes as
// {"session": null}.
type SessionResponse struct {
	Session  *chat.Session  `json:"session"`
	Messages []chat.Message `json:"messages,omitempty"`
}

// SendMessageResponse is the assistant's half of one turn.
type SendMessageResponse struct {
	MessageID        string                 `json:"message_id,omitempty"`
	Reply            string                 `json:"reply"`
	RichContent      []chat.RichContent     `json:"rich_content,omitempty"`
	SuggestedActions []chat.SuggestedAction `json:"suggested_actions,omitempty"`
	Degraded         bool                   `json:"degraded,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
