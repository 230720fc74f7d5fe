package dto

// SessionContextRequest carries the optional page/role/locale hints captured
// when a session is opened.
type SessionContextRequest struct {
	Page            string `json:"page,omitempty"`
	UserRole        string `json:"user_role,omitempty"`
	PreferredLocale string `json:"preferred_locale,omitempty"`
}

// CreateSessionRequest opens a new chat session. AnonymousID identifies
// unauthenticated visitors; authenticated callers are identified by their
// bearer token instead.
type CreateSessionRequest struct {
	AnonymousID string                `json:"anonymous_id,omitempty"`
	Context     SessionContextRequest `json:"context"`
}

// SendMessageRequest carries one user turn.
type SendMessageRequest struct {
	Message     string `json:"message" binding:"required"`
	Locale      string `json:"locale,omitempty"`
	CurrentPage string `json:"current_page,omitempty"`
	AnonymousID string `json:"anonymous_id,omitempty"`
}
