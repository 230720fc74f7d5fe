package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"renohub/services/assistant-api/internal/domain/chat"
)

// ChatSession represents the database schema for assistant chat sessions.
// Exactly one of UserID/VisitorID is set, depending on whether the session
// belongs to an authenticated user or an anonymous visitor.
type ChatSession struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID      string             `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID        *string            `gorm:"type:varchar(64);index:idx_chat_session_user_status"`
	VisitorID     *string            `gorm:"type:varchar(64);index:idx_chat_session_visitor_status"`
	Status        chat.SessionStatus `gorm:"type:varchar(20);index:idx_chat_session_user_status;index:idx_chat_session_visitor_status;not null;default:'active'"`
	MessageCount  int                `gorm:"not null;default:0"`
	LastMessageAt *time.Time         `gorm:"type:timestamp"`
	Context       datatypes.JSON     `gorm:"type:jsonb"`

	Messages []ChatMessage `gorm:"foreignKey:SessionID"`
}

// TableName specifies the table name for ChatSession.
func (ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatMessage represents one immutable message in a session transcript.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	PublicID  string           `gorm:"type:varchar(50);uniqueIndex;not null"`
	SessionID uint             `gorm:"index:idx_chat_message_session_created;not null"`
	Role      chat.MessageRole `gorm:"type:varchar(20);not null"`
	Content   string           `gorm:"type:text;not null"`
	Metadata  datatypes.JSON   `gorm:"type:jsonb"`
}

// TableName specifies the table name for ChatMessage.
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ===============================================
// Conversion Functions
// ===============================================

// EtoD converts the session entity to the domain model.
func (s *ChatSession) EtoD() *chat.Session {
	var sessionCtx chat.SessionContext
	if len(s.Context) > 0 {
		_ = json.Unmarshal(s.Context, &sessionCtx)
	}

	return &chat.Session{
		ID:            s.ID,
		PublicID:      s.PublicID,
		UserID:        s.UserID,
		VisitorID:     s.VisitorID,
		Status:        s.Status,
		MessageCount:  s.MessageCount,
		LastMessageAt: s.LastMessageAt,
		Context:       sessionCtx,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// NewChatSession builds a session entity from the domain model.
func NewChatSession(session *chat.Session) (*ChatSession, error) {
	contextJSON, err := json.Marshal(session.Context)
	if err != nil {
		return nil, err
	}

	return &ChatSession{
		ID:            session.ID,
		PublicID:      session.PublicID,
		UserID:        session.UserID,
		VisitorID:     session.VisitorID,
		Status:        session.Status,
		MessageCount:  session.MessageCount,
		LastMessageAt: session.LastMessageAt,
		Context:       datatypes.JSON(contextJSON),
	}, nil
}

// EtoD converts the message entity to the domain model.
func (m *ChatMessage) EtoD() *chat.Message {
	var metadata *chat.MessageMetadata
	if len(m.Metadata) > 0 {
		metadata = &chat.MessageMetadata{}
		if err := json.Unmarshal(m.Metadata, metadata); err != nil {
			metadata = nil
		}
	}

	return &chat.Message{
		ID:        m.ID,
		SessionID: m.SessionID,
		PublicID:  m.PublicID,
		Role:      m.Role,
		Content:   m.Content,
		Metadata:  metadata,
		CreatedAt: m.CreatedAt,
	}
}

// NewChatMessage builds a message entity from the domain model.
func NewChatMessage(msg *chat.Message) (*ChatMessage, error) {
	entity := &ChatMessage{
		ID:        msg.ID,
		PublicID:  msg.PublicID,
		SessionID: msg.SessionID,
		Role:      msg.Role,
		Content:   msg.Content,
	}

	if msg.Metadata != nil {
		metadataJSON, err := json.Marshal(msg.Metadata)
		if err != nil {
			return nil, err
		}
		entity.Metadata = datatypes.JSON(metadataJSON)
	}

	return entity, nil
}
