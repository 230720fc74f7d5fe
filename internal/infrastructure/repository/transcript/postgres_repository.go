package transcript

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"renohub/services/assistant-api/internal/domain/chat"
	"renohub/services/assistant-api/internal/infrastructure/database/entities"
)

// Repository is the PostgreSQL transcript store. It implements chat.Store.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a transcript repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ownershipScope narrows a session query to what the identity owns. An empty
// identity matches nothing, so lookups degrade to not-found rather than
// leaking other visitors' sessions.
func ownershipScope(identity chat.Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if identity.Authenticated() {
			return db.Where("user_id = ?", identity.UserID)
		}
		if identity.VisitorID != "" {
			return db.Where("visitor_id = ?", identity.VisitorID)
		}
		return db.Where("1 = 0")
	}
}

// CreateSession persists a new active session for the identity.
func (r *Repository) CreateSession(ctx context.Context, identity chat.Identity, sessionCtx chat.SessionContext) (*chat.Session, error) {
	session := &chat.Session{
		PublicID: fmt.Sprintf("sess_%s", uuid.NewString()),
		Status:   chat.SessionStatusActive,
		Context:  sessionCtx,
	}
	if identity.Authenticated() {
		session.UserID = &identity.UserID
	} else {
		session.VisitorID = &identity.VisitorID
	}

	entity, err := entities.NewChatSession(session)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	session.ID = entity.ID
	session.CreatedAt = entity.CreatedAt
	session.UpdatedAt = entity.UpdatedAt
	return session, nil
}

// GetSession returns the session and its full transcript. A missing session
// and a session owned by someone else both surface as ErrSessionNotFound.
func (r *Repository) GetSession(ctx context.Context, publicID string, requester chat.Identity) (*chat.Session, []chat.Message, error) {
	var entity entities.ChatSession
	err := r.db.WithContext(ctx).
		Scopes(ownershipScope(requester)).
		Where("public_id = ?", publicID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, chat.ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("fetch session: %w", err)
	}

	messages, err := r.listMessages(ctx, entity.ID)
	if err != nil {
		return nil, nil, err
	}
	return entity.EtoD(), messages, nil
}

// FindActiveSession returns the most recently created active session for the
// identity, or nils when none exists.
func (r *Repository) FindActiveSession(ctx context.Context, identity chat.Identity) (*chat.Session, []chat.Message, error) {
	if identity.Empty() {
		return nil, nil, nil
	}

	var entity entities.ChatSession
	err := r.db.WithContext(ctx).
		Scopes(ownershipScope(identity)).
		Where("status = ?", chat.SessionStatusActive).
		Order("created_at DESC").
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("find active session: %w", err)
	}

	messages, err := r.listMessages(ctx, entity.ID)
	if err != nil {
		return nil, nil, err
	}
	return entity.EtoD(), messages, nil
}

// AppendMessage appends one immutable message to the session log.
func (r *Repository) AppendMessage(ctx context.Context, sessionID uint, msg *chat.Message) error {
	msg.SessionID = sessionID

	entity, err := entities.NewChatMessage(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	msg.ID = entity.ID
	msg.CreatedAt = entity.CreatedAt
	return nil
}

// ListRecentMessages returns up to limit messages, newest first.
func (r *Repository) ListRecentMessages(ctx context.Context, sessionID uint, limit int) ([]chat.Message, error) {
	var rows []entities.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}

	messages := make([]chat.Message, len(rows))
	for i, row := range rows {
		messages[i] = *row.EtoD()
	}
	return messages, nil
}

// RecordTurn bumps the session counters after one completed turn: a turn is
// always one user message plus one assistant message.
func (r *Repository) RecordTurn(ctx context.Context, sessionID uint) error {
	err := r.db.WithContext(ctx).
		Model(&entities.ChatSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"message_count":   gorm.Expr("message_count + 2"),
			"last_message_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	return nil
}

// CloseSession transitions the session to closed under the same ownership
// rule as GetSession. Transcripts are retained.
func (r *Repository) CloseSession(ctx context.Context, publicID string, requester chat.Identity) error {
	result := r.db.WithContext(ctx).
		Model(&entities.ChatSession{}).
		Scopes(ownershipScope(requester)).
		Where("public_id = ?", publicID).
		Update("status", chat.SessionStatusClosed)
	if result.Error != nil {
		return fmt.Errorf("close session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return chat.ErrSessionNotFound
	}
	return nil
}

// listMessages returns the full transcript in creation order.
func (r *Repository) listMessages(ctx context.Context, sessionID uint) ([]chat.Message, error) {
	var rows []entities.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages := make([]chat.Message, len(rows))
	for i, row := range rows {
		messages[i] = *row.EtoD()
	}
	return messages, nil
}

// Ensure interface compliance.
var _ chat.Store = (*Repository)(nil)
