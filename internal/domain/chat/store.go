package chat

import (
	"context"
	"errors"
)

// ErrSessionNotFound covers both a missing session and a session owned by a
// different identity, so callers cannot distinguish the two cases.
var ErrSessionNotFound = errors.New("chat session not found")

// ErrSessionClosed is returned when a turn is attempted on a closed session.
var ErrSessionClosed = errors.New("chat session is closed")

// Store is the transcript store: durable sessions plus an append-only
// message log per session. It is the only mutable state the assistant owns.
type Store interface {
	// CreateSession persists a new active session for the identity.
	CreateSession(ctx context.Context, identity Identity, sessionCtx SessionContext) (*Session, error)

	// GetSession returns the session and its messages ordered by creation
	// time. It fails with ErrSessionNotFound when the id does not exist or
	// when the requester does not own it.
	GetSession(ctx context.Context, publicID string, requester Identity) (*Session, []Message, error)

	// FindActiveSession returns the most recently created active session for
	// the identity, with its messages, or (nil, nil, nil) when none exists.
	FindActiveSession(ctx context.Context, identity Identity) (*Session, []Message, error)

	// AppendMessage appends one immutable message to the session log.
	AppendMessage(ctx context.Context, sessionID uint, msg *Message) error

	// ListRecentMessages returns up to limit messages, newest first.
	ListRecentMessages(ctx context.Context, sessionID uint, limit int) ([]Message, error)

	// RecordTurn bumps the session counters after a completed turn
	// (messageCount += 2, lastMessageAt = now).
	RecordTurn(ctx context.Context, sessionID uint) error

	// CloseSession transitions the session to closed, applying the same
	// ownership rule as GetSession. Sessions are never deleted here.
	CloseSession(ctx context.Context, publicID string, requester Identity) error
}
