package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"renohub/services/assistant-api/internal/domain/chat"
	"renohub/services/assistant-api/internal/interfaces/httpserver/handlers"
)

// MockStore is an in-memory chat.Store for handler tests.
type MockStore struct {
	CreateSessionFunc     func(ctx context.Context, identity chat.Identity, sessionCtx chat.SessionContext) (*chat.Session, error)
	GetSessionFunc        func(ctx context.Context, publicID string, requester chat.Identity) (*chat.Session, []chat.Message, error)
	FindActiveSessionFunc func(ctx context.Context, identity chat.Identity) (*chat.Session, []chat.Message, error)
	CloseSessionFunc      func(ctx context.Context, publicID string, requester chat.Identity) error
}

func (m *MockStore) CreateSession(ctx context.Context, identity chat.Identity, sessionCtx chat.SessionContext) (*chat.Session, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, identity, sessionCtx)
	}
	return &chat.Session{PublicID: "sess_new", Status: chat.SessionStatusActive, Context: sessionCtx}, nil
}

func (m *MockStore) GetSession(ctx context.Context, publicID string, requester chat.Identity) (*chat.Session, []chat.Message, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, publicID, requester)
	}
	return nil, nil, chat.ErrSessionNotFound
}

func (m *MockStore) FindActiveSession(ctx context.Context, identity chat.Identity) (*chat.Session, []chat.Message, error) {
	if m.FindActiveSessionFunc != nil {
		return m.FindActiveSessionFunc(ctx, identity)
	}
	return nil, nil, nil
}

func (m *MockStore) AppendMessage(ctx context.Context, sessionID uint, msg *chat.Message) error {
	return nil
}

func (m *MockStore) ListRecentMessages(ctx context.Context, sessionID uint, limit int) ([]chat.Message, error) {
	return nil, nil
}

func (m *MockStore) RecordTurn(ctx context.Context, sessionID uint) error {
	return nil
}

func (m *MockStore) CloseSession(ctx context.Context, publicID string, requester chat.Identity) error {
	if m.CloseSessionFunc != nil {
		return m.CloseSessionFunc(ctx, publicID, requester)
	}
	return chat.ErrSessionNotFound
}

func newRouter(store chat.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)

	// A nil provider exercises the degraded path without a model.
	service := chat.NewService(store, nil, nil, "test-model", zerolog.Nop())
	handler := handlers.NewChatHandler(service, zerolog.Nop())

	engine := gin.New()
	sessions := engine.Group("/v1/chat/sessions")
	sessions.POST("", handler.CreateSession)
	sessions.GET("/active", handler.GetActiveSession)
	sessions.GET("/:session_id", handler.GetSession)
	sessions.POST("/:session_id/messages", handler.SendMessage)
	sessions.DELETE("/:session_id", handler.CloseSession)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCreateSessionRequiresIdentity(t *testing.T) {
	engine := newRouter(&MockStore{})

	rec := doJSON(t, engine, http.MethodPost, "/v1/chat/sessions", map[string]interface{}{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateSessionAnonymous(t *testing.T) {
	engine := newRouter(&MockStore{})

	rec := doJSON(t, engine, http.MethodPost, "/v1/chat/sessions", map[string]interface{}{
		"anonymous_id": "anon-42",
		"context":      map[string]string{"page": "/professionals", "preferred_locale": "ka"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Session struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"session"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Session.ID == "" || resp.Session.Status != "active" {
		t.Errorf("unexpected session payload: %s", rec.Body.String())
	}
}

func TestGetActiveSessionNone(t *testing.T) {
	engine := newRouter(&MockStore{})

	rec := doJSON(t, engine, http.MethodGet, "/v1/chat/sessions/active?anonymous_id=anon-42", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if string(resp["session"]) != "null" {
		t.Errorf("expected null session, got %s", resp["session"])
	}
}

func TestGetSessionNotFound(t *testing.T) {
	engine := newRouter(&MockStore{})

	rec := doJSON(t, engine, http.MethodGet, "/v1/chat/sessions/sess_ghost?anonymous_id=anon-42", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSendMessageDegradedStillOK(t *testing.T) {
	store := &MockStore{
		GetSessionFunc: func(ctx context.Context, publicID string, requester chat.Identity) (*chat.Session, []chat.Message, error) {
			if requester.VisitorID != "anon-42" {
				return nil, nil, chat.ErrSessionNotFound
			}
			return &chat.Session{ID: 1, PublicID: publicID, Status: chat.SessionStatusActive}, nil, nil
		},
	}
	engine := newRouter(store)

	rec := doJSON(t, engine, http.MethodPost, "/v1/chat/sessions/sess_1/messages", map[string]interface{}{
		"message":      "help me find a plumber",
		"anonymous_id": "anon-42",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for degraded reply, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Reply    string `json:"reply"`
		Degraded bool   `json:"degraded"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Degraded || resp.Reply == "" {
		t.Errorf("expected degraded reply, got %s", rec.Body.String())
	}
}

func TestSendMessageValidation(t *testing.T) {
	engine := newRouter(&MockStore{})

	// Missing message field fails binding.
	rec := doJSON(t, engine, http.MethodPost, "/v1/chat/sessions/sess_1/messages", map[string]interface{}{
		"anonymous_id": "anon-42",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSendMessageClosedSession(t *testing.T) {
	store := &MockStore{
		GetSessionFunc: func(ctx context.Context, publicID string, requester chat.Identity) (*chat.Session, []chat.Message, error) {
			return &chat.Session{ID: 1, PublicID: publicID, Status: chat.SessionStatusClosed}, nil, nil
		},
	}
	engine := newRouter(store)

	rec := doJSON(t, engine, http.MethodPost, "/v1/chat/sessions/sess_1/messages", map[string]interface{}{
		"message":      "hello",
		"anonymous_id": "anon-42",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCloseSession(t *testing.T) {
	closed := false
	store := &MockStore{
		CloseSessionFunc: func(ctx context.Context, publicID string, requester chat.Identity) error {
			closed = true
			return nil
		},
	}
	engine := newRouter(store)

	rec := doJSON(t, engine, http.MethodDelete, "/v1/chat/sessions/sess_1?anonymous_id=anon-42", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !closed {
		t.Error("close was not forwarded to the store")
	}

	// Unknown session surfaces uniformly as 404.
	engine = newRouter(&MockStore{})
	rec = doJSON(t, engine, http.MethodDelete, "/v1/chat/sessions/sess_ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
