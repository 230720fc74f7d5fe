package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"renohub/services/assistant-api/internal/domain/chat"
	"renohub/services/assistant-api/internal/infrastructure/auth"
	"renohub/services/assistant-api/internal/interfaces/httpserver/dto"
	"renohub/services/assistant-api/internal/interfaces/httpserver/middlewares"
)

// ChatHandler exposes HTTP entrypoints for the assistant chat API.
type ChatHandler struct {
	service *chat.Service
	log     zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(service *chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// identity resolves the caller: the JWT subject when authenticated, the
// anonymous visitor token otherwise. fallback lets POST bodies and query
// strings supply the visitor token in addition to the header.
func identity(c *gin.Context, fallback string) chat.Identity {
	if subject := c.GetString(auth.SubjectKey); subject != "" {
		return chat.Identity{UserID: subject}
	}
	visitor := c.GetHeader(middlewares.AnonymousIDHeader)
	if visitor == "" {
		visitor = fallback
	}
	return chat.Identity{VisitorID: visitor}
}

// CreateSession handles POST /v1/chat/sessions
// @Summary Open a chat session
// @Description Creates a new assistant session for an authenticated user or an anonymous visitor
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest true "Session context"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/chat/sessions [post]
func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	// An empty body is acceptable; a malformed one is not.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
			return
		}
	}

	caller := identity(c, req.AnonymousID)
	if caller.Empty() {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "identity_required",
			Message: "provide a bearer token or an anonymous_id",
		})
		return
	}

	session, err := h.service.CreateSession(c.Request.Context(), caller, chat.SessionContext{
		Page:            req.Context.Page,
		UserRole:        req.Context.UserRole,
		PreferredLocale: req.Context.PreferredLocale,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("create session failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error"})
		return
	}

	c.JSON(http.StatusCreated, dto.SessionResponse{Session: session})
}

// GetActiveSession handles GET /v1/chat/sessions/active
// @Summary Get the caller's active session
// @Description Returns the most recent active session with its transcript, or a null session when none exists
// @Tags Chat
// @Produce json
// @Param anonymous_id query string false "Anonymous visitor token"
// @Success 200 {object} dto.SessionResponse
// @Router /v1/chat/sessions/active [get]
func (h *ChatHandler) GetActiveSession(c *gin.Context) {
	caller := identity(c, c.Query("anonymous_id"))

	session, messages, err := h.service.FindActiveSession(c.Request.Context(), caller)
	if err != nil {
		h.log.Error().Err(err).Msg("find active session failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error"})
		return
	}

	c.JSON(http.StatusOK, dto.SessionResponse{Session: session, Messages: messages})
}

// GetSession handles GET /v1/chat/sessions/:session_id
// @Summary Get one session with its transcript
// @Tags Chat
// @Produce json
// @Param session_id path string true "Session ID"
// @Param anonymous_id query string false "Anonymous visitor token"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/chat/sessions/{session_id} [get]
func (h *ChatHandler) GetSession(c *gin.Context) {
	caller := identity(c, c.Query("anonymous_id"))

	session, messages, err := h.service.GetSession(c.Request.Context(), c.Param("session_id"), caller)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "session_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("get session failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error"})
		return
	}

	c.JSON(http.StatusOK, dto.SessionResponse{Session: session, Messages: messages})
}

// SendMessage handles POST /v1/chat/sessions/:session_id/messages
// @Summary Send one message to the assistant
// @Description Runs one assistant turn. Degraded replies still return 200 so the client can render them
// @Tags Chat
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param request body dto.SendMessageRequest true "User message"
// @Success 200 {object} dto.SendMessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/chat/sessions/{session_id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	result, err := h.service.SendMessage(c.Request.Context(), chat.SendMessageParams{
		SessionPublicID: c.Param("session_id"),
		Requester:       identity(c, req.AnonymousID),
		Text:            req.Message,
		Locale:          req.Locale,
		CurrentPage:     req.CurrentPage,
	})
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrInvalidMessage):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_message", Message: err.Error()})
		case errors.Is(err, chat.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "session_not_found"})
		case errors.Is(err, chat.ErrSessionClosed):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "session_closed"})
		default:
			h.log.Error().Err(err).Str("session", c.Param("session_id")).Msg("send message failed")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error"})
		}
		return
	}

	resp := dto.SendMessageResponse{
		Reply:            result.Reply,
		RichContent:      result.RichContent,
		SuggestedActions: result.SuggestedActions,
		Degraded:         result.Degraded,
	}
	if result.Message != nil {
		resp.MessageID = result.Message.PublicID
	}
	c.JSON(http.StatusOK, resp)
}

// CloseSession handles DELETE /v1/chat/sessions/:session_id
// @Summary Close a session
// @Description Marks the session closed; the transcript is retained
// @Tags Chat
// @Produce json
// @Param session_id path string true "Session ID"
// @Param anonymous_id query string false "Anonymous visitor token"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/chat/sessions/{session_id} [delete]
func (h *ChatHandler) CloseSession(c *gin.Context) {
	caller := identity(c, c.Query("anonymous_id"))

	if err := h.service.CloseSession(c.Request.Context(), c.Param("session_id"), caller); err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "session_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("close session failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}
