package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"renohub/services/assistant-api/internal/domain/llm"
	"renohub/services/assistant-api/internal/infrastructure/metrics"
	"renohub/services/assistant-api/internal/infrastructure/observability"
)

// MaxMessageLength bounds the inbound user message.
const MaxMessageLength = 2000

var (
	// ErrInvalidMessage rejects empty or oversized user messages before any
	// model or tool call happens.
	ErrInvalidMessage = errors.New("message must be between 1 and 2000 characters")
)

// ToolOutcome is what one dispatched tool produces: a compact summary echoed
// back to the model, and optional rich content for the UI.
type ToolOutcome struct {
	Summary     interface{}
	RichContent *RichContent
}

// ToolRunner is the fixed dispatch table of assistant tools.
type ToolRunner interface {
	Definitions() []llm.ToolDefinition
	Dispatch(ctx context.Context, name string, args json.RawMessage, locale Locale) (ToolOutcome, error)
}

// SendMessageParams carries one user turn.
type SendMessageParams struct {
	SessionPublicID string
	Requester       Identity
	Text            string
	Locale          string
	CurrentPage     string
}

// TurnResult is what a turn returns to the caller. Degraded marks the
// provider-failure fallback where no assistant message was persisted.
type TurnResult struct {
	Reply            string
	RichContent      []RichContent
	SuggestedActions []SuggestedAction
	Degraded         bool
	Message          *Message
}

// Service runs the two-phase model/tool-calling protocol per user turn.
// Provider may be nil when no language model is configured.
type Service struct {
	store    Store
	builder  *ContextBuilder
	provider llm.Provider
	tools    ToolRunner
	model    string
	log      zerolog.Logger
	now      func() time.Time
}

// NewService wires dependencies.
func NewService(store Store, provider llm.Provider, tools ToolRunner, model string, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		builder:  NewContextBuilder(store),
		provider: provider,
		tools:    tools,
		model:    model,
		log:      log.With().Str("component", "chat-service").Logger(),
		now:      time.Now,
	}
}

// CreateSession opens a new session for the identity.
func (s *Service) CreateSession(ctx context.Context, identity Identity, sessionCtx SessionContext) (*Session, error) {
	return s.store.CreateSession(ctx, identity, sessionCtx)
}

// GetSession returns the session and its transcript, enforcing ownership.
func (s *Service) GetSession(ctx context.Context, publicID string, requester Identity) (*Session, []Message, error) {
	return s.store.GetSession(ctx, publicID, requester)
}

// FindActiveSession returns the most recent active session for the identity.
func (s *Service) FindActiveSession(ctx context.Context, identity Identity) (*Session, []Message, error) {
	return s.store.FindActiveSession(ctx, identity)
}

// CloseSession closes the session, enforcing ownership.
func (s *Service) CloseSession(ctx context.Context, publicID string, requester Identity) error {
	return s.store.CloseSession(ctx, publicID, requester)
}

// Turn states. The machine is explicit so that "no assistant message on
// provider failure" and "tool failure never aborts the turn" are enforced
// transitions, not incidental control flow.
type turnState int

const (
	stateReceived turnState = iota
	stateFirstModelCall
	stateToolExecution
	stateSecondModelCall
	stateSynthesized
	statePersisted
	stateFallback
	stateDone
)

type turn struct {
	params    SendMessageParams
	startedAt time.Time

	session *Session
	locale  Locale
	role    RoleBucket

	context     []llm.ChatMessage
	firstChoice llm.ChatCompletionChoice
	toolReplies []llm.ChatMessage
	richContent []RichContent
	finalText   string
	tokensUsed  int
	modelID     string

	fallbackReply string
	result        *TurnResult
}

// SendMessage runs one user turn to completion or to the degraded fallback.
// Everything inside the turn is strictly sequential: two model calls at most,
// tool calls awaited one at a time in the order requested, no retries.
func (s *Service) SendMessage(ctx context.Context, params SendMessageParams) (*TurnResult, error) {
	ctx, span := observability.StartTurnSpan(ctx, params.SessionPublicID)
	defer span.End()

	t := &turn{params: params, startedAt: s.now()}

	state := stateReceived
	for state != stateDone {
		var err error
		switch state {
		case stateReceived:
			state, err = s.stepReceived(ctx, t)
		case stateFirstModelCall:
			state, err = s.stepFirstModelCall(ctx, t)
		case stateToolExecution:
			state, err = s.stepToolExecution(ctx, t)
		case stateSecondModelCall:
			state, err = s.stepSecondModelCall(ctx, t)
		case stateSynthesized:
			state = s.stepSynthesized(t)
		case statePersisted:
			state, err = s.stepPersisted(ctx, t)
		case stateFallback:
			state = s.stepFallback(t)
		}
		if err != nil {
			observability.RecordError(span, err)
			metrics.RecordTurn("error", time.Since(t.startedAt).Seconds())
			return nil, err
		}
	}

	status := "completed"
	if t.result.Degraded {
		status = "degraded"
	}
	metrics.RecordTurn(status, time.Since(t.startedAt).Seconds())
	return t.result, nil
}

// stepReceived validates the message and session, resolves the locale and
// persists the user half of the turn. When no provider is configured the
// machine exits to the fallback before the user message is persisted.
func (s *Service) stepReceived(ctx context.Context, t *turn) (turnState, error) {
	if t.params.Text == "" || len([]rune(t.params.Text)) > MaxMessageLength {
		return stateDone, ErrInvalidMessage
	}

	session, _, err := s.store.GetSession(ctx, t.params.SessionPublicID, t.params.Requester)
	if err != nil {
		return stateDone, err
	}
	if session.Status != SessionStatusActive {
		return stateDone, ErrSessionClosed
	}
	t.session = session

	switch {
	case t.params.Locale != "":
		t.locale = NormalizeLocale(t.params.Locale)
	case session.Context.PreferredLocale != "":
		t.locale = NormalizeLocale(session.Context.PreferredLocale)
	default:
		t.locale = DefaultLocale
	}
	t.role = NormalizeRole(session.Context.UserRole)

	if s.provider == nil {
		t.fallbackReply = UnavailableReply(t.locale)
		return stateFallback, nil
	}

	userMsg := &Message{
		SessionID: session.ID,
		PublicID:  newPublicID("msg"),
		Role:      RoleUser,
		Content:   t.params.Text,
		CreatedAt: s.now(),
	}
	if err := s.store.AppendMessage(ctx, session.ID, userMsg); err != nil {
		return stateDone, fmt.Errorf("append user message: %w", err)
	}

	return stateFirstModelCall, nil
}

// stepFirstModelCall asks the model what to do, offering the full tool set.
func (s *Service) stepFirstModelCall(ctx context.Context, t *turn) (turnState, error) {
	window, err := s.builder.Build(ctx, t.session, t.locale, t.role, t.params.CurrentPage)
	if err != nil {
		return stateDone, err
	}
	t.context = window

	resp, err := s.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
		Model:      s.model,
		Messages:   window,
		Tools:      s.tools.Definitions(),
		ToolChoice: llm.ToolChoiceAuto(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", t.params.SessionPublicID).Msg("first model call failed")
		metrics.RecordModelCall("first", "error")
		t.fallbackReply = FailureReply(t.locale)
		return stateFallback, nil
	}
	metrics.RecordModelCall("first", "ok")
	if len(resp.Choices) == 0 {
		s.log.Warn().Str("session_id", t.params.SessionPublicID).Msg("first model call returned no choices")
		t.fallbackReply = FailureReply(t.locale)
		return stateFallback, nil
	}

	t.firstChoice = resp.Choices[0]
	t.modelID = resp.Model
	if t.modelID == "" {
		t.modelID = s.model
	}
	if resp.Usage != nil {
		t.tokensUsed += resp.Usage.TotalTokens
	}

	if len(t.firstChoice.Message.ToolCalls) == 0 {
		t.finalText = t.firstChoice.Message.Content
		return stateSynthesized, nil
	}
	return stateToolExecution, nil
}

// stepToolExecution runs the requested tools sequentially. A failing tool
// yields an error summary and never aborts the turn or the remaining calls.
// Only the compact summary travels back to the model; rich content goes to
// the caller.
func (s *Service) stepToolExecution(ctx context.Context, t *turn) (turnState, error) {
	for _, call := range t.firstChoice.Message.ToolCalls {
		summary := s.executeToolCall(ctx, t, call)

		payload, err := json.Marshal(summary)
		if err != nil {
			payload = []byte(`{"error":"unserializable tool result"}`)
		}
		callID := call.ID
		t.toolReplies = append(t.toolReplies, llm.ChatMessage{
			Role:       "tool",
			Content:    string(payload),
			ToolCallID: &callID,
		})
	}
	return stateSecondModelCall, nil
}

func (s *Service) executeToolCall(ctx context.Context, t *turn, call llm.ToolCall) interface{} {
	started := s.now()
	ctx, span := observability.StartToolSpan(ctx, call.Function.Name)
	defer span.End()

	outcome, err := s.tools.Dispatch(ctx, call.Function.Name, call.Function.Arguments, t.locale)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("tool", call.Function.Name).
			Str("session_id", t.params.SessionPublicID).
			Msg("tool call failed")
		observability.RecordError(span, err)
		metrics.RecordToolCall(call.Function.Name, "error", time.Since(started).Seconds())
		return map[string]string{"error": err.Error()}
	}

	metrics.RecordToolCall(call.Function.Name, "ok", time.Since(started).Seconds())
	if outcome.RichContent != nil {
		t.richContent = append(t.richContent, *outcome.RichContent)
	}
	return outcome.Summary
}

// stepSecondModelCall re-invokes the model with the tool summaries, without
// tool definitions, to obtain the final natural-language text.
func (s *Service) stepSecondModelCall(ctx context.Context, t *turn) (turnState, error) {
	messages := make([]llm.ChatMessage, 0, len(t.context)+1+len(t.toolReplies))
	messages = append(messages, t.context...)
	messages = append(messages, t.firstChoice.Message)
	messages = append(messages, t.toolReplies...)

	resp, err := s.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", t.params.SessionPublicID).Msg("second model call failed")
		metrics.RecordModelCall("second", "error")
		t.fallbackReply = FailureReply(t.locale)
		return stateFallback, nil
	}
	metrics.RecordModelCall("second", "ok")
	if len(resp.Choices) == 0 {
		t.fallbackReply = FailureReply(t.locale)
		return stateFallback, nil
	}

	t.finalText = resp.Choices[0].Message.Content
	if resp.Usage != nil {
		t.tokensUsed += resp.Usage.TotalTokens
	}
	return stateSynthesized, nil
}

func (s *Service) stepSynthesized(t *turn) turnState {
	t.result = &TurnResult{
		Reply:            t.finalText,
		RichContent:      t.richContent,
		SuggestedActions: SynthesizeActions(t.richContent, t.finalText, t.locale),
	}
	return statePersisted
}

// stepPersisted writes the assistant message carrying exactly the rich
// content and actions returned to the caller, then bumps session counters.
func (s *Service) stepPersisted(ctx context.Context, t *turn) (turnState, error) {
	assistant := &Message{
		SessionID: t.session.ID,
		PublicID:  newPublicID("msg"),
		Role:      RoleAssistant,
		Content:   t.result.Reply,
		Metadata: &MessageMetadata{
			TokensUsed:       t.tokensUsed,
			ModelID:          t.modelID,
			ProcessingTimeMs: time.Since(t.startedAt).Milliseconds(),
			RichContent:      t.result.RichContent,
			SuggestedActions: t.result.SuggestedActions,
		},
		CreatedAt: s.now(),
	}
	if err := s.store.AppendMessage(ctx, t.session.ID, assistant); err != nil {
		return stateDone, fmt.Errorf("append assistant message: %w", err)
	}
	if err := s.store.RecordTurn(ctx, t.session.ID); err != nil {
		return stateDone, fmt.Errorf("record turn: %w", err)
	}

	t.result.Message = assistant
	return stateDone, nil
}

// stepFallback is the degraded terminal state: a localized reply is returned
// but no assistant message is persisted.
func (s *Service) stepFallback(t *turn) turnState {
	t.result = &TurnResult{
		Reply:    t.fallbackReply,
		Degraded: true,
	}
	return stateDone
}

func newPublicID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
