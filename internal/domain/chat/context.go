package chat

import (
	"context"
	"fmt"

	"renohub/services/assistant-api/internal/domain/llm"
)

// ContextWindowSize bounds how much history is replayed to the model.
// The window is the 10 most recent messages, replayed chronologically.
const ContextWindowSize = 10

// ContextBuilder assembles the message list sent to the model for one turn.
type ContextBuilder struct {
	store Store
}

// NewContextBuilder constructs a builder over the transcript store.
func NewContextBuilder(store Store) *ContextBuilder {
	return &ContextBuilder{store: store}
}

// Build emits [systemPrompt, lastNMessagesChronological, currentPageNote?].
// The page note rides as a trailing system message so it is the most recent
// piece of context the model sees.
func (b *ContextBuilder) Build(ctx context.Context, session *Session, locale Locale, role RoleBucket, currentPage string) ([]llm.ChatMessage, error) {
	recent, err := b.store.ListRecentMessages(ctx, session.ID, ContextWindowSize)
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}

	messages := make([]llm.ChatMessage, 0, len(recent)+2)
	messages = append(messages, llm.ChatMessage{
		Role:    "system",
		Content: SystemPrompt(locale, role),
	})

	// recent is newest-first; replay oldest-first.
	for i := len(recent) - 1; i >= 0; i-- {
		messages = append(messages, llm.ChatMessage{
			Role:    string(recent[i].Role),
			Content: recent[i].Content,
		})
	}

	if currentPage != "" {
		messages = append(messages, llm.ChatMessage{
			Role:    "system",
			Content: fmt.Sprintf("The visitor is currently on the page: %s", currentPage),
		})
	}

	return messages, nil
}
