package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestContextBuilderWindow(t *testing.T) {
	// 25 messages in the transcript; the store hands back the newest 10 in
	// reverse chronological order, like the repository does.
	store := &MockStore{
		ListRecentMessagesFunc: func(ctx context.Context, sessionID uint, limit int) ([]Message, error) {
			if limit != ContextWindowSize {
				t.Errorf("expected limit %d, got %d", ContextWindowSize, limit)
			}
			var recent []Message
			for i := 25; i > 25-limit; i-- {
				role := RoleUser
				if i%2 == 0 {
					role = RoleAssistant
				}
				recent = append(recent, Message{Role: role, Content: fmt.Sprintf("message %d", i)})
			}
			return recent, nil
		},
	}

	builder := NewContextBuilder(store)
	session := &Session{ID: 1}

	window, err := builder.Build(context.Background(), session, LocaleEN, RoleBucketClient, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(window) != 1+ContextWindowSize {
		t.Fatalf("expected %d messages, got %d", 1+ContextWindowSize, len(window))
	}
	if window[0].Role != "system" {
		t.Errorf("expected leading system prompt, got role %q", window[0].Role)
	}

	// History replays chronologically: 16 through 25.
	if window[1].Content != "message 16" {
		t.Errorf("expected oldest retained message first, got %q", window[1].Content)
	}
	if window[len(window)-1].Content != "message 25" {
		t.Errorf("expected newest message last, got %q", window[len(window)-1].Content)
	}
}

func TestContextBuilderPageNote(t *testing.T) {
	store := &MockStore{
		ListRecentMessagesFunc: func(ctx context.Context, sessionID uint, limit int) ([]Message, error) {
			return []Message{{Role: RoleUser, Content: "hi"}}, nil
		},
	}

	builder := NewContextBuilder(store)
	window, err := builder.Build(context.Background(), &Session{ID: 1}, LocaleEN, RoleBucketGuest, "/professionals/p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := window[len(window)-1]
	if last.Role != "system" || !strings.Contains(last.Content, "/professionals/p1") {
		t.Errorf("expected trailing page note, got %+v", last)
	}
}

func TestContextBuilderRolePrompts(t *testing.T) {
	clientPrompt := SystemPrompt(LocaleEN, RoleBucketClient)
	proPrompt := SystemPrompt(LocaleEN, RoleBucketPro)
	guestPrompt := SystemPrompt(LocaleEN, RoleBucketGuest)

	if clientPrompt == proPrompt || proPrompt == guestPrompt {
		t.Error("role variants must produce distinct prompts")
	}
	if SystemPrompt(LocaleKA, RoleBucketClient) == clientPrompt {
		t.Error("locales must produce distinct prompts")
	}
	// Unknown combinations fall back instead of returning empty.
	if SystemPrompt(Locale("xx"), RoleBucket("alien")) == "" {
		t.Error("fallback prompt must not be empty")
	}
}
