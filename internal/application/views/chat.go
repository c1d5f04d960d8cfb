package views

import (
	"context"
	"strings"
	"sync"

	"github.com/zatekoja/boulevard/internal/domain/entities"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// ChatRole identifies who produced a transcript entry
type ChatRole string

const (
	ChatUser      ChatRole = "user"
	ChatAssistant ChatRole = "assistant"
	ChatError     ChatRole = "error"
)

// NoSuggestionsMessage is shown when the assistant returns neither text nor suggestions
const NoSuggestionsMessage = "I couldn't find anything for that. Try asking differently."

// ChatEntry is one line of the assistant transcript
type ChatEntry struct {
	Role           ChatRole
	Text           string
	Establishments []entities.Establishment
}

// ChatView keeps the conversation with the backend assistant
type ChatView struct {
	scope *Scope
	deps  Deps

	mu         sync.Mutex
	transcript []ChatEntry
	pending    bool
}

// NewChatView creates an empty conversation
func NewChatView(scope *Scope, deps Deps) *ChatView {
	return &ChatView{scope: scope, deps: deps}
}

// Send asks the assistant. Blank messages are ignored and return nil, nil.
func (v *ChatView) Send(ctx context.Context, message string) (*entities.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, nil
	}

	v.mu.Lock()
	if v.pending {
		v.mu.Unlock()
		return nil, apperrors.NewConflictError("Please wait for the assistant to answer.")
	}
	v.pending = true
	v.transcript = append(v.transcript, ChatEntry{Role: ChatUser, Text: message})
	v.mu.Unlock()

	ctx, cancel := v.scope.Bind(ctx)
	defer cancel()
	reply, err := v.deps.Chat.Ask(ctx, message)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = false
	if !v.scope.Alive() {
		return reply, err
	}
	if err != nil {
		v.transcript = append(v.transcript, ChatEntry{Role: ChatError, Text: apperrors.UserMessage(err)})
		return nil, reportFailure(ctx, v.scope, v.deps, "chat", err)
	}

	entry := ChatEntry{Role: ChatAssistant, Text: reply.Reply, Establishments: reply.Establishments}
	if entry.Text == "" && len(entry.Establishments) == 0 {
		entry.Text = NoSuggestionsMessage
	}
	v.transcript = append(v.transcript, entry)
	return reply, nil
}

// Transcript returns a copy of the conversation so far
func (v *ChatView) Transcript() []ChatEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]ChatEntry, len(v.transcript))
	copy(out, v.transcript)
	return out
}

// Pending reports whether a message is awaiting its answer
func (v *ChatView) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending
}
