package llm

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Provider streams a completion for an ordered conversation. Fragments are
// delivered through onDelta in arrival order; the call returns nil once the
// backend signals completion. A non-nil error from onDelta aborts the stream
// and is returned as-is. Implementations are stateless between calls and safe
// for concurrent use.
type Provider interface {
	Name() string
	StreamCompletion(ctx context.Context, messages []Message, onDelta func(fragment string) error) error
}
