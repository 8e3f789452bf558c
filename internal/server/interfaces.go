package server

import (
	"context"

	"github.com/Backland-Labs/rosterdesk/internal/agent"
	"github.com/Backland-Labs/rosterdesk/internal/assistant"
)

// Assistant answers questions on behalf of authenticated callers
type Assistant interface {
	// Ask posts message to the conversation identified by threadID and waits
	// for the final reply. An empty threadID starts a new conversation.
	Ask(ctx context.Context, threadID, role, message string) (agent.Reply, error)

	// EndConversation discards a conversation, typically on logout
	EndConversation(ctx context.Context, threadID string) error
}

// ToolCatalog lists the tools the assistant can call
type ToolCatalog interface {
	Definitions() []assistant.ToolDefinition
}
