package assistant

import (
	"context"
	"errors"
)

// ErrServiceUnavailable is returned while the circuit breaker is open
var ErrServiceUnavailable = errors.New("assistant service unavailable")

// Client is the remote thread/run service
type Client interface {
	// EnsureAgent resolves or provisions the agent described by spec
	EnsureAgent(ctx context.Context, spec AgentSpec) (Agent, error)
	CreateThread(ctx context.Context) (Thread, error)
	PostMessage(ctx context.Context, threadID string, msg NewMessage) (Message, error)
	StartRun(ctx context.Context, threadID, agentID string) (Run, error)
	GetRun(ctx context.Context, threadID, runID string) (Run, error)
	SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) (Run, error)
	// ListMessages returns up to limit messages newest first. A non-empty
	// runID restricts the listing to messages produced by that run.
	ListMessages(ctx context.Context, threadID, runID string, limit int) ([]Message, error)
	DeleteThread(ctx context.Context, threadID string) error
}
