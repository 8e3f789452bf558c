// Package mock provides a scripted assistant.Client for testing.
package mock

import (
	"context"
	"sync"

	"github.com/Backland-Labs/rosterdesk/internal/assistant"
)

// Default identifiers returned when no Func override is set
const (
	ThreadID = "thread_mock"
	RunID    = "run_mock"
	AgentID  = "asst_mock"
)

// SubmitCall records one SubmitToolOutputs invocation
type SubmitCall struct {
	ThreadID string
	RunID    string
	Outputs  []assistant.ToolOutput
}

// PostMessageCall records one PostMessage invocation
type PostMessageCall struct {
	ThreadID string
	Message  assistant.NewMessage
}

// Client is a scripted implementation of assistant.Client.
// Func fields override the default behavior of the matching method.
type Client struct {
	mu sync.Mutex

	EnsureAgentFunc       func(ctx context.Context, spec assistant.AgentSpec) (assistant.Agent, error)
	CreateThreadFunc      func(ctx context.Context) (assistant.Thread, error)
	PostMessageFunc       func(ctx context.Context, threadID string, msg assistant.NewMessage) (assistant.Message, error)
	StartRunFunc          func(ctx context.Context, threadID, agentID string) (assistant.Run, error)
	GetRunFunc            func(ctx context.Context, threadID, runID string) (assistant.Run, error)
	SubmitToolOutputsFunc func(ctx context.Context, threadID, runID string, outputs []assistant.ToolOutput) (assistant.Run, error)
	ListMessagesFunc      func(ctx context.Context, threadID, runID string, limit int) ([]assistant.Message, error)
	DeleteThreadFunc      func(ctx context.Context, threadID string) error

	// Runs is consumed by successive GetRun calls when GetRunFunc is nil; the last entry repeats
	Runs []assistant.Run
	// Messages is returned by ListMessages when ListMessagesFunc is nil
	Messages []assistant.Message

	EnsureAgentCalls  []assistant.AgentSpec
	CreateThreadCalls int
	PostMessageCalls  []PostMessageCall
	StartRunCalls     []string
	GetRunCalls       int
	SubmitCalls       []SubmitCall
	DeleteThreadCalls []string
}

var _ assistant.Client = (*Client)(nil)

// EnsureAgent implements assistant.Client.
func (m *Client) EnsureAgent(ctx context.Context, spec assistant.AgentSpec) (assistant.Agent, error) {
	m.mu.Lock()
	m.EnsureAgentCalls = append(m.EnsureAgentCalls, spec)
	fn := m.EnsureAgentFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, spec)
	}
	id := spec.ID
	if id == "" {
		id = AgentID
	}
	return assistant.Agent{ID: id, Name: spec.Name, Model: spec.Model}, nil
}

// CreateThread implements assistant.Client.
func (m *Client) CreateThread(ctx context.Context) (assistant.Thread, error) {
	m.mu.Lock()
	m.CreateThreadCalls++
	fn := m.CreateThreadFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return assistant.Thread{ID: ThreadID}, nil
}

// PostMessage implements assistant.Client.
func (m *Client) PostMessage(ctx context.Context, threadID string, msg assistant.NewMessage) (assistant.Message, error) {
	m.mu.Lock()
	m.PostMessageCalls = append(m.PostMessageCalls, PostMessageCall{ThreadID: threadID, Message: msg})
	fn := m.PostMessageFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, threadID, msg)
	}
	return assistant.Message{ID: "msg_user", Role: msg.Role, Text: msg.Content}, nil
}

// StartRun implements assistant.Client.
func (m *Client) StartRun(ctx context.Context, threadID, agentID string) (assistant.Run, error) {
	m.mu.Lock()
	m.StartRunCalls = append(m.StartRunCalls, agentID)
	fn := m.StartRunFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, threadID, agentID)
	}
	return assistant.Run{ID: RunID, ThreadID: threadID, Status: assistant.RunQueued}, nil
}

// GetRun implements assistant.Client.
func (m *Client) GetRun(ctx context.Context, threadID, runID string) (assistant.Run, error) {
	m.mu.Lock()
	m.GetRunCalls++
	fn := m.GetRunFunc
	var next assistant.Run
	switch len(m.Runs) {
	case 0:
		next = assistant.Run{ID: runID, ThreadID: threadID, Status: assistant.RunCompleted}
	case 1:
		next = m.Runs[0]
	default:
		next = m.Runs[0]
		m.Runs = m.Runs[1:]
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, threadID, runID)
	}
	if next.ID == "" {
		next.ID = runID
	}
	if next.ThreadID == "" {
		next.ThreadID = threadID
	}
	return next, nil
}

// SubmitToolOutputs implements assistant.Client.
func (m *Client) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []assistant.ToolOutput) (assistant.Run, error) {
	m.mu.Lock()
	m.SubmitCalls = append(m.SubmitCalls, SubmitCall{ThreadID: threadID, RunID: runID, Outputs: outputs})
	fn := m.SubmitToolOutputsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, threadID, runID, outputs)
	}
	return assistant.Run{ID: runID, ThreadID: threadID, Status: assistant.RunQueued}, nil
}

// ListMessages implements assistant.Client.
func (m *Client) ListMessages(ctx context.Context, threadID, runID string, limit int) ([]assistant.Message, error) {
	m.mu.Lock()
	fn := m.ListMessagesFunc
	msgs := m.Messages
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, threadID, runID, limit)
	}
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

// DeleteThread implements assistant.Client.
func (m *Client) DeleteThread(ctx context.Context, threadID string) error {
	m.mu.Lock()
	m.DeleteThreadCalls = append(m.DeleteThreadCalls, threadID)
	fn := m.DeleteThreadFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, threadID)
	}
	return nil
}
