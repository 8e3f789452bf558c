// Package assistant is the boundary to the remote reasoning service: a
// stateful thread/run API in the style of the OpenAI Assistants API. The
// Client interface is what the run loop drives; OpenAIClient implements it
// over go-openai and Breaker guards any Client with a circuit breaker.
package assistant

// RunStatus is the lifecycle state reported for a run
type RunStatus string

const (
	RunQueued         RunStatus = "queued"
	RunInProgress     RunStatus = "in_progress"
	RunRequiresAction RunStatus = "requires_action"
	RunCancelling     RunStatus = "cancelling"
	RunCompleted      RunStatus = "completed"
	RunFailed         RunStatus = "failed"
	RunCancelled      RunStatus = "cancelled"
	RunExpired        RunStatus = "expired"
	RunIncomplete     RunStatus = "incomplete"
)

// Terminal reports whether no further transition can happen
func (s RunStatus) Terminal() bool {
	switch s {
	case RunCompleted, RunFailed, RunCancelled, RunExpired, RunIncomplete:
		return true
	}
	return false
}

// Thread is a remote conversation container
type Thread struct {
	ID string
}

// RunFailure is the error the service attached to a failed run
type RunFailure struct {
	Code    string
	Message string
}

// Run is one observation of a remote run. ToolCalls is set only when
// Status is RunRequiresAction.
type Run struct {
	ID        string
	ThreadID  string
	Status    RunStatus
	ToolCalls []ToolCall
	LastError *RunFailure
}

// ToolCall is a function invocation requested by the agent
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolOutput answers one ToolCall
type ToolOutput struct {
	CallID string
	Output string
}

// Role values for thread messages
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a thread message flattened to its text content
type Message struct {
	ID    string
	Role  string
	RunID string
	Text  string
}

// NewMessage is a message to append to a thread
type NewMessage struct {
	Role     string
	Content  string
	Metadata map[string]any
}

// ToolDefinition is a function-calling schema advertised to the agent
type ToolDefinition struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Parameters  map[string]any `json:"parameters" yaml:"parameters"`
}

// AgentSpec describes the agent to look up or provision at startup
type AgentSpec struct {
	ID           string
	Name         string
	Model        string
	Instructions string
	Tools        []ToolDefinition
	// SyncTools updates the tool list and instructions of an existing agent
	SyncTools bool
}

// Agent is the resolved remote agent. It is immutable after startup.
type Agent struct {
	ID    string
	Name  string
	Model string
}
