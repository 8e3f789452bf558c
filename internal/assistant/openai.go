package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/Backland-Labs/rosterdesk/internal/logger"
)

// openaiAPI is the subset of *openai.Client used by OpenAIClient
type openaiAPI interface {
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	DeleteThread(ctx context.Context, threadID string) (openai.ThreadDeleteResponse, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
	SubmitToolOutputs(ctx context.Context, threadID string, runID string, request openai.SubmitToolOutputsRequest) (openai.Run, error)
	ListAssistants(ctx context.Context, limit *int, order *string, after *string, before *string) (openai.AssistantsList, error)
	CreateAssistant(ctx context.Context, request openai.AssistantRequest) (openai.Assistant, error)
	RetrieveAssistant(ctx context.Context, assistantID string) (openai.Assistant, error)
	ModifyAssistant(ctx context.Context, assistantID string, request openai.AssistantRequest) (openai.Assistant, error)
}

var _ openaiAPI = (*openai.Client)(nil)

// OpenAIConfig selects the endpoint and credentials
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Azure      bool
	APIVersion string
}

// OpenAIClient implements Client over the OpenAI or Azure OpenAI Assistants v2 API
type OpenAIClient struct {
	api openaiAPI
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client for cfg
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	var oc openai.ClientConfig
	if cfg.Azure {
		oc = openai.DefaultAzureConfig(cfg.APIKey, cfg.BaseURL)
		if cfg.APIVersion != "" {
			oc.APIVersion = cfg.APIVersion
		}
	} else {
		oc = openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
	}
	oc.AssistantVersion = "v2"
	return &OpenAIClient{api: openai.NewClientWithConfig(oc)}
}

const assistantPageSize = 100

// EnsureAgent uses spec.ID when set, else the first agent named spec.Name,
// else creates one with spec.Tools. With SyncTools an existing agent has its
// tools and instructions replaced.
func (c *OpenAIClient) EnsureAgent(ctx context.Context, spec AgentSpec) (Agent, error) {
	existing, found, err := c.findAgent(ctx, spec)
	if err != nil {
		return Agent{}, err
	}

	req := openai.AssistantRequest{
		Model:        spec.Model,
		Name:         &spec.Name,
		Instructions: &spec.Instructions,
		Tools:        functionTools(spec.Tools),
	}

	if !found {
		created, err := c.api.CreateAssistant(ctx, req)
		if err != nil {
			return Agent{}, fmt.Errorf("failed to create agent %q: %w", spec.Name, err)
		}
		logger.WithFields(map[string]interface{}{"agent_id": created.ID, "tools": len(spec.Tools)}).Info("Created agent")
		return toAgent(created), nil
	}

	if spec.SyncTools {
		if req.Model == "" {
			req.Model = existing.Model
		}
		updated, err := c.api.ModifyAssistant(ctx, existing.ID, req)
		if err != nil {
			return Agent{}, fmt.Errorf("failed to sync tools for agent %s: %w", existing.ID, err)
		}
		logger.WithFields(map[string]interface{}{"agent_id": updated.ID, "tools": len(spec.Tools)}).Info("Synced agent tools")
		return toAgent(updated), nil
	}
	return toAgent(existing), nil
}

func (c *OpenAIClient) findAgent(ctx context.Context, spec AgentSpec) (openai.Assistant, bool, error) {
	if spec.ID != "" {
		a, err := c.api.RetrieveAssistant(ctx, spec.ID)
		if err != nil {
			return openai.Assistant{}, false, fmt.Errorf("failed to retrieve agent %s: %w", spec.ID, err)
		}
		return a, true, nil
	}

	limit := assistantPageSize
	var after *string
	for {
		page, err := c.api.ListAssistants(ctx, &limit, nil, after, nil)
		if err != nil {
			return openai.Assistant{}, false, fmt.Errorf("failed to list agents: %w", err)
		}
		for _, a := range page.Assistants {
			if a.Name != nil && *a.Name == spec.Name {
				return a, true, nil
			}
		}
		if !page.HasMore || page.LastID == nil {
			return openai.Assistant{}, false, nil
		}
		after = page.LastID
	}
}

func functionTools(defs []ToolDefinition) []openai.AssistantTool {
	tools := make([]openai.AssistantTool, 0, len(defs))
	for _, d := range defs {
		tools = append(tools, openai.AssistantTool{
			Type: openai.AssistantToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}
	return tools
}

func toAgent(a openai.Assistant) Agent {
	agent := Agent{ID: a.ID, Model: a.Model}
	if a.Name != nil {
		agent.Name = *a.Name
	}
	return agent
}

func (c *OpenAIClient) CreateThread(ctx context.Context) (Thread, error) {
	t, err := c.api.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return Thread{}, fmt.Errorf("failed to create thread: %w", err)
	}
	return Thread{ID: t.ID}, nil
}

func (c *OpenAIClient) PostMessage(ctx context.Context, threadID string, msg NewMessage) (Message, error) {
	m, err := c.api.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:     msg.Role,
		Content:  msg.Content,
		Metadata: msg.Metadata,
	})
	if err != nil {
		return Message{}, fmt.Errorf("failed to post message to thread %s: %w", threadID, err)
	}
	return toMessage(m), nil
}

func (c *OpenAIClient) StartRun(ctx context.Context, threadID, agentID string) (Run, error) {
	r, err := c.api.CreateRun(ctx, threadID, openai.RunRequest{AssistantID: agentID})
	if err != nil {
		return Run{}, fmt.Errorf("failed to start run on thread %s: %w", threadID, err)
	}
	return toRun(r), nil
}

func (c *OpenAIClient) GetRun(ctx context.Context, threadID, runID string) (Run, error) {
	r, err := c.api.RetrieveRun(ctx, threadID, runID)
	if err != nil {
		return Run{}, fmt.Errorf("failed to retrieve run %s: %w", runID, err)
	}
	return toRun(r), nil
}

func (c *OpenAIClient) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) (Run, error) {
	req := openai.SubmitToolOutputsRequest{ToolOutputs: make([]openai.ToolOutput, 0, len(outputs))}
	for _, o := range outputs {
		req.ToolOutputs = append(req.ToolOutputs, openai.ToolOutput{ToolCallID: o.CallID, Output: o.Output})
	}
	r, err := c.api.SubmitToolOutputs(ctx, threadID, runID, req)
	if err != nil {
		return Run{}, fmt.Errorf("failed to submit %d tool outputs to run %s: %w", len(outputs), runID, err)
	}
	return toRun(r), nil
}

func (c *OpenAIClient) ListMessages(ctx context.Context, threadID, runID string, limit int) ([]Message, error) {
	order := "desc"
	var run *string
	if runID != "" {
		run = &runID
	}
	list, err := c.api.ListMessage(ctx, threadID, &limit, &order, nil, nil, run)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages of thread %s: %w", threadID, err)
	}
	out := make([]Message, 0, len(list.Messages))
	for _, m := range list.Messages {
		out = append(out, toMessage(m))
	}
	return out, nil
}

func (c *OpenAIClient) DeleteThread(ctx context.Context, threadID string) error {
	if _, err := c.api.DeleteThread(ctx, threadID); err != nil {
		return fmt.Errorf("failed to delete thread %s: %w", threadID, err)
	}
	return nil
}

func toRun(r openai.Run) Run {
	run := Run{ID: r.ID, ThreadID: r.ThreadID, Status: RunStatus(r.Status)}
	if r.LastError != nil {
		run.LastError = &RunFailure{Code: string(r.LastError.Code), Message: r.LastError.Message}
	}
	if run.Status == RunRequiresAction && r.RequiredAction != nil && r.RequiredAction.SubmitToolOutputs != nil {
		for _, tc := range r.RequiredAction.SubmitToolOutputs.ToolCalls {
			run.ToolCalls = append(run.ToolCalls, ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
	}
	return run
}

func toMessage(m openai.Message) Message {
	msg := Message{ID: m.ID, Role: m.Role}
	if m.RunID != nil {
		msg.RunID = *m.RunID
	}
	var parts []string
	for _, c := range m.Content {
		if c.Text != nil && c.Text.Value != "" {
			parts = append(parts, c.Text.Value)
		}
	}
	msg.Text = strings.Join(parts, "\n")
	return msg
}
