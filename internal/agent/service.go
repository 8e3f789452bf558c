package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Backland-Labs/rosterdesk/internal/assistant"
	"github.com/Backland-Labs/rosterdesk/internal/logger"
	"github.com/Backland-Labs/rosterdesk/internal/prompts"
	"github.com/Backland-Labs/rosterdesk/internal/tools"
)

// AgentConfig describes the remote agent to use or provision
type AgentConfig struct {
	// ID selects an existing agent; when empty the agent is looked up by Name
	ID           string
	Name         string
	Model        string
	Instructions string
	SyncTools    bool
}

// Provision resolves the agent once at startup, creating it with the
// registry's tool definitions when it does not exist yet.
func Provision(ctx context.Context, client assistant.Client, registry *tools.Registry, cfg AgentConfig) (assistant.Agent, error) {
	instructions := cfg.Instructions
	if strings.TrimSpace(instructions) == "" {
		instructions = prompts.AgentInstructions
	}

	timer := logger.WithFields(map[string]interface{}{
		"agent_id":   cfg.ID,
		"agent_name": cfg.Name,
		"model":      cfg.Model,
	}).Timed("provision agent")

	agent, err := client.EnsureAgent(ctx, assistant.AgentSpec{
		ID:           cfg.ID,
		Name:         cfg.Name,
		Model:        cfg.Model,
		Instructions: instructions,
		Tools:        registry.Definitions(),
		SyncTools:    cfg.SyncTools,
	})
	if err != nil {
		timer.DoneWithError(err)
		return assistant.Agent{}, fmt.Errorf("failed to provision agent: %w", err)
	}
	timer.Done()

	logger.WithFields(map[string]interface{}{
		"agent_id": agent.ID,
		"model":    agent.Model,
		"tools":    len(registry.Names()),
	}).Info("Agent ready")
	return agent, nil
}

// Service answers user questions through the agent
type Service struct {
	client assistant.Client
	loop   *RunLoop
	agent  assistant.Agent
}

// NewService creates a service for a provisioned agent
func NewService(client assistant.Client, registry *tools.Registry, agent assistant.Agent, cfg LoopConfig) *Service {
	return &Service{
		client: client,
		loop:   NewRunLoop(client, registry, agent, cfg),
		agent:  agent,
	}
}

// Agent returns the agent this service talks to
func (s *Service) Agent() assistant.Agent {
	return s.agent
}

// Ask sends message on behalf of a caller with role and waits for the reply.
// An empty threadID starts a new conversation.
func (s *Service) Ask(ctx context.Context, threadID, role, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{ThreadID: threadID}, ErrEmptyMessage
	}

	turn := Turn{
		ThreadID:      strings.TrimSpace(threadID),
		Role:          strings.TrimSpace(role),
		Message:       message,
		CorrelationID: uuid.NewString(),
	}
	log := logger.WithFields(map[string]interface{}{
		"thread_id":      turn.ThreadID,
		"caller_role":    turn.Role,
		"correlation_id": turn.CorrelationID,
	})
	log.Debug("Handling question")

	reply, err := s.loop.Run(ctx, turn)
	if err != nil {
		log.WithField("thread_id", reply.ThreadID).WithError(err).Warn("Question failed")
		return reply, err
	}
	return reply, nil
}

// EndConversation deletes the remote thread
func (s *Service) EndConversation(ctx context.Context, threadID string) error {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return fmt.Errorf("thread id cannot be empty")
	}
	if err := s.client.DeleteThread(ctx, threadID); err != nil {
		return fmt.Errorf("failed to delete thread %s: %w", threadID, err)
	}
	logger.WithField("thread_id", threadID).Info("Conversation ended")
	return nil
}
