// Package agent drives conversational turns against the remote assistant:
// it posts the user's message, polls the run, answers tool calls through the
// tool registry and returns the assistant's final reply.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Backland-Labs/rosterdesk/internal/assistant"
	"github.com/Backland-Labs/rosterdesk/internal/logger"
	"github.com/Backland-Labs/rosterdesk/internal/tools"
)

// Loop defaults applied to zero LoopConfig fields
const (
	DefaultPollInterval     = 500 * time.Millisecond
	DefaultRunTimeout       = 90 * time.Second
	DefaultMaxToolRounds    = 12
	DefaultMaxParallelTools = 4
	replyScanLimit          = 20
)

// LoopConfig tunes the run loop
type LoopConfig struct {
	PollInterval     time.Duration
	Timeout          time.Duration
	MaxToolRounds    int
	MaxParallelTools int
}

func (c LoopConfig) withDefaults() LoopConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultRunTimeout
	}
	if c.MaxToolRounds <= 0 {
		c.MaxToolRounds = DefaultMaxToolRounds
	}
	if c.MaxParallelTools <= 0 {
		c.MaxParallelTools = DefaultMaxParallelTools
	}
	return c
}

// Turn is one user message to run through the agent
type Turn struct {
	// ThreadID continues an existing conversation; empty starts a new one
	ThreadID      string
	Role          string
	Message       string
	CorrelationID string
}

// Reply is the outcome of a completed turn
type Reply struct {
	Text       string `json:"reply"`
	ThreadID   string `json:"threadId"`
	RunID      string `json:"runId"`
	ToolRounds int    `json:"toolRounds"`
}

// RunLoop runs turns against one provisioned agent
type RunLoop struct {
	client   assistant.Client
	registry *tools.Registry
	agent    assistant.Agent
	cfg      LoopConfig
}

// NewRunLoop creates a run loop for agent
func NewRunLoop(client assistant.Client, registry *tools.Registry, agent assistant.Agent, cfg LoopConfig) *RunLoop {
	return &RunLoop{client: client, registry: registry, agent: agent, cfg: cfg.withDefaults()}
}

// Run executes turn to completion. The returned Reply carries the thread id
// even when an error is returned after the thread was created.
func (l *RunLoop) Run(ctx context.Context, turn Turn) (Reply, error) {
	runCtx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	reply := Reply{ThreadID: turn.ThreadID}
	if reply.ThreadID == "" {
		th, err := l.client.CreateThread(runCtx)
		if err != nil {
			return reply, l.remoteErr(ctx, "create thread", err)
		}
		reply.ThreadID = th.ID
	}

	log := logger.WithRun(reply.ThreadID, "").WithField("correlation_id", turn.CorrelationID)

	msg := assistant.NewMessage{
		Role:     assistant.RoleUser,
		Content:  withRolePrefix(turn.Role, turn.Message),
		Metadata: map[string]any{"role": turn.Role, "correlation_id": turn.CorrelationID},
	}
	if _, err := l.client.PostMessage(runCtx, reply.ThreadID, msg); err != nil {
		return reply, l.remoteErr(ctx, "post message", err)
	}

	run, err := l.client.StartRun(runCtx, reply.ThreadID, l.agent.ID)
	if err != nil {
		return reply, l.remoteErr(ctx, "start run", err)
	}
	reply.RunID = run.ID
	log = logger.WithRun(reply.ThreadID, run.ID).WithField("correlation_id", turn.CorrelationID)
	log.WithField("status", run.Status).Debug("Run started")

	toolCtx := tools.WithCaller(runCtx, tools.Caller{Role: turn.Role, ThreadID: reply.ThreadID})
	pacer := rate.NewLimiter(rate.Every(l.cfg.PollInterval), 1)
	// drain the initial token so the first poll waits a full interval
	pacer.Allow()

	submitted := make(map[string]bool)
	last := run.Status
	for {
		if err := pacer.Wait(runCtx); err != nil {
			return reply, l.waitErr(ctx, err)
		}

		run, err = l.client.GetRun(runCtx, reply.ThreadID, run.ID)
		if err != nil {
			return reply, l.remoteErr(ctx, "get run", err)
		}
		if run.Status != last {
			log.WithFields(map[string]interface{}{
				"from":  last,
				"to":    run.Status,
				"round": reply.ToolRounds,
			}).Debug("Run status changed")
			last = run.Status
		}

		switch run.Status {
		case assistant.RunQueued, assistant.RunInProgress, assistant.RunCancelling:
			continue

		case assistant.RunRequiresAction:
			pending := make([]assistant.ToolCall, 0, len(run.ToolCalls))
			for _, call := range run.ToolCalls {
				if !submitted[call.ID] {
					pending = append(pending, call)
				}
			}
			if len(pending) == 0 {
				log.Debug("Ignoring stale requires_action observation")
				continue
			}
			if reply.ToolRounds >= l.cfg.MaxToolRounds {
				log.WithField("rounds", reply.ToolRounds).Warn("Tool round limit reached")
				return reply, ErrTooManyToolRounds
			}
			reply.ToolRounds++

			outputs := l.registry.DispatchAll(toolCtx, pending, l.cfg.MaxParallelTools)
			for _, call := range pending {
				submitted[call.ID] = true
			}
			log.WithFields(map[string]interface{}{
				"round": reply.ToolRounds,
				"tools": toolNames(pending),
			}).Info("Submitting tool outputs")
			if _, err := l.client.SubmitToolOutputs(runCtx, reply.ThreadID, run.ID, outputs); err != nil {
				return reply, l.remoteErr(ctx, "submit tool outputs", err)
			}

		case assistant.RunCompleted:
			text, err := l.reply(runCtx, reply.ThreadID, run.ID)
			if err != nil {
				return reply, l.remoteErr(ctx, "list messages", err)
			}
			reply.Text = text
			log.WithField("rounds", reply.ToolRounds).Info("Run completed")
			return reply, nil

		default:
			runErr := newRunError(run)
			log.WithFields(map[string]interface{}{
				"status":  run.Status,
				"code":    runErr.Code,
				"message": runErr.Message,
			}).Warn("Run ended without completing")
			return reply, runErr
		}
	}
}

// reply returns the newest assistant message of the run
func (l *RunLoop) reply(ctx context.Context, threadID, runID string) (string, error) {
	msgs, err := l.client.ListMessages(ctx, threadID, runID, replyScanLimit)
	if err != nil {
		return "", err
	}
	for _, m := range msgs {
		if m.Role != assistant.RoleAssistant {
			continue
		}
		if runID != "" && m.RunID != "" && m.RunID != runID {
			continue
		}
		if text := strings.TrimSpace(m.Text); text != "" {
			return text, nil
		}
	}
	return "", ErrNoReply
}

// remoteErr maps a failed remote call. Expiry of the run deadline becomes
// ErrRunTimeout; cancellation by the caller is passed through.
func (l *RunLoop) remoteErr(parent context.Context, op string, err error) error {
	if errors.Is(err, ErrNoReply) {
		return err
	}
	if parent.Err() != nil {
		return fmt.Errorf("%s: %w", op, parent.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrRunTimeout
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// waitErr maps a pacer error. The limiter refuses to wait past the deadline,
// so a refusal with a live parent context means the run deadline is reached.
func (l *RunLoop) waitErr(parent context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	return ErrRunTimeout
}

func withRolePrefix(role, message string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return message
	}
	return fmt.Sprintf("[caller role: %s]\n%s", role, message)
}

func toolNames(calls []assistant.ToolCall) []string {
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Name
	}
	return names
}
