package tools

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Backland-Labs/rosterdesk/internal/assistant"
	"github.com/Backland-Labs/rosterdesk/internal/logger"
	"github.com/Backland-Labs/rosterdesk/internal/scheduling"
)

// DefaultParallelism bounds DispatchAll when no limit is given
const DefaultParallelism = 4

const (
	msgInternal = "The tool failed unexpectedly. Please try again."
	msgTimeout  = "The tool timed out before it could finish."
)

// Builder collects tools before the registry is frozen
type Builder struct {
	tools map[string]Tool
	kinds map[Kind]string
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{
		tools: make(map[string]Tool),
		kinds: make(map[Kind]string),
	}
}

// Register adds t. Names and kinds must be unique.
func (b *Builder) Register(t Tool) error {
	if t.Name == "" {
		return errors.New("tool name cannot be empty")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %q has no handler", t.Name)
	}
	if _, exists := b.tools[t.Name]; exists {
		return fmt.Errorf("tool %q is already registered", t.Name)
	}
	if other, exists := b.kinds[t.Kind]; exists {
		return fmt.Errorf("tool kind %s is already registered as %q", t.Kind, other)
	}
	b.tools[t.Name] = t
	b.kinds[t.Kind] = t.Name
	return nil
}

// MustRegister is Register that panics on error
func (b *Builder) MustRegister(tools ...Tool) *Builder {
	for _, t := range tools {
		if err := b.Register(t); err != nil {
			panic(err)
		}
	}
	return b
}

// Build freezes the builder into a registry
func (b *Builder) Build() *Registry {
	r := &Registry{tools: make(map[string]Tool, len(b.tools))}
	for name, t := range b.tools {
		r.tools[name] = t
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r
}

// Registry is an immutable name to tool mapping, safe for concurrent use
type Registry struct {
	tools map[string]Tool
	names []string
}

// Resolve looks a tool up by exact name
func (r *Registry) Resolve(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in order
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Definitions returns the function schemas of all tools sorted by name
func (r *Registry) Definitions() []assistant.ToolDefinition {
	defs := make([]assistant.ToolDefinition, 0, len(r.names))
	for _, name := range r.names {
		t := r.tools[name]
		params := t.Parameters
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		defs = append(defs, assistant.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  params,
		})
	}
	return defs
}

// Dispatch runs one tool call and always produces an output for it
func (r *Registry) Dispatch(ctx context.Context, call assistant.ToolCall) assistant.ToolOutput {
	return assistant.ToolOutput{CallID: call.ID, Output: r.execute(ctx, call)}
}

// DispatchAll runs calls concurrently with at most limit in flight.
// Outputs are returned in call order.
func (r *Registry) DispatchAll(ctx context.Context, calls []assistant.ToolCall, limit int) []assistant.ToolOutput {
	if limit <= 0 {
		limit = DefaultParallelism
	}
	outputs := make([]assistant.ToolOutput, len(calls))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			outputs[i] = r.Dispatch(ctx, call)
			return nil
		})
	}
	// Dispatch never returns an error
	_ = g.Wait()
	return outputs
}

func (r *Registry) execute(ctx context.Context, call assistant.ToolCall) (out string) {
	log := logger.WithTool(call.Name, call.ID)

	args, err := ParseArgs(call.Arguments)
	if err != nil {
		log.Warn("Tool arguments are not a JSON object")
		return encodeFailure(ErrInvalidArguments.Error(), nil)
	}

	tool, ok := r.Resolve(call.Name)
	if !ok {
		log.Warn("Agent requested an unknown tool")
		return encodeFailure(fmt.Sprintf("unknown tool %q", call.Name), nil)
	}

	defer func() {
		if p := recover(); p != nil {
			log.WithFields(map[string]interface{}{
				"panic": fmt.Sprint(p),
				"stack": string(debug.Stack()),
			}).Error("Tool handler panicked")
			out = encodeFailure(msgInternal, nil)
		}
	}()

	timer := log.Timed("tool " + tool.Name)
	payload, err := tool.Handler(ctx, args)
	if err != nil {
		timer.DoneWithError(err)
		return failureOutput(log, err)
	}
	timer.Done()

	out, err = encodeSuccess(payload)
	if err != nil {
		log.WithError(err).Error("Failed to encode tool result")
		return encodeFailure(msgInternal, nil)
	}
	return out
}

func failureOutput(log *logger.Logger, err error) string {
	var fields map[string]any
	var failure *Failure
	if errors.As(err, &failure) {
		fields = failure.Fields
	}

	if msg, ok := scheduling.UserMessage(err); ok {
		return encodeFailure(msg, fields)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return encodeFailure(msgTimeout, fields)
	}
	log.WithError(err).Error("Tool handler failed")
	return encodeFailure(msgInternal, fields)
}
