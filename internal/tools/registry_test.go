package tools

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/Backland-Labs/rosterdesk/internal/assistant"
	"github.com/Backland-Labs/rosterdesk/internal/scheduling"
)

func echoTool(kind Kind, name string) Tool {
	return Tool{
		Kind:        kind,
		Name:        name,
		Description: "echoes its name argument",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{"name": map[string]any{"type": "string"}},
		},
		Handler: func(_ context.Context, args Args) (any, error) {
			name, err := args.RequiredString("name")
			if err != nil {
				return nil, err
			}
			return map[string]any{"echo": name}, nil
		},
	}
}

func TestBuilder_Register(t *testing.T) {
	t.Parallel()
	noop := func(context.Context, Args) (any, error) { return nil, nil }

	tests := []struct {
		name    string
		tools   []Tool
		wantErr string
	}{
		{
			name:  "distinct tools",
			tools: []Tool{echoTool(KindResolveStaff, "a"), echoTool(KindResolveDepartment, "b")},
		},
		{
			name:    "empty name",
			tools:   []Tool{{Kind: KindResolveStaff, Handler: noop}},
			wantErr: "tool name cannot be empty",
		},
		{
			name:    "nil handler",
			tools:   []Tool{{Kind: KindResolveStaff, Name: "a"}},
			wantErr: `tool "a" has no handler`,
		},
		{
			name:    "duplicate name",
			tools:   []Tool{echoTool(KindResolveStaff, "a"), echoTool(KindResolveDepartment, "a")},
			wantErr: `tool "a" is already registered`,
		},
		{
			name:    "duplicate kind",
			tools:   []Tool{echoTool(KindResolveStaff, "a"), echoTool(KindResolveStaff, "b")},
			wantErr: `tool kind resolve-staff is already registered as "a"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := NewBuilder()
			var err error
			for _, tool := range tt.tools {
				if err = b.Register(tool); err != nil {
					break
				}
			}
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestRegistry_ResolveAndDefinitions(t *testing.T) {
	t.Parallel()
	r := NewBuilder().MustRegister(
		echoTool(KindSwapShifts, "swapShifts"),
		echoTool(KindApplyForLeave, "applyForLeave"),
		Tool{Kind: KindResolveRelativeDate, Name: "resolveRelativeDate", Handler: func(context.Context, Args) (any, error) { return nil, nil }},
	).Build()

	_, ok := r.Resolve("swapShifts")
	assert.True(t, ok)
	_, ok = r.Resolve("SwapShifts")
	assert.False(t, ok, "lookup is case-sensitive")

	assert.Equal(t, []string{"applyForLeave", "resolveRelativeDate", "swapShifts"}, r.Names())

	defs := r.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "applyForLeave", defs[0].Name)
	assert.Equal(t, "object", defs[1].Parameters["type"], "missing schema defaults to an empty object")
}

func TestRegistry_Dispatch(t *testing.T) {
	t.Parallel()
	r := NewBuilder().MustRegister(
		echoTool(KindResolveStaff, "echo"),
		Tool{Kind: KindSwapShifts, Name: "boom", Handler: func(context.Context, Args) (any, error) {
			panic("index out of range")
		}},
		Tool{Kind: KindApplyForLeave, Name: "opaque", Handler: func(context.Context, Args) (any, error) {
			return nil, errors.New("pq: connection reset")
		}},
		Tool{Kind: KindDecideLeave, Name: "domain", Handler: func(context.Context, Args) (any, error) {
			return nil, fmt.Errorf("store: %w", scheduling.NotFoundf("Leave request 9 does not exist."))
		}},
		Tool{Kind: KindResolveRelativeDate, Name: "extra", Handler: func(context.Context, Args) (any, error) {
			return nil, &Failure{
				Err:    scheduling.Validationf("Unrecognized date phrase."),
				Fields: map[string]any{"fallbackDate": "2025-03-12"},
			}
		}},
		Tool{Kind: KindListLeaveRequests, Name: "list", Handler: func(context.Context, Args) (any, error) {
			return []string{"a", "b"}, nil
		}},
		Tool{Kind: KindDetectBackToBack, Name: "slow", Handler: func(ctx context.Context, _ Args) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}},
	).Build()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		call assistant.ToolCall
		want string
	}{
		{
			name: "success payload is merged",
			call: assistant.ToolCall{Name: "echo", Arguments: `{"name":" Asha "}`},
			want: `{"success":true,"echo":"Asha"}`,
		},
		{
			name: "validation error message",
			call: assistant.ToolCall{Name: "echo", Arguments: ""},
			want: `{"success":false,"error":"name is required."}`,
		},
		{
			name: "malformed json",
			call: assistant.ToolCall{Name: "echo", Arguments: `{"name":`},
			want: `{"success":false,"error":"invalid arguments"}`,
		},
		{
			name: "non-object arguments",
			call: assistant.ToolCall{Name: "echo", Arguments: `["Asha"]`},
			want: `{"success":false,"error":"invalid arguments"}`,
		},
		{
			name: "unknown tool",
			call: assistant.ToolCall{Name: "deleteRoster", Arguments: `{}`},
			want: `{"success":false,"error":"unknown tool \"deleteRoster\""}`,
		},
		{
			name: "panic is recovered",
			call: assistant.ToolCall{Name: "boom"},
			want: `{"success":false,"error":"` + msgInternal + `"}`,
		},
		{
			name: "opaque error is hidden",
			call: assistant.ToolCall{Name: "opaque"},
			want: `{"success":false,"error":"` + msgInternal + `"}`,
		},
		{
			name: "wrapped domain error",
			call: assistant.ToolCall{Name: "domain"},
			want: `{"success":false,"error":"Leave request 9 does not exist."}`,
		},
		{
			name: "failure fields",
			call: assistant.ToolCall{Name: "extra"},
			want: `{"success":false,"error":"Unrecognized date phrase.","fallbackDate":"2025-03-12"}`,
		},
		{
			name: "non-object payload",
			call: assistant.ToolCall{Name: "list"},
			want: `{"success":true,"result":["a","b"]}`,
		},
		{
			name: "cancelled context",
			ctx:  cancelled,
			call: assistant.ToolCall{Name: "slow"},
			want: `{"success":false,"error":"` + msgTimeout + `"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := tt.ctx
			if ctx == nil {
				ctx = context.Background()
			}
			tt.call.ID = "call_" + tt.call.Name
			out := r.Dispatch(ctx, tt.call)
			assert.Equal(t, tt.call.ID, out.CallID)
			assert.JSONEq(t, tt.want, out.Output)
			success := gjson.Get(out.Output, "success")
			assert.True(t, success.Type == gjson.True || success.Type == gjson.False, "success must be boolean")
		})
	}
}

func TestRegistry_DispatchAllKeepsOrder(t *testing.T) {
	t.Parallel()
	var inFlight, peak int32
	slowEcho := Tool{Kind: KindFetchFilteredShifts, Name: "slowEcho", Handler: func(_ context.Context, args Args) (any, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		defer atomic.AddInt32(&inFlight, -1)
		d, _ := args.Int64("delayMs")
		time.Sleep(time.Duration(d) * time.Millisecond)
		return map[string]any{"n": d}, nil
	}}
	r := NewBuilder().MustRegister(slowEcho).Build()

	calls := []assistant.ToolCall{
		{ID: "c1", Name: "slowEcho", Arguments: `{"delayMs":30}`},
		{ID: "c2", Name: "missing", Arguments: `{}`},
		{ID: "c3", Name: "slowEcho", Arguments: `{"delayMs":1}`},
		{ID: "c4", Name: "slowEcho", Arguments: `{"delayMs":10}`},
	}
	outs := r.DispatchAll(context.Background(), calls, 2)

	require.Len(t, outs, 4)
	for i, out := range outs {
		assert.Equal(t, calls[i].ID, out.CallID)
	}
	assert.JSONEq(t, `{"success":true,"n":30}`, outs[0].Output)
	assert.JSONEq(t, `{"success":false,"error":"unknown tool \"missing\""}`, outs[1].Output)
	assert.JSONEq(t, `{"success":true,"n":1}`, outs[2].Output)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestKind_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "swap-shifts", KindSwapShifts.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestCaller(t *testing.T) {
	t.Parallel()
	_, ok := CallerFrom(context.Background())
	assert.False(t, ok)

	ctx := WithCaller(context.Background(), Caller{Role: "scheduler", ThreadID: "thread_1"})
	c, ok := CallerFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "scheduler", c.Role)
}
