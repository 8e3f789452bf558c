// Package tools is the registry that maps tool names requested by the agent
// to handlers, and the dispatch layer that turns a tool call into a JSON
// output. Dispatch never fails: argument errors, unknown tools, handler
// errors and panics all become {"success":false,"error":...} outputs.
package tools

import (
	"context"
	"fmt"
)

// Kind identifies a tool variant
type Kind int

const (
	KindResolveStaff Kind = iota + 1
	KindResolveDepartment
	KindResolveRelativeDate
	KindFilterPlannedShifts
	KindFetchFilteredShifts
	KindSearchAvailableStaff
	KindSwapShifts
	KindApplyForLeave
	KindDecideLeave
	KindListLeaveRequests
	KindDetectBackToBack
)

var kindNames = map[Kind]string{
	KindResolveStaff:         "resolve-staff",
	KindResolveDepartment:    "resolve-department",
	KindResolveRelativeDate:  "resolve-relative-date",
	KindFilterPlannedShifts:  "filter-planned-shifts",
	KindFetchFilteredShifts:  "fetch-filtered-shifts",
	KindSearchAvailableStaff: "search-available-staff",
	KindSwapShifts:           "swap-shifts",
	KindApplyForLeave:        "apply-for-leave",
	KindDecideLeave:          "decide-leave",
	KindListLeaveRequests:    "list-leave-requests",
	KindDetectBackToBack:     "detect-back-to-back",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Handler executes a tool. The returned payload is marshalled to JSON and
// merged with "success": true; a returned error becomes a failure output.
type Handler func(ctx context.Context, args Args) (any, error)

// Tool is one registry entry
type Tool struct {
	Kind        Kind
	Name        string
	Description string
	// Parameters is the JSON schema of the arguments object
	Parameters map[string]any
	Handler    Handler
}

// Failure is a handler error that carries extra fields for the failure output
type Failure struct {
	Err    error
	Fields map[string]any
}

func (f *Failure) Error() string {
	return f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Caller identifies who asked the current question
type Caller struct {
	Role     string
	ThreadID string
}

type callerKey struct{}

// WithCaller attaches c to ctx
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the caller attached to ctx
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}
