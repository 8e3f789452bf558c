package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Backland-Labs/rosterdesk/internal/agent"
	"github.com/Backland-Labs/rosterdesk/internal/assistant"
)

// Error messages returned to HTTP callers
const (
	MsgMessageRequired  = "Message is required"
	MsgThreadRequired   = "Thread ID is required"
	MsgInvalidBody      = "Invalid request body"
	MsgMethodNotAllowed = "Method not allowed"
	MsgUnavailable      = "The assistant is temporarily unavailable. Please try again shortly."
	MsgTimeout          = "The assistant did not answer in time. Please try again."
	MsgTooManyRounds    = "The assistant could not finish this request. Please try rephrasing it."
	MsgNoReply          = "The assistant finished without a reply."
	MsgCanceled         = "The request was canceled."
	MsgUpstream         = "The assistant service returned an error."
)

// ErrorStatus is the HTTP response chosen for a failed request
type ErrorStatus struct {
	StatusCode int
	Message    string
}

// mapAssistantError maps errors from the agent service to HTTP responses.
// Remote failures that the caller cannot fix become 5xx responses.
func mapAssistantError(err error) ErrorStatus {
	var runErr *agent.RunError

	switch {
	case err == nil:
		return ErrorStatus{StatusCode: http.StatusOK}
	case errors.Is(err, agent.ErrEmptyMessage):
		return ErrorStatus{StatusCode: http.StatusBadRequest, Message: MsgMessageRequired}
	case errors.Is(err, assistant.ErrServiceUnavailable):
		return ErrorStatus{StatusCode: http.StatusServiceUnavailable, Message: MsgUnavailable}
	case errors.Is(err, agent.ErrRunTimeout):
		return ErrorStatus{StatusCode: http.StatusGatewayTimeout, Message: MsgTimeout}
	case errors.Is(err, agent.ErrTooManyToolRounds):
		return ErrorStatus{StatusCode: http.StatusBadGateway, Message: MsgTooManyRounds}
	case errors.Is(err, agent.ErrNoReply):
		return ErrorStatus{StatusCode: http.StatusBadGateway, Message: MsgNoReply}
	case errors.As(err, &runErr):
		return ErrorStatus{
			StatusCode: http.StatusBadGateway,
			Message:    fmt.Sprintf("The assistant run ended with status %s.", runErr.Status),
		}
	case errors.Is(err, context.Canceled):
		return ErrorStatus{StatusCode: http.StatusServiceUnavailable, Message: MsgCanceled}
	default:
		return ErrorStatus{StatusCode: http.StatusBadGateway, Message: MsgUpstream}
	}
}
