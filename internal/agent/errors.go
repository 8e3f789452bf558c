package agent

import (
	"errors"
	"fmt"

	"github.com/Backland-Labs/rosterdesk/internal/assistant"
)

var (
	// ErrRunTimeout is returned when a run does not finish within the configured timeout
	ErrRunTimeout = errors.New("assistant run timed out")
	// ErrNoReply is returned when a run completed without an assistant message
	ErrNoReply = errors.New("assistant run completed without a reply")
	// ErrTooManyToolRounds is returned when the agent keeps requesting tools past the round limit
	ErrTooManyToolRounds = errors.New("assistant run exceeded the tool round limit")
	// ErrEmptyMessage is returned by Ask for a blank user message
	ErrEmptyMessage = errors.New("message cannot be empty")
)

// RunError reports a run that ended in failed, cancelled, expired or incomplete
type RunError struct {
	ThreadID string
	RunID    string
	Status   assistant.RunStatus
	Code     string
	Message  string
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("assistant run %s ended with status %s", e.RunID, e.Status)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func newRunError(run assistant.Run) *RunError {
	e := &RunError{ThreadID: run.ThreadID, RunID: run.ID, Status: run.Status}
	if run.LastError != nil {
		e.Code = run.LastError.Code
		e.Message = run.LastError.Message
	}
	return e
}
