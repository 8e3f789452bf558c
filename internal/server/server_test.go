package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Backland-Labs/rosterdesk/internal/agent"
	"github.com/Backland-Labs/rosterdesk/internal/assistant"
)

// MockAssistant is a mock implementation of Assistant
type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) Ask(ctx context.Context, threadID, role, message string) (agent.Reply, error) {
	args := m.Called(ctx, threadID, role, message)
	return args.Get(0).(agent.Reply), args.Error(1)
}

func (m *MockAssistant) EndConversation(ctx context.Context, threadID string) error {
	args := m.Called(ctx, threadID)
	return args.Error(0)
}

type staticCatalog []assistant.ToolDefinition

func (c staticCatalog) Definitions() []assistant.ToolDefinition { return c }

var testCatalog = staticCatalog{
	{Name: "resolveStaffInfoByName", Description: "Find staff by name", Parameters: map[string]any{"type": "object"}},
	{Name: "swapShifts", Description: "Swap two shifts", Parameters: map[string]any{"type": "object"}},
}

func newTestServer(a Assistant) http.Handler {
	return NewServer(Config{}, a, testCatalog).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(&MockAssistant{})

	w := do(t, h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypeJSON, w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, serviceName, body["service"])

	w = do(t, h, http.MethodPost, "/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestAskEndpoint(t *testing.T) {
	a := &MockAssistant{}
	a.On("Ask", mock.Anything, "thread_1", "scheduler", "Who is free tomorrow evening?").
		Return(agent.Reply{Text: "Asha and Ben are free.", ThreadID: "thread_1", RunID: "run_1", ToolRounds: 2}, nil).
		Once()
	h := newTestServer(a)

	w := do(t, h, http.MethodPost, "/ask",
		`{"message":"Who is free tomorrow evening?","threadId":"thread_1"}`,
		map[string]string{roleHeader: " scheduler "})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reply":"Asha and Ben are free.","threadId":"thread_1","runId":"run_1","toolRounds":2}`, w.Body.String())
	a.AssertExpectations(t)
}

func TestAskEndpoint_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		status int
		error  string
	}{
		{name: "wrong method", method: http.MethodGet, status: http.StatusMethodNotAllowed, error: MsgMethodNotAllowed},
		{name: "malformed json", method: http.MethodPost, body: `{"message":`, status: http.StatusBadRequest, error: MsgInvalidBody},
		{name: "blank message", method: http.MethodPost, body: `{"message":"   "}`, status: http.StatusBadRequest, error: MsgMessageRequired},
		{name: "oversized body", method: http.MethodPost, body: `{"message":"` + strings.Repeat("a", maxBodyBytes) + `"}`, status: http.StatusBadRequest, error: MsgInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &MockAssistant{}
			w := do(t, newTestServer(a), tt.method, "/ask", tt.body, nil)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.error), w.Body.String())
			a.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAskEndpoint_MapsAssistantErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		error  string
	}{
		{name: "empty message", err: agent.ErrEmptyMessage, status: http.StatusBadRequest, error: MsgMessageRequired},
		{name: "breaker open", err: fmt.Errorf("failed to create thread: %w", assistant.ErrServiceUnavailable), status: http.StatusServiceUnavailable, error: MsgUnavailable},
		{name: "timeout", err: agent.ErrRunTimeout, status: http.StatusGatewayTimeout, error: MsgTimeout},
		{name: "tool rounds", err: agent.ErrTooManyToolRounds, status: http.StatusBadGateway, error: MsgTooManyRounds},
		{name: "no reply", err: agent.ErrNoReply, status: http.StatusBadGateway, error: MsgNoReply},
		{
			name:   "run failed",
			err:    &agent.RunError{RunID: "run_1", Status: assistant.RunFailed, Code: "server_error"},
			status: http.StatusBadGateway,
			error:  "The assistant run ended with status failed.",
		},
		{name: "canceled", err: fmt.Errorf("failed to get run: %w", context.Canceled), status: http.StatusServiceUnavailable, error: MsgCanceled},
		{name: "remote", err: errors.New("failed to post message: 500"), status: http.StatusBadGateway, error: MsgUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &MockAssistant{}
			a.On("Ask", mock.Anything, "", "", "hello").Return(agent.Reply{ThreadID: "thread_9"}, tt.err)

			w := do(t, newTestServer(a), http.MethodPost, "/ask", `{"message":"hello"}`, nil)

			assert.Equal(t, tt.status, w.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.error, body.Error)
			assert.Equal(t, "thread_9", body.ThreadID)
		})
	}
}

func TestEndThreadEndpoint(t *testing.T) {
	t.Run("deletes the thread", func(t *testing.T) {
		a := &MockAssistant{}
		a.On("EndConversation", mock.Anything, "thread_1").Return(nil).Once()

		w := do(t, newTestServer(a), http.MethodDelete, "/threads/thread_1", "", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		a.AssertExpectations(t)
	})

	t.Run("remote failure", func(t *testing.T) {
		a := &MockAssistant{}
		a.On("EndConversation", mock.Anything, "thread_1").Return(errors.New("not found"))

		w := do(t, newTestServer(a), http.MethodDelete, "/threads/thread_1", "", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		a := &MockAssistant{}
		w := do(t, newTestServer(a), http.MethodGet, "/threads/thread_1", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		a.AssertNotCalled(t, "EndConversation", mock.Anything, mock.Anything)
	})
}

func TestToolsEndpoint(t *testing.T) {
	w := do(t, newTestServer(&MockAssistant{}), http.MethodGet, "/tools", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body ToolsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Tools, 2)
	assert.Equal(t, "resolveStaffInfoByName", body.Tools[0].Name)
	assert.Equal(t, "Swap two shifts", body.Tools[1].Description)
}

func TestServerStartAndStop(t *testing.T) {
	a := &MockAssistant{}
	srv := NewServer(Config{Port: 0, ShutdownTimeout: time.Second}, a, testCatalog)
	assert.Empty(t, srv.Address())

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	require.Eventually(t, func() bool { return srv.Address() != "" }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + srv.Address() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.ErrorIs(t, srv.Start(ctx), ErrServerRunning)

	cancel()
	select {
	case err := <-errChan:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Empty(t, srv.Address())
}

func TestServerStart_CanceledContext(t *testing.T) {
	srv := NewServer(Config{}, &MockAssistant{}, testCatalog)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, srv.Start(ctx), context.Canceled)
	assert.Empty(t, srv.Address())
}
