package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"info", InfoLevel},
		{"", InfoLevel},
		{"nonsense", InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromString(tt.in), tt.in)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ROSTERDESK_LOG_LEVEL", "debug")
	t.Setenv("ROSTERDESK_LOG_FORMAT", "JSON")
	t.Setenv("ROSTERDESK_LOG_CALLER", "true")

	cfg := ConfigFromEnv()
	assert.Equal(t, DebugLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Caller)
	assert.False(t, cfg.IsDevelopment())
}

func TestLogger_LevelsAndFields(t *testing.T) {
	t.Parallel()
	l, logs := observed(zap.InfoLevel)

	l.Debug("hidden")
	l.WithRun("thread_1", "run_1").Info("run started")
	l.WithTool("swapShifts", "call_9").Warnf("tool %s slow", "swapShifts")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "run started", entries[0].Message)
	assert.Equal(t, "thread_1", entries[0].ContextMap()["thread_id"])
	assert.Equal(t, "run_1", entries[0].ContextMap()["run_id"])
	assert.Equal(t, "tool swapShifts slow", entries[1].Message)
	assert.Equal(t, "call_9", entries[1].ContextMap()["call_id"])
}

func TestLogger_WithErrorNil(t *testing.T) {
	t.Parallel()
	l, _ := observed(zap.DebugLevel)
	assert.Same(t, l, l.WithError(nil))
}

func TestTimedLogger(t *testing.T) {
	t.Parallel()
	l, logs := observed(zap.DebugLevel)

	l.Timed("ask").DoneWithError(assert.AnError)
	entries := logs.FilterMessage("Operation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ask", entries[0].ContextMap()["operation"])
}

func TestHTTPMiddleware(t *testing.T) {
	t.Parallel()
	l, logs := observed(zap.DebugLevel)

	h := HTTPMiddleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/ask?x=1", nil)
	req.Header.Set("X-User-Role", "scheduler")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	entries := logs.FilterMessage("Request failed with client error").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "/ask", ctx["path"])
	assert.Equal(t, "scheduler", ctx["caller_role"])
	assert.EqualValues(t, http.StatusTeapot, ctx["status"])
	assert.EqualValues(t, len("short and stout"), ctx["size"])
}

func TestGlobalHelpers(t *testing.T) {
	l, logs := observed(zap.DebugLevel)
	prev := GetLogger()
	SetLogger(l)
	t.Cleanup(func() { SetLogger(prev) })

	WithField("k", "v").Info("one")
	Errorf("two %d", 2)

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "two 2", logs.All()[1].Message)
}
