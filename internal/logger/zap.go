package logger

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZap builds a zap logger from cfg
func NewZap(cfg *Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.IsDevelopment() {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(cfg.Level.zapLevel())
	zc.DisableCaller = !cfg.Caller
	zc.DisableStacktrace = true

	opts := []zap.Option{zap.AddCallerSkip(1)}
	if cfg.Stacktrace != "" {
		opts = append(opts, zap.AddStacktrace(stacktraceLevel(cfg.Stacktrace)))
	}

	z, err := zc.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}
	return z, nil
}

func stacktraceLevel(s string) zapcore.Level {
	switch s {
	case "error":
		return zap.ErrorLevel
	case "panic":
		return zap.PanicLevel
	default:
		return zap.FatalLevel
	}
}

// WithHTTPRequest adds HTTP request context to the logger
func (l *Logger) WithHTTPRequest(r *http.Request) *Logger {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("remote_addr", r.RemoteAddr),
	}
	if r.URL.RawQuery != "" {
		fields = append(fields, zap.String("query", r.URL.RawQuery))
	}
	if role := r.Header.Get("X-User-Role"); role != "" {
		fields = append(fields, zap.String("caller_role", role))
	}
	return l.with(fields...)
}

// WithRun adds conversation context to the logger
func (l *Logger) WithRun(threadID, runID string) *Logger {
	return l.with(zap.String("thread_id", threadID), zap.String("run_id", runID))
}

// WithTool adds tool call context to the logger
func (l *Logger) WithTool(name, callID string) *Logger {
	return l.with(zap.String("tool", name), zap.String("call_id", callID))
}

// WithDuration adds a duration field to the logger
func (l *Logger) WithDuration(d time.Duration) *Logger {
	return l.with(zap.Duration("duration", d), zap.Float64("duration_ms", float64(d.Nanoseconds())/1e6))
}

// WithError adds error context to the logger
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.with(zap.Error(err), zap.String("error_type", fmt.Sprintf("%T", err)))
}

// Timed creates a timed logger for measuring operation duration
func (l *Logger) Timed(operation string) *TimedLogger {
	l.z.Debug("Operation started", zap.String("operation", operation))
	return &TimedLogger{logger: l, start: time.Now(), op: operation}
}

// TimedLogger tracks the duration of an operation
type TimedLogger struct {
	logger *Logger
	start  time.Time
	op     string
}

// Done logs the completion of the timed operation
func (t *TimedLogger) Done() {
	d := time.Since(t.start)
	t.logger.z.Debug("Operation completed",
		zap.String("operation", t.op),
		zap.Duration("duration", d),
	)
}

// DoneWithError logs the completion of the timed operation with an error
func (t *TimedLogger) DoneWithError(err error) {
	if err == nil {
		t.Done()
		return
	}
	t.logger.z.Error("Operation failed",
		zap.String("operation", t.op),
		zap.Error(err),
		zap.Duration("duration", time.Since(t.start)),
	)
}
