package logger

// Initialize replaces the global logger with one built from cfg.
// An empty level or format keeps the environment value.
func Initialize(level, format string) error {
	cfg := ConfigFromEnv()
	if level != "" {
		cfg.Level = LevelFromString(level)
	}
	if format != "" {
		cfg.Format = format
	}
	z, err := NewZap(cfg)
	if err != nil {
		return err
	}
	SetLogger(FromZap(z))
	return nil
}

// Debug is a convenience function that logs to the global logger
func Debug(msg string) {
	GetLogger().Debug(msg)
}

// Debugf is a convenience function that logs to the global logger
func Debugf(format string, args ...interface{}) {
	GetLogger().Debugf(format, args...)
}

// Info is a convenience function that logs to the global logger
func Info(msg string) {
	GetLogger().Info(msg)
}

// Infof is a convenience function that logs to the global logger
func Infof(format string, args ...interface{}) {
	GetLogger().Infof(format, args...)
}

// Warn is a convenience function that logs to the global logger
func Warn(msg string) {
	GetLogger().Warn(msg)
}

// Warnf is a convenience function that logs to the global logger
func Warnf(format string, args ...interface{}) {
	GetLogger().Warnf(format, args...)
}

// Error is a convenience function that logs to the global logger
func Error(msg string) {
	GetLogger().Error(msg)
}

// Errorf is a convenience function that logs to the global logger
func Errorf(format string, args ...interface{}) {
	GetLogger().Errorf(format, args...)
}

// WithField is a convenience function that returns a logger with a field
func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}

// WithFields is a convenience function that returns a logger with fields
func WithFields(fields map[string]interface{}) *Logger {
	return GetLogger().WithFields(fields)
}

// WithRun returns the global logger with conversation context
func WithRun(threadID, runID string) *Logger {
	return GetLogger().WithRun(threadID, runID)
}

// WithTool returns the global logger with tool call context
func WithTool(name, callID string) *Logger {
	return GetLogger().WithTool(name, callID)
}

// WithError returns the global logger with error context
func WithError(err error) *Logger {
	return GetLogger().WithError(err)
}
