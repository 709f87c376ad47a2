package private

import "go.uber.org/zap"

// Logger provides a simple interface for store diagnostics
type Logger interface {
	// Debug logs a message at debug level
	Debug(format string, args ...interface{})

	// Info logs a message at info level
	Info(format string, args ...interface{})

	// Warn logs a message at warning level
	Warn(format string, args ...interface{})

	// Error logs a message at error level
	Error(format string, args ...interface{})
}

// DefaultLogger is a no-op logger implementation
type DefaultLogger struct{}

// Debug implements Logger.Debug
func (l *DefaultLogger) Debug(format string, args ...interface{}) {}

// Info implements Logger.Info
func (l *DefaultLogger) Info(format string, args ...interface{}) {}

// Warn implements Logger.Warn
func (l *DefaultLogger) Warn(format string, args ...interface{}) {}

// Error implements Logger.Error
func (l *DefaultLogger) Error(format string, args ...interface{}) {}

// NewDefaultLogger creates a new default no-op logger
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}

// ZapLogger forwards store diagnostics to a zap logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps l. A nil l yields a no-op zap logger.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{sugar: l.Sugar()}
}

// Debug implements Logger.Debug
func (z *ZapLogger) Debug(format string, args ...interface{}) { z.sugar.Debugf(format, args...) }

// Info implements Logger.Info
func (z *ZapLogger) Info(format string, args ...interface{}) { z.sugar.Infof(format, args...) }

// Warn implements Logger.Warn
func (z *ZapLogger) Warn(format string, args ...interface{}) { z.sugar.Warnf(format, args...) }

// Error implements Logger.Error
func (z *ZapLogger) Error(format string, args ...interface{}) { z.sugar.Errorf(format, args...) }
