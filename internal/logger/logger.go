package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger to provide a small structured logging
// interface shared by the whole service.
type Logger struct {
	*zap.SugaredLogger
}

// Production returns a production-ready logger with INFO level.
func Production() *Logger {
	return New(false)
}

// Development returns a development logger with DEBUG level and colored output.
func Development() *Logger {
	return New(true)
}

// New creates a new logger instance. Prefer Production() or Development() for
// better readability.
func New(debug bool) *Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		config.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.CallerKey = "caller"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	baseLogger, err := config.Build(
		zap.AddCaller(),
		zap.AddCallerSkip(1), // Skip this package in call stack
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		// Fallback to a basic logger if configuration fails
		baseLogger = zap.NewExample()
	}

	return &Logger{SugaredLogger: baseLogger.Sugar()}
}

// NewFromEnv creates a logger based on the DEBUG_MODE environment variable.
func NewFromEnv() *Logger {
	debug := os.Getenv("DEBUG_MODE") == "true" || os.Getenv("DEBUG_MODE") == "1"
	return New(debug)
}

// WithFields returns a logger with additional structured fields.
func (l *Logger) WithFields(fields ...any) *Logger {
	return &Logger{SugaredLogger: l.With(fields...)}
}

// WithError returns a logger with an error field attached.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return &Logger{SugaredLogger: l.With("error", err.Error())}
}

// Debug logs a debug-level message with optional fields.
func (l *Logger) Debug(msg string, fields ...any) {
	l.Debugw(msg, fields...)
}

// Info logs an info-level message with optional fields.
func (l *Logger) Info(msg string, fields ...any) {
	l.Infow(msg, fields...)
}

// Warn logs a warning-level message with optional fields.
func (l *Logger) Warn(msg string, fields ...any) {
	l.Warnw(msg, fields...)
}

// Error logs an error-level message with optional fields.
func (l *Logger) Error(msg string, fields ...any) {
	l.Errorw(msg, fields...)
}

// Fatal logs a fatal-level message and exits the program.
func (l *Logger) Fatal(msg string, fields ...any) {
	l.Fatalw(msg, fields...)
}

// Sync flushes any buffered log entries. Should be called before program exit.
func (l *Logger) Sync() error {
	return l.SugaredLogger.Sync()
}
