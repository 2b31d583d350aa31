// Package logging provides structured logging for patch-application attempts.
package logging

import (
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes structured records for each patch-application attempt: one
// when it starts and one for its outcome.
type Logger struct {
	zap *zap.Logger
}

// New creates a Logger that writes to logPath. If logPath is empty, logging
// is a no-op. Output is always JSON; development selects zap's development
// encoder settings instead of the production ones.
func New(logPath string, development bool) (*Logger, error) {
	if logPath == "" {
		return &Logger{zap: zap.NewNop()}, nil
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	var encoderConfig zapcore.EncoderConfig
	if development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logFile),
		zapcore.InfoLevel,
	)

	return &Logger{zap: zap.New(core)}, nil
}

// Close flushes any buffered log entries.
func (l *Logger) Close() error {
	return l.zap.Sync()
}

// NewAttemptID returns a correlation ID to tag one patch-application attempt
// across its log entries.
func NewAttemptID() string {
	return uuid.NewString()
}

// AttemptStarted logs the beginning of a patch-application attempt.
func (l *Logger) AttemptStarted(attemptID, format, path string) {
	l.zap.Info("patch attempt started",
		zap.String("attempt_id", attemptID),
		zap.String("format", format),
		zap.String("path", path),
	)
}

// AttemptSucceeded logs a successful patch application.
func (l *Logger) AttemptSucceeded(attemptID, path string, duration time.Duration) {
	l.zap.Info("patch attempt succeeded",
		zap.String("attempt_id", attemptID),
		zap.String("path", path),
		zap.Duration("duration", duration),
	)
}

// AttemptFailed logs a failed patch application with its error code.
func (l *Logger) AttemptFailed(attemptID, path, code, message string, duration time.Duration) {
	l.zap.Warn("patch attempt failed",
		zap.String("attempt_id", attemptID),
		zap.String("path", path),
		zap.String("code", code),
		zap.String("message", message),
		zap.Duration("duration", duration),
	)
}

// Error logs an unexpected error outside the attempt lifecycle (e.g. I/O).
func (l *Logger) Error(msg string, err error) {
	l.zap.Error(msg, zap.Error(err))
}
