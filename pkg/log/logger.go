package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// SetupLogger function setup logger.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))
}

func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// ===========================================================================
// Default logger provider
// ===========================================================================

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = &slogLogger{logger: slog.Default()}
)

// GetLogger returns the process-wide default Logger.
// Unless replaced via SetLogger, it delegates to slog.Default().
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the process-wide default Logger.
// Tests typically install a TestLogger here.
func SetLogger(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// slogLogger adapts *slog.Logger to the Logger interface.
type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps an existing *slog.Logger in the Logger interface.
func NewSlogLogger(l *slog.Logger) Logger {
	return &slogLogger{logger: l}
}

func (s *slogLogger) Debug(msg string, fields ...any) { s.logger.Debug(msg, fields...) }
func (s *slogLogger) Info(msg string, fields ...any)  { s.logger.Info(msg, fields...) }
func (s *slogLogger) Warn(msg string, fields ...any)  { s.logger.Warn(msg, fields...) }
func (s *slogLogger) Error(msg string, fields ...any) { s.logger.Error(msg, fields...) }

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{logger: s.logger.With(fields...)}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.logger.Enabled(ctx, slog.Level(level))
}
