package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/maisaeducacao/students-api/internal/domain/ports"
)

// SlogLogger implementa ports.Logger usando slog do stdlib
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger cria um novo logger JSON em stdout
func NewSlogLogger(level string) ports.Logger {
	return NewSlogLoggerWithWriter(os.Stdout, level)
}

// NewSlogLoggerWithWriter cria um logger JSON escrevendo em w
func NewSlogLoggerWithWriter(w io.Writer, level string) ports.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	handler := slog.NewJSONHandler(w, opts)
	logger := slog.New(handler)

	return &SlogLogger{logger: logger}
}

// NewNopLogger descarta todas as mensagens (útil em testes)
func NewNopLogger() ports.Logger {
	return NewSlogLoggerWithWriter(io.Discard, "error")
}

// ParseLevel converte o nível textual; desconhecidos viram info
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *SlogLogger) With(args ...any) ports.Logger {
	return &SlogLogger{
		logger: l.logger.With(args...),
	}
}
