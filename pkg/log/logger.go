package log

import (
	"context"
	"log/slog"
	"os"
)

const (
	LevelDisabled Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

type (
	Logger interface {
		With(fields Fields) Logger
		WithField(name string, value any) Logger
		WithError(err error) Logger
		Debug(ctx context.Context, msg string)
		Info(ctx context.Context, msg string)
		Warn(ctx context.Context, msg string)
		Error(ctx context.Context, msg string)
	}

	Fields map[string]any
	Level  int
)

var levelNameMap = map[string]Level{
	"disabled": LevelDisabled,
	"debug":    LevelDebug,
	"info":     LevelInfo,
	"warn":     LevelWarn,
	"error":    LevelError,
}

var slogLevelMap = map[Level]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

// ParseLevel returns the level for a name, LevelInfo for unknown names.
func ParseLevel(name string) Level {
	lvl, ok := levelNameMap[name]
	if !ok {
		return LevelInfo
	}
	return lvl
}

type logger struct {
	impl *slog.Logger
}

func New(level Level) Logger {
	if level == LevelDisabled {
		return stub{}
	}

	impl := slog.New(slog.NewJSONHandler(
		os.Stderr,
		&slog.HandlerOptions{Level: slogLevelMap[level]},
	))

	return logger{impl}
}

func (l logger) With(fields Fields) Logger {
	if len(fields) == 0 {
		return l
	}

	l.impl = l.impl.With(convertFields(fields)...)
	return l
}

func (l logger) WithField(name string, v any) Logger {
	l.impl = l.impl.With(name, v)
	return l
}

func (l logger) WithError(err error) Logger {
	if err == nil {
		return l
	}

	l.impl = l.impl.With("error", err.Error())
	return l
}

func (l logger) Debug(ctx context.Context, msg string) {
	l.impl.DebugContext(ctx, msg)
}

func (l logger) Info(ctx context.Context, msg string) {
	l.impl.InfoContext(ctx, msg)
}

func (l logger) Warn(ctx context.Context, msg string) {
	l.impl.WarnContext(ctx, msg)
}

func (l logger) Error(ctx context.Context, msg string) {
	l.impl.ErrorContext(ctx, msg)
}

func convertFields(fields Fields) []any {
	result := make([]any, 0, len(fields)*2)
	for name, value := range fields {
		result = append(result, name, value)
	}
	return result
}
