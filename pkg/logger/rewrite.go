package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// Info logs an info message.
func Info(args ...any) {
	GetLogger().Log(context.Background(), slog.LevelInfo, fmt.Sprint(args...))
}

// Infow logs a structured info message.
func Infow(msg string, keysAndValues ...any) {
	GetLogger().Log(context.Background(), slog.LevelInfo, msg, keysAndValues...)
}

// Debug logs a debug message.
func Debug(args ...any) {
	GetLogger().Log(context.Background(), slog.LevelDebug, fmt.Sprint(args...))
}

// Debugw logs a structured debug message.
func Debugw(msg string, keysAndValues ...any) {
	GetLogger().Log(context.Background(), slog.LevelDebug, msg, keysAndValues...)
}

// Warn logs a warn message.
func Warn(args ...any) {
	GetLogger().Log(context.Background(), slog.LevelWarn, fmt.Sprint(args...))
}

// Warnw logs a structured warn message.
func Warnw(msg string, keysAndValues ...any) {
	GetLogger().Log(context.Background(), slog.LevelWarn, msg, keysAndValues...)
}

// Error logs an error message.
func Error(args ...any) {
	GetLogger().Log(context.Background(), slog.LevelError, fmt.Sprint(args...))
}

// Errorw logs a structured error message.
func Errorw(msg string, keysAndValues ...any) {
	GetLogger().Log(context.Background(), slog.LevelError, msg, keysAndValues...)
}
