// Package logger provides structured logging for every service process.
//
// It builds a JSON log/slog handler at the configured level, installs it as the
// default logger, and carries request-scoped loggers through context.Context.
package logger
