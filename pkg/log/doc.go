// Package log creates [log/slog] handlers for rtool's supported formats and
// levels, and carries loggers through a [context.Context].
package log
