package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"synnapse/config"
	deliverycontext "synnapse/internal/delivery/context"
	"synnapse/internal/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// queryLogger routes gorm output to the request-scoped slog logger, so statements
// issued while serving a request carry its request_id.
type queryLogger struct {
	base *slog.Logger
	mode logger.LogLevel
	slow time.Duration
}

func newQueryLogger(base *slog.Logger, cfg *config.Config) logger.Interface {
	l := &queryLogger{base: base, mode: logger.Warn}
	if cfg != nil {
		l.slow = cfg.Database.Timeouts.SlowQuery
		if cfg.Env.Debug {
			l.mode = logger.Info
		}
	}

	return l
}

func (l *queryLogger) LogMode(mode logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.mode = mode

	return &cloned
}

func (l *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, logger.Info, slog.LevelInfo, "gorm", slog.String("message", fmt.Sprintf(msg, args...)))
}

func (l *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, logger.Warn, slog.LevelWarn, "gorm", slog.String("message", fmt.Sprintf(msg, args...)))
}

func (l *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, logger.Error, slog.LevelError, "gorm", slog.String("message", fmt.Sprintf(msg, args...)))
}

// Trace logs failed statements at ERROR, slow ones at WARN and, in debug mode, every statement.
// A missing row is an expected outcome for lookups and is not logged.
func (l *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		l.statement(ctx, logger.Error, slog.LevelError, "query failed", fc, elapsed, slog.String("error", err.Error()))
	case l.slow > 0 && elapsed > l.slow:
		l.statement(ctx, logger.Warn, slog.LevelWarn, "slow query", fc, elapsed, slog.Duration("threshold", l.slow))
	default:
		l.statement(ctx, logger.Info, slog.LevelInfo, "query", fc, elapsed)
	}
}

// statement renders the SQL only when the line will be written.
func (l *queryLogger) statement(
	ctx context.Context,
	needed logger.LogLevel,
	level slog.Level,
	msg string,
	fc func() (string, int64),
	elapsed time.Duration,
	extra ...slog.Attr,
) {
	if l.mode < needed {
		return
	}
	sql, rows := fc()
	attrs := append([]slog.Attr{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}, extra...)

	l.emit(ctx, needed, level, msg, attrs...)
}

func (l *queryLogger) emit(ctx context.Context, needed logger.LogLevel, level slog.Level, msg string, attrs ...slog.Attr) {
	if l.mode < needed {
		return
	}
	log := deliverycontext.LoggerOrDefault(ctx, l.base)
	if log == nil {
		return
	}

	log.LogAttrs(ctx, level, msg, attrs...)
}
