package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/homeservices-backend/pkg/logger"
)

// queryLogger sends gorm output through the service logger. Only failed and
// slow statements are reported; record-not-found is normal control flow.
type queryLogger struct {
	logg      *logger.Logger
	level     gormlogger.LogLevel
	slowQuery time.Duration
}

func newQueryLogger(logg *logger.Logger, slowQuery time.Duration) gormlogger.Interface {
	if logg == nil {
		return gormlogger.Discard
	}
	return &queryLogger{logg: logg, level: gormlogger.Warn, slowQuery: slowQuery}
}

func (q *queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *q
	clone.level = level
	return &clone
}

func (q *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Info {
		q.logg.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (q *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Warn {
		q.logg.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (q *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Error {
		q.logg.Error(ctx, "gorm error", fmt.Errorf(msg, args...))
	}
}

func (q *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := q.slowQuery > 0 && elapsed > q.slowQuery
	if !failed && !slow {
		return
	}

	stmt, rows := fc()
	fields := map[string]any{
		"sql":         stmt,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	}
	if failed {
		// constraint violations surface again as typed errors upstream
		q.logg.Debug(q.logg.WithField(q.logg.WithFields(ctx, fields), "error", err.Error()), "db.query.failed")
		return
	}
	if q.level >= gormlogger.Warn {
		q.logg.Warn(q.logg.WithFields(ctx, fields), "db.query.slow")
	}
}
