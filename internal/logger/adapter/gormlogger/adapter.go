// Package gormlogger routes gorm's SQL log into zerolog.
package gormlogger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// Adapter implements gorm's logger.Interface on top of a zerolog logger.
type Adapter struct {
	Logger        *zerolog.Logger
	Level         glogger.LogLevel
	SlowThreshold time.Duration
}

// New returns an adapter writing to the global zerolog logger at warn level.
// Record not found errors are never logged, they are part of normal control flow.
func New(slowThreshold time.Duration) *Adapter {
	return &Adapter{
		Level:         glogger.Warn,
		SlowThreshold: slowThreshold,
	}
}

func (a *Adapter) logger() *zerolog.Logger {
	if a.Logger != nil {
		return a.Logger
	}

	return &log.Logger
}

// LogMode returns a copy of the adapter with the given level.
func (a *Adapter) LogMode(level glogger.LogLevel) glogger.Interface {
	clone := *a
	clone.Level = level

	return &clone
}

// Info logs gorm info messages.
func (a *Adapter) Info(_ context.Context, msg string, data ...any) {
	if a.Level >= glogger.Info {
		a.logger().Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn logs gorm warnings.
func (a *Adapter) Warn(_ context.Context, msg string, data ...any) {
	if a.Level >= glogger.Warn {
		a.logger().Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Error logs gorm errors.
func (a *Adapter) Error(_ context.Context, msg string, data ...any) {
	if a.Level >= glogger.Error {
		a.logger().Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace logs a finished SQL statement: failures as errors, slow statements as warnings
// and everything else at debug when the level is Info.
func (a *Adapter) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if a.Level <= glogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && a.Level >= glogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		a.logger().Error().Err(err).Str("component", "gorm").Str("sql", sql).Int64("rows", rows).
			Dur("elapsed", elapsed).Msg("sql query failed")
	case a.SlowThreshold > 0 && elapsed > a.SlowThreshold && a.Level >= glogger.Warn:
		sql, rows := fc()
		a.logger().Warn().Str("component", "gorm").Str("sql", sql).Int64("rows", rows).
			Dur("elapsed", elapsed).Dur("threshold", a.SlowThreshold).Msg("slow sql query")
	case a.Level >= glogger.Info:
		sql, rows := fc()
		a.logger().Debug().Str("component", "gorm").Str("sql", sql).Int64("rows", rows).
			Dur("elapsed", elapsed).Msg("sql query")
	}
}
