package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// queryTracer logs every statement the store runs.
// Successful statements go to trace level with SQL and args; failures go to
// debug with the driver error so they stay visible one level up.
type queryTracer struct {
	logger zerolog.Logger
}

func newQueryTracer(logger zerolog.Logger) *queryTracer {
	return &queryTracer{logger: logger.With().Str("component", "sql").Logger()}
}

func (t *queryTracer) trace(query string, args []any, start time.Time, err error) {
	var event *zerolog.Event
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		event = t.logger.Debug().Err(err)
	} else {
		event = t.logger.Trace()
	}
	// Enabled is false when the level is filtered out; skip building fields then.
	if !event.Enabled() {
		return
	}
	event.
		Str("sql", query).
		Interface("args", args).
		Dur("duration", time.Since(start)).
		Msg("query")
}
