package client

import (
	"context"
	"log/slog"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect/sql/sqlgraph"
)

// LogObserver returns an observer logging every builder invocation. Failed
// invocations are logged at warn level with the kind of the error.
func LogObserver(logger *slog.Logger) relq.Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return relq.ObserverFuncs{
		AfterFunc: func(ctx context.Context, e relq.QueryEvent, r relq.QueryResult) {
			attrs := []slog.Attr{
				slog.String("id", e.ID),
				slog.String("builder", e.Builder),
				slog.String("entity", e.Entity),
				slog.Bool("tx", e.Tx),
				slog.Int("rows", r.Rows),
				slog.Duration("elapsed", r.Elapsed),
			}
			if r.Err == nil {
				logger.LogAttrs(ctx, slog.LevelDebug, "relq: query", attrs...)
				return
			}
			attrs = append(attrs, slog.String("kind", ErrorKind(r.Err)), slog.Any("error", r.Err))
			logger.LogAttrs(ctx, slog.LevelWarn, "relq: query failed", attrs...)
		},
	}
}

// ErrorKind classifies err for logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case relq.IsLookupError(err):
		return "lookup"
	case relq.IsNotFound(err):
		return "not_found"
	case relq.IsNotSingular(err):
		return "not_singular"
	case relq.IsValidationError(err):
		return "validation"
	case relq.IsRelationNotFound(err):
		return "relation_not_found"
	case relq.IsFetcherMissing(err):
		return "fetcher_missing"
	case relq.IsTypeMismatch(err):
		return "type_mismatch"
	case sqlgraph.IsUniqueConstraintError(err):
		return "unique_constraint"
	case sqlgraph.IsForeignKeyConstraintError(err):
		return "foreign_key_constraint"
	case sqlgraph.IsConstraintError(err):
		return "constraint"
	default:
		return "store"
	}
}
