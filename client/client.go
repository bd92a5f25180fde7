// Package client is the entry point generated call sites use: a Client
// holds the driver, the fetcher registry and the observers, and hands out
// the builders of package sqlgraph per entity.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect"
	"github.com/syssam/relq/dialect/sql"
	"github.com/syssam/relq/dialect/sql/sqlgraph"
)

// Client executes builders against one driver.
type Client struct {
	cfg   *sqlgraph.Config
	stats *sql.StatsDriver
}

// options holds the configuration collected from Option values.
type options struct {
	driver    dialect.Driver
	registry  *sqlgraph.Registry
	log       *slog.Logger
	debug     bool
	observers relq.Observers
	stats     bool
	statsOpts []sql.StatsOption
}

// Option function to configure the client.
type Option func(*options)

// Driver sets the driver for the client.
func Driver(driver dialect.Driver) Option {
	return func(o *options) {
		o.driver = driver
	}
}

// Registry sets the fetcher registry used to resolve relations.
func Registry(r *sqlgraph.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// Log sets the logger used in debug mode and by slow query logging.
func Log(logger *slog.Logger) Option {
	return func(o *options) {
		o.log = logger
	}
}

// Debug enables statement logging on the client.
func Debug() Option {
	return func(o *options) {
		o.debug = true
	}
}

// WithObserver adds observers called around every builder invocation.
func WithObserver(obs ...relq.Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs...)
	}
}

// WithStats collects statement statistics, see Client.Stats.
func WithStats(opts ...sql.StatsOption) Option {
	return func(o *options) {
		o.stats = true
		o.statsOpts = append(o.statsOpts, opts...)
	}
}

// New creates a new client configured with the given options. A driver
// option is required.
func New(opts ...Option) (*Client, error) {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.driver == nil {
		return nil, errors.New("relq: client requires a driver")
	}
	if o.registry == nil {
		o.registry = sqlgraph.NewRegistry()
	}
	c := &Client{}
	drv := o.driver
	if o.stats {
		c.stats = sql.NewStatsDriver(drv, append([]sql.StatsOption{sql.WithSlowQueryLog(o.log)}, o.statsOpts...)...)
		drv = c.stats
	}
	if o.debug {
		drv = sql.NewDebugDriver(drv, o.log)
	}
	c.cfg = &sqlgraph.Config{Driver: drv, Registry: o.registry, Observers: o.observers}
	return c, nil
}

// Open opens a database connection and returns the client.
func Open(driverName, dataSourceName string, opts ...Option) (*Client, error) {
	drv, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	switch drv.Dialect() {
	case dialect.SQLite, dialect.MySQL, dialect.Postgres:
	default:
		drv.Close()
		return nil, fmt.Errorf("relq: unsupported driver: %q", driverName)
	}
	return New(append(opts, Driver(drv))...)
}

// Close closes the database connection and prevents new queries from starting.
func (c *Client) Close() error {
	return c.cfg.Driver.Close()
}

// Driver returns the driver builders run on, including the stats and debug
// wrappers.
func (c *Client) Driver() dialect.Driver {
	return c.cfg.Driver
}

// Config returns the engine configuration shared by all builders.
func (c *Client) Config() *sqlgraph.Config {
	return c.cfg
}

// Stats returns the collected statement statistics, or nil when the client
// was created without WithStats.
func (c *Client) Stats() *sql.QueryStats {
	if c.stats == nil {
		return nil
	}
	return c.stats.Stats()
}

// Batch runs ops in order inside one transaction. See sqlgraph.Batch.
// Inside WithTx it fails with relq.ErrTxStarted; run the ops on the
// transaction instead.
func (c *Client) Batch(ctx context.Context, ops ...sqlgraph.Op) ([]any, error) {
	if inTx(ctx) {
		return nil, relq.ErrTxStarted
	}
	return sqlgraph.Batch(ctx, c.cfg.Driver, ops...)
}

// txKey marks the context passed to a WithTx function.
type txKey struct{}

func inTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise. A panic in fn rolls the transaction
// back and is re-raised. Calling WithTx or Batch again with the context fn
// receives fails with relq.ErrTxStarted.
//
//	err := client.WithTx(ctx, c, func(ctx context.Context, tx dialect.Tx) error {
//		u, err := users.Create(d).ExecTx(ctx, tx)
//		if err != nil {
//			return err
//		}
//		_, err = posts.Create(p).Set("author_id", u.ID).ExecTx(ctx, tx)
//		return err
//	})
func WithTx(ctx context.Context, c *Client, fn func(ctx context.Context, tx dialect.Tx) error) error {
	if inTx(ctx) {
		return relq.ErrTxStarted
	}
	tx, err := c.cfg.Driver.Tx(ctx)
	if err != nil {
		return fmt.Errorf("relq: starting a transaction: %w", err)
	}
	defer func() {
		if v := recover(); v != nil {
			tx.Rollback()
			panic(v)
		}
	}()
	if err := fn(context.WithValue(ctx, txKey{}, tx), tx); err != nil {
		return sqlgraph.Rollback(tx, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("relq: committing transaction: %w", err)
	}
	return nil
}
