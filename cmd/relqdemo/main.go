// Command relqdemo runs the blog flows against a database.
//
//	go run ./cmd/relqdemo
//	go run ./cmd/relqdemo -config relq.yaml
//	RELQ_DIALECT=postgres RELQ_DSN="postgres://..." go run ./cmd/relqdemo -v
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/relq/client"
	relqotel "github.com/syssam/relq/contrib/otel"
	"github.com/syssam/relq/internal/blog"
)

func main() {
	var (
		path    = flag.String("config", "", "path to a YAML configuration file")
		verbose = flag.Bool("v", false, "log every builder invocation")
		trace   = flag.Bool("trace", false, "report builder invocations as OpenTelemetry spans")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if err := run(context.Background(), logger, *path, *trace); err != nil {
		logger.Error("relqdemo failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, path string, trace bool) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	opts := []client.Option{
		client.Registry(blog.Registry()),
		client.Log(logger),
		client.WithObserver(client.LogObserver(logger)),
	}
	if trace {
		opts = append(opts, client.WithObserver(relqotel.Observer(nil)))
	}
	c, err := client.OpenConfig(cfg, opts...)
	if err != nil {
		return err
	}
	defer c.Close()
	if err := blog.CreateTables(ctx, c.Driver()); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	logger.Info("database ready", "dialect", cfg.Dialect)

	if err := seed(ctx, c); err != nil {
		return err
	}
	if err := report(ctx, c); err != nil {
		return err
	}
	if s := c.Stats(); s != nil {
		logger.Info("statement stats", "stats", s.Snapshot().String())
	}
	return nil
}

// loadConfig falls back to an in-memory sqlite database when neither a file
// nor the environment names one.
func loadConfig(path string) (*client.Config, error) {
	if path == "" {
		if _, ok := os.LookupEnv(client.EnvDialect); !ok {
			os.Setenv(client.EnvDialect, "sqlite")
			if _, ok := os.LookupEnv(client.EnvDSN); !ok {
				os.Setenv(client.EnvDSN, "file:relqdemo?mode=memory&cache=shared&_pragma=foreign_keys(1)")
			}
		}
	}
	return client.LoadConfig(path)
}
