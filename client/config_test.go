package client_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relq/client"
	"github.com/syssam/relq/internal/blog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
dialect: sqlite
dsn: file::memory:?_pragma=foreign_keys(1)
debug: true
slow_threshold: 250ms
`)
	cfg, err := client.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, dsn, cfg.DSN)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowThreshold)
	assert.Len(t, cfg.Options(), 2)
}

func TestLoadConfig_Env(t *testing.T) {
	path := writeConfig(t, "dialect: postgres\ndsn: postgres://localhost/blog\n")
	t.Setenv(client.EnvDialect, "sqlite")
	t.Setenv(client.EnvDSN, dsn)
	t.Setenv(client.EnvDebug, "true")
	t.Setenv(client.EnvSlowThreshold, "1s")

	cfg, err := client.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, dsn, cfg.DSN)
	assert.True(t, cfg.Debug)
	assert.Equal(t, time.Second, cfg.SlowThreshold)

	t.Run("EnvOnly", func(t *testing.T) {
		cfg, err := client.LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Dialect)
	})
	t.Run("InvalidDebug", func(t *testing.T) {
		t.Setenv(client.EnvDebug, "sometimes")
		_, err := client.LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), client.EnvDebug)
	})
	t.Run("InvalidThreshold", func(t *testing.T) {
		t.Setenv(client.EnvSlowThreshold, "fast")
		_, err := client.LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), client.EnvSlowThreshold)
	})
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := client.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = client.LoadConfig(writeConfig(t, "dialect: [sqlite"))
	require.Error(t, err)

	_, err = client.LoadConfig(writeConfig(t, "dsn: x\n"))
	require.EqualError(t, err, "relq: config: dialect is required")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     client.Config
		wantErr string
	}{
		{name: "Valid", cfg: client.Config{Dialect: "sqlite", DSN: dsn}},
		{name: "NoDialect", cfg: client.Config{DSN: dsn}, wantErr: "dialect is required"},
		{name: "NoDSN", cfg: client.Config{Dialect: "sqlite"}, wantErr: "dsn is required"},
		{name: "NegativeThreshold", cfg: client.Config{Dialect: "sqlite", DSN: dsn, SlowThreshold: -time.Second}, wantErr: "slow_threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpenConfig(t *testing.T) {
	ctx := context.Background()
	cfg := &client.Config{
		Dialect:       "sqlite",
		DSN:           "file:" + filepath.Join(t.TempDir(), "blog.db") + "?_pragma=foreign_keys(1)",
		SlowThreshold: time.Hour,
	}
	c, err := client.OpenConfig(cfg, client.Registry(blog.Registry()))
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, blog.CreateTables(ctx, c.Driver()))
	_, err = blog.Users(c).Create(user("a8m")).Exec(ctx)
	require.NoError(t, err)
	require.NotNil(t, c.Stats())
	assert.Zero(t, c.Stats().Snapshot().Slow)

	_, err = client.OpenConfig(&client.Config{Dialect: "sqlite"})
	require.Error(t, err)
}
