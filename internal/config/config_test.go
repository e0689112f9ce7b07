package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())

	astarOpts, err := cfg.Search.AStarOptions()
	require.NoError(t, err)
	assert.Len(t, astarOpts, 3)

	aoOpts, err := cfg.Search.AOStarOptions()
	require.NoError(t, err)
	assert.Len(t, aoOpts, 1)
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvMaxExpansions, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
log:
  level: debug
search:
  tieBreak: higher-g
  maxExpansions: 100
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "*", cfg.Server.CORSOrigin)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "higher-g", cfg.Search.TieBreak)
	assert.Equal(t, "astar", cfg.Search.Strategy)
	assert.Equal(t, 100, cfg.Search.MaxExpansions)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown field", content: "server:\n  port: 80\n"},
		{name: "bad level", content: "log:\n  level: loud\n"},
		{name: "bad strategy", content: "search:\n  strategy: dfs\n"},
		{name: "negative expansions", content: "search:\n  maxExpansions: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAddr:          "127.0.0.1:7000",
		EnvLogLevel:      "WARN",
		EnvMaxExpansions: "25",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 25, cfg.Search.MaxExpansions)

	env[EnvMaxExpansions] = "many"
	assert.ErrorIs(t, DefaultConfig().applyEnv(lookup), ErrInvalidConfig)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Log.Format = "json"

	cfg.NewLogger(&buf).Info("hello", slog.String("k", "v"))
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}
