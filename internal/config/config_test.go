package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, ":12345", cfg.Addr)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "chat_history.log", cfg.HistoryPath)
}

func TestUpdateFromSkipsZeroValues(t *testing.T) {
	req := require.New(t)

	cfg := Default()
	cfg.UpdateFrom(Config{Addr: ":9000"})
	req.Equal(":9000", cfg.Addr)
	req.Equal("info", cfg.LogLevel)
	req.Equal("chat_history.log", cfg.HistoryPath)
}

func TestLoadWritesDefaultConfig(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, resolved, err := Load(nil, path)
	req.NoError(err)
	req.Equal(path, resolved)
	req.Equal(Default(), cfg)

	// The default file was materialized for the next run.
	_, err = os.Stat(path)
	req.NoError(err)
}

func TestLoadReadsConfigFile(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	req.NoError(os.WriteFile(path, []byte("addr: \":7777\"\nlog_level: debug\n"), 0o600))

	cfg, _, err := Load(nil, path)
	req.NoError(err)
	req.Equal(":7777", cfg.Addr)
	req.Equal("debug", cfg.LogLevel)
	req.Equal("chat_history.log", cfg.HistoryPath)
}
