package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PYTRON_CONFIG", "")
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "Pytron", cfg.Window.Title)
	require.Equal(t, 800, cfg.Window.Width)
	require.Equal(t, 600, cfg.Window.Height)
	require.True(t, cfg.Window.Resizable)
	require.False(t, cfg.Window.Frameless)
	require.False(t, cfg.Window.Debug)
	require.Equal(t, ".", cfg.App.Root)
	require.Empty(t, cfg.App.URL)
	require.Equal(t, EngineChrome, cfg.App.Engine)
	require.Equal(t, uint32(16<<20), cfg.IPC.MaxFrameBytes)
	require.Equal(t, 120_000, cfg.Bridge.PendingTTLMS)
	require.Empty(t, cfg.Chrome.Binary)
}

func TestLoadFromConfigFile(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[window]
title = "My App"
width = 1280
height = 720
frameless = true

[app]
root = "/srv/myapp"
engine = "native"

[ipc]
max_frame_bytes = 1048576

[bridge]
pending_ttl_ms = 30000
`), 0o600))
	t.Setenv("PYTRON_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "My App", cfg.Window.Title)
	require.Equal(t, 1280, cfg.Window.Width)
	require.Equal(t, 720, cfg.Window.Height)
	require.True(t, cfg.Window.Frameless)
	require.Equal(t, "/srv/myapp", cfg.App.Root)
	require.Equal(t, EngineNative, cfg.App.Engine)
	require.Equal(t, uint32(1<<20), cfg.IPC.MaxFrameBytes)
	require.Equal(t, 30_000, cfg.Bridge.PendingTTLMS)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PYTRON_WINDOW_TITLE", "From Env")
	t.Setenv("PYTRON_APP_ENGINE", "native")
	t.Setenv("PYTRON_CHROME_BINARY", "/opt/shell/electron")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "From Env", cfg.Window.Title)
	require.Equal(t, EngineNative, cfg.App.Engine)
	require.Equal(t, "/opt/shell/electron", cfg.Chrome.Binary)
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PYTRON_APP_ENGINE", "flash")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "app.engine")
}

func TestLoadRejectsNonPositiveDimensions(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PYTRON_WINDOW_WIDTH", "0")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "window dimensions")
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PYTRON_BRIDGE_PENDING_TTL_MS", "0")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "pending_ttl_ms")
}
