package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONLUnderStateHome(t *testing.T) {
	stateHome := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateHome)

	rt, err := New(false)
	require.NoError(t, err)
	defer func() { _ = rt.Close() }()

	require.Equal(t, filepath.Join(stateHome, "pytron", "log.jsonl"), rt.Path)

	rt.Logger.Info("hello", "key", "value")
	require.NoError(t, rt.Close())

	data, err := os.ReadFile(rt.Path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"hello"`)
	require.Contains(t, string(data), `"key":"value"`)
}

func TestNewFallsBackToHomeState(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", home)

	rt, err := New(false)
	require.NoError(t, err)
	defer func() { _ = rt.Close() }()

	require.Equal(t, filepath.Join(home, ".local", "state", "pytron", "log.jsonl"), rt.Path)
}

func TestDebugLevelEnablesDebugRecords(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	rt, err := New(false)
	require.NoError(t, err)
	rt.Logger.Debug("quiet")
	require.NoError(t, rt.Close())

	data, err := os.ReadFile(rt.Path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "quiet")

	rtDebug, err := New(true)
	require.NoError(t, err)
	rtDebug.Logger.Debug("loud")
	require.NoError(t, rtDebug.Close())

	data, err = os.ReadFile(rtDebug.Path)
	require.NoError(t, err)
	require.Contains(t, string(data), "loud")
}

func TestCloseWithoutSinkIsNil(t *testing.T) {
	require.NoError(t, Runtime{}.Close())
}
