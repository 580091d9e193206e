package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsPrecedence(t *testing.T) {
	t.Setenv("RUNYX_HOST", "10.0.0.1")
	t.Setenv("RUNYX_HTTP_PORT", "6001")
	t.Setenv("RUNYX_WS_PORT", "6002")

	path := filepath.Join(t.TempDir(), "runyx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bridge:\n  http_port: 7001\n  ws_port: 7002\n"), 0o644))

	cmd := newBridgeCmd()
	cmd.Flags().AddFlagSet(newRootCmd().PersistentFlags())
	require.NoError(t, cmd.Flags().Parse([]string{"--config", path, "--ws-port", "8002", "--websocket=false"}))

	cfg, err := loadSettings(cmd)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1", cfg.Bridge.Host, "env")
	assert.Equal(t, 7001, cfg.Bridge.HTTPPort, "file over env")
	assert.Equal(t, 8002, cfg.Bridge.WSPort, "flag over file")
	assert.False(t, cfg.Bridge.WebSocket)
	assert.True(t, cfg.Bridge.Requests, "unchanged flag keeps the env default")
}

func TestLoadSettingsBadFile(t *testing.T) {
	cmd := newBridgeCmd()
	cmd.Flags().AddFlagSet(newRootCmd().PersistentFlags())
	require.NoError(t, cmd.Flags().Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.toml")}))

	_, err := loadSettings(cmd)
	assert.Error(t, err)
}

func TestRunFlagsIgnoredByBridge(t *testing.T) {
	cmd := newBridgeCmd()
	cmd.Flags().AddFlagSet(newRootCmd().PersistentFlags())
	require.NoError(t, cmd.Flags().Parse(nil))

	cfg, err := loadSettings(cmd)
	require.NoError(t, err)
	assert.Empty(t, cfg.App.ExtensionPath)
	assert.True(t, cfg.App.KeepAlive)
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "runyx dev\n", out.String())
}

func TestSendRequiresMessage(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"send"})

	assert.Error(t, root.Execute())
}
