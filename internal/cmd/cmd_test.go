package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_InitAndValidate(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("presets:\n  file: presets.yaml\n"), 0o644))

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(io.Discard)

	RootCmd.SetArgs([]string{"--config", configPath, "init"})
	require.NoError(t, RootCmd.Execute())
	assert.Equal(t, "default presets written to "+filepath.Join(dir, "presets.yaml")+"\n", out.String())
	assert.FileExists(t, filepath.Join(dir, "presets.yaml"))

	out.Reset()
	RootCmd.SetArgs([]string{"--config", configPath, "init"})
	assert.Error(t, RootCmd.Execute())

	out.Reset()
	RootCmd.SetArgs([]string{"--config", configPath, "validate", "--json"})
	require.NoError(t, RootCmd.Execute())
	assert.Contains(t, out.String(), `{"name":"myRoomPreset2","scope":"room","modifiers":4}`)
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	l := newLogger(&out, false, "json")
	l.Debug("debug")
	l.Info("info")
	assert.NotContains(t, out.String(), `"msg":"debug"`)
	assert.Contains(t, out.String(), `"msg":"info"`)

	out.Reset()
	l = newLogger(&out, true, "text")
	l.Debug("debug")
	assert.Contains(t, out.String(), "level=DEBUG msg=debug")
}
