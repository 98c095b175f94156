package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofwtools/ofwmock/pkg/config"
)

// newTestCmd builds a throwaway command with a fresh serve flag set.
func newTestCmd(f *serveFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addServeFlags(cmd.Flags(), f)
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	// Blank values are ignored by the env overlay; this shields the test
	// from whatever the host environment has set.
	t.Setenv(config.EnvPort, "")
	t.Setenv(config.EnvDataDir, "")
	t.Setenv(config.EnvAuthToken, "")
	t.Setenv(config.EnvStrictAuth, "")

	var f serveFlags
	cmd := newTestCmd(&f)
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := resolveConfig(cmd, &f)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDataDir, cfg.DataDir)
	assert.Equal(t, config.DefaultPort, cfg.Port)
	assert.False(t, cfg.StrictAuth)
}

func TestResolveConfigFlagBeatsEnv(t *testing.T) {
	t.Setenv(config.EnvPort, "6000")
	t.Setenv(config.EnvDataDir, "/from/env")

	var f serveFlags
	cmd := newTestCmd(&f)
	require.NoError(t, cmd.ParseFlags([]string{"--port", "7000"}))

	cfg, err := resolveConfig(cmd, &f)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port, "flag should win over env")
	assert.Equal(t, "/from/env", cfg.DataDir, "env applies where no flag is set")
}

func TestResolveConfigEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ofwmock.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: 9000\ndataDir: /from/file\n"), 0o644))

	t.Setenv(config.EnvPort, "6000")

	var f serveFlags
	cmd := newTestCmd(&f)
	require.NoError(t, cmd.ParseFlags([]string{"--config", file}))

	cfg, err := resolveConfig(cmd, &f)
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Port, "env should win over config file")
	assert.Equal(t, "/from/file", cfg.DataDir, "file applies where no env is set")
}

func TestResolveConfigMissingFile(t *testing.T) {
	var f serveFlags
	cmd := newTestCmd(&f)
	require.NoError(t, cmd.ParseFlags([]string{"--config", "/does/not/exist.yaml"}))

	_, err := resolveConfig(cmd, &f)
	assert.ErrorIs(t, err, config.ErrFileNotFound)
}

func TestResolveConfigRejectsInvalid(t *testing.T) {
	var f serveFlags
	cmd := newTestCmd(&f)
	require.NoError(t, cmd.ParseFlags([]string{"--port", "0"}))

	_, err := resolveConfig(cmd, &f)
	assert.Error(t, err)
}

func TestResolveConfigCORSOrigins(t *testing.T) {
	var f serveFlags
	cmd := newTestCmd(&f)
	require.NoError(t, cmd.ParseFlags([]string{"--cors-origins", "http://a.test, http://b.test ,"}))

	cfg, err := resolveConfig(cmd, &f)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestSplitOrigins(t *testing.T) {
	assert.Nil(t, splitOrigins(""))
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t, []string{"a", "b"}, splitOrigins("a,b"))
}
