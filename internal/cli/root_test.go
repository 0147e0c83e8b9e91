package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	cmd.SetContext(t.Context())
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sortviz", cmd.Use)
	assert.Contains(t, cmd.Long, "five algorithms")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"run", "animate", "bench", "history", "scenario"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, _, err := execute(t, "--format", "invalid", "run", "quick")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConfigLoading(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "run", "quick")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("invalid value", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sortviz.yaml")
		require.NoError(t, os.WriteFile(path, []byte("default_size: -4\n"), 0644))

		_, _, err := execute(t, "--config", path, "run", "quick")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})

	t.Run("default size from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sortviz.yaml")
		require.NoError(t, os.WriteFile(path, []byte("default_size: 9\nseed: 3\n"), 0644))

		stdout, _, err := execute(t, "--config", path, "run", "heap")
		require.NoError(t, err)
		assert.Contains(t, stdout, "heap: sorted 9 elements")
	})
}

func TestVerboseLogsToStderr(t *testing.T) {
	_, stderr, err := execute(t, "-v", "run", "merge", "--size", "4")
	require.NoError(t, err)
	assert.Contains(t, stderr, "sort run finished")
	assert.Contains(t, stderr, "level=DEBUG")
}

func TestSubcommandWithoutRoot(t *testing.T) {
	// Subcommands fall back to defaults when the root pre-run did not happen.
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"insertion"})
	cmd.SetContext(t.Context())

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "insertion: sorted 128 elements")
}
