package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bqchain/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "bqchain", cmd.Use)
	assert.Contains(t, cmd.Long, "legacy SQL")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"render", "run", "functions"}

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
	assert.Equal(t, "c", configFlag.Shorthand)

	indentFlag := cmd.PersistentFlags().Lookup("indent")
	require.NotNil(t, indentFlag)
	assert.Equal(t, "-1", indentFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("flat"))
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	for _, name := range []string{"sqlite", "project", "location", "label", "max-bytes-billed", "dry-run", "timeout"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), "run should have --%s", name)
	}
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "functions"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestClientConfig(t *testing.T) {
	path := writeFile(t, "fmt.yaml", "indent_size: 4\n")

	tests := []struct {
		name       string
		opts       RootOptions
		wantIndent int
		wantFlat   bool
		wantErr    bool
	}{
		{"defaults", RootOptions{Indent: -1}, 2, false, false},
		{"file", RootOptions{ConfigPath: path, Indent: -1}, 4, false, false},
		{"indent overrides file", RootOptions{ConfigPath: path, Indent: 0}, 0, false, false},
		{"flat", RootOptions{Indent: -1, Flat: true}, 2, true, false},
		{"out of range", RootOptions{Indent: 99}, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.opts.clientConfig()
			if tt.wantErr {
				var cerr *config.Error
				assert.ErrorAs(t, err, &cerr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIndent, cfg.IndentSize)
			assert.Equal(t, tt.wantFlat, cfg.Flat())
		})
	}
}
