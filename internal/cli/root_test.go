package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestRootCmd_RejectsOversizedBatch(t *testing.T) {
	err := execute(t, "--batch-size", "5000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch size must be between 1 and 1638")
}

func TestRootCmd_RejectsZeroBatch(t *testing.T) {
	err := execute(t, "-b", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch size must be between")
}

func TestRootCmd_RejectsPositionalArgs(t *testing.T) {
	assert.Error(t, execute(t, "data"))
}

func TestRootCmd_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("BATCH_SIZE", "")

	err := execute(t, "--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()

	for _, name := range []string{"data-dir", "batch-size", "ensure-schema", "verbose"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "true", cmd.Flags().Lookup("ensure-schema").DefValue)
}
