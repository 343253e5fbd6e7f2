package localsched_test

import (
	"context"
	"testing"
	"time"

	"github.com/dcos/checkjob/internal/localsched"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunShell_Success(t *testing.T) {
	res, err := localsched.RunShell(context.Background(), "echo out; echo err >&2")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, string(res.Output), "out")
	assert.Contains(t, string(res.Output), "err")
}

func TestRunShell_NonZeroExit(t *testing.T) {
	res, err := localsched.RunShell(context.Background(), "true && exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunShell_AndChainStopsOnFailure(t *testing.T) {
	res, err := localsched.RunShell(context.Background(), "echo one && false && echo two")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, string(res.Output), "one")
	assert.NotContains(t, string(res.Output), "two")
}

func TestRunShell_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := localsched.RunShell(ctx, "sleep 5")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
