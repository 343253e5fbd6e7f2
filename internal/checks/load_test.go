package checks_test

import (
	"path/filepath"
	"testing"

	"github.com/dcos/checkjob/internal/checks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTargets_Default(t *testing.T) {
	targets, err := checks.LoadTargets("")
	require.NoError(t, err)
	assert.Equal(t, checks.DefaultTargets(), targets)
}

func TestLoadTargets_TOML(t *testing.T) {
	targets, err := checks.LoadTargets(filepath.Join("testdata", "targets.toml"))
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "components", targets[0].Subcommand)
	assert.Empty(t, targets[0].Args)
	assert.Equal(t, "executable", targets[1].Subcommand)
	assert.Equal(t, []string{"--timeout", "10s"}, targets[1].Args)
}

func TestLoadTargets_YAML(t *testing.T) {
	targets, err := checks.LoadTargets(filepath.Join("testdata", "targets.yaml"))
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "journald", targets[1].Subcommand)
	assert.Equal(t, []string{"--verbose"}, targets[1].Args)
}

func TestLoadTargets_Errors(t *testing.T) {
	_, err := checks.LoadTargets(filepath.Join("testdata", "missing.toml"))
	require.Error(t, err)

	_, err = checks.LoadTargets(filepath.Join("testdata", "empty.toml"))
	require.Error(t, err)
}
