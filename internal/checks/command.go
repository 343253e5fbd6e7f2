package checks

import (
	"fmt"
	"strings"
)

const (
	// BinaryPath is where DC/OS installs the checks binary on every node.
	BinaryPath = "/opt/mesosphere/bin/dcos-checks"
	// Role restricts the checks to agent nodes.
	Role = "agent"

	commandTemplate = BinaryPath + " --role " + Role + " %s %s"
	andConnective   = " && "
)

// Target is a dcos-checks subcommand along with its optional arguments.
type Target struct {
	Subcommand string   `toml:"subcommand" yaml:"subcommand"`
	Args       []string `toml:"args" yaml:"args"`
}

// DefaultTargets is the table submitted when no targets file is given.
func DefaultTargets() []Target {
	return []Target{
		{Subcommand: "components"},
	}
}

// BuildCommands formats one shell command per target, in table order.
// Names and arguments are not validated; a bad entry fails when the job runs.
func BuildCommands(targets []Target) []string {
	cmds := make([]string, 0, len(targets))
	for _, t := range targets {
		cmds = append(cmds, fmt.Sprintf(commandTemplate, t.Subcommand, strings.Join(t.Args, " ")))
	}
	return cmds
}

// Join chains commands so that the job fails as soon as any of them fails.
func Join(cmds []string) string {
	return strings.Join(cmds, andConnective)
}

// BuildCommand is BuildCommands followed by Join.
func BuildCommand(targets []Target) string {
	return Join(BuildCommands(targets))
}
