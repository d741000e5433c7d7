// Package cli wires the update engine into a command line tool for applying
// matched-field removals to JSON documents and replaying their oplog records.
package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "Log apply-cycle diagnostics to stderr.",
}

var quietFlag = &cli.BoolFlag{
	Name:  "quiet",
	Usage: "Suppress all diagnostic output.",
}

// App returns the root command of the quill tool.
func App(version, dateBuilt string) *cli.App {
	return &cli.App{
		Name:    "quill",
		Usage:   "Remove matching fields from JSON documents, with replayable change records",
		Version: fmt.Sprintf("%v (built %v)", version, dateBuilt),
		Commands: []*cli.Command{
			applyCli(),
			replayCli(),
		},
	}
}
