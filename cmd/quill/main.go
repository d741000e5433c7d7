package main

import (
	"fmt"
	"os"

	"github.com/quilldb/quill/internal/cli"
)

var (
	// Version and DateBuilt are set at build time via ldflags.
	Version   = "unknown"
	DateBuilt = "unknown"
)

func main() {
	if err := cli.App(Version, DateBuilt).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
