// Command entitygraph merges entity graph documents into an in-memory store
// and runs conformance scenarios against it.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/entitygraph/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "entitygraph:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
