// Command sawplan derives, plays back and exports guillotine cut sequences.
package main

import (
	"github.com/piwi3910/SawPlan/internal/cli"
)

// Set by the release build via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
