// Command rmgctl is the command-line companion of the rmgweb site.
package main

import (
	"github.com/turtacn/rmgweb/internal/app"
	"github.com/turtacn/rmgweb/internal/interfaces/cli"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	// Build-time variables live in the app package so both binaries report them.
	app.Version = version
	app.GitCommit = commit
	app.BuildDate = buildDate
}

func main() {
	cli.Main()
}

//Personal.AI order the ending
