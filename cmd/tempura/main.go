// Command tempura creates projects from templates.
package main

import "github.com/nihi-lo/tempura/internal/cli"

// Set via -ldflags "-X main.version=...".
var (
	version = "0.2.0"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	cli.Execute()
}
