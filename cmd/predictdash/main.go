// cmd/predictdash/main.go
package main

import (
	predictdash "github.com/mwiater/predictdash/internal/commands"
)

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = predictdash.SetVersionInfo
	executeCmd     = predictdash.Execute
)

// main injects the build information and hands control to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
