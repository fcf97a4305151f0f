// cmd/scamlens/main.go
package main

import (
	cmd "github.com/mwiater/scamlens/internal/cli"
)

// Set by -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
)

var (
	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main starts the scamlens CLI by delegating to the cobra root command.
func main() {
	setVersionInfo(version, commit)
	executeCmd()
}
