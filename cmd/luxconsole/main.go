// Luxconsole - administration console for the app's content repository and
// user database.
package main

import (
	"os"

	"github.com/ifor-lux/luxconsole/internal/cli"
	"github.com/ifor-lux/luxconsole/internal/version"
)

// Version information - overridden at release time via
// -ldflags "-X main.Version=... -X main.BuildTime=...".
var (
	Version   = "v0.3.0-dev"
	BuildTime = "unknown"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
