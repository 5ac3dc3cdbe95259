package main

import (
	"os"
	"runtime/debug"

	"github.com/bfv/tablemigrate/cmd/migrate/commands"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// If not set (e.g., via go install), it will be determined from build info.
var version = "dev"

func init() {
	// If version is still "dev", try to get it from build info (for go install)
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
}

func main() {
	app := commands.NewApp()
	app.Version = version
	os.Exit(app.Execute(os.Args[1:]))
}
