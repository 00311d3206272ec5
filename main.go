package main

import (
	"os"

	"github.com/mrlokans/authcore/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := cli.NewRootCmd(Version + " (" + Commit + ")").Execute(); err != nil {
		os.Exit(1)
	}
}
