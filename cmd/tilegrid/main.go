// Command tilegrid tiles container logs, metrics and other live feeds into
// a paginated terminal grid.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Version info - set via ldflags at build time
// go build -ldflags "-X main.Version=v1.0.0 -X main.CommitHash=$(git rev-parse --short HEAD)"
var (
	Version    = "dev"
	CommitHash = "unknown"
)

func main() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
