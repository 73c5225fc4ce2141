// Package version exposes build metadata injected at link time:
//
//	go build -ldflags "-X moviegate/internal/version.Version=v1.2.3 -X moviegate/internal/version.Commit=$(git rev-parse --short HEAD) -X moviegate/internal/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a single-line description of the build.
func Info() string {
	return fmt.Sprintf("moviegate %s (commit %s, built %s)", Version, Commit, Date)
}
