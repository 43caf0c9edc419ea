// Package version exposes build metadata stamped in by release ldflags:
//
//	go build -ldflags "-X github.com/lootworks/floorsync/internal/version.Version=1.0.0 \
//	                   -X github.com/lootworks/floorsync/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/lootworks/floorsync/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the short git revision.
	Commit = "unknown"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)

// String renders the build metadata as one log-friendly value.
func String() string {
	return fmt.Sprintf("%s (%s) built %s", Version, Commit, BuildTime)
}
