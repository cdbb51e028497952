// Package version carries build identifiers stamped in with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/banshee-data/mirror/internal/version.Version=v0.3.0" ./cmd/mirrorctl
package version

import "fmt"

var (
	// Version is the release tag
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the identifiers for a version banner.
func String() string {
	return fmt.Sprintf("%s (%s, built %s)", Version, GitSHA, BuildTime)
}
