// Package version holds build metadata injected via ldflags:
//
//	-ldflags "-X .../internal/version.Version=v1.2.3 ..."
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata as a single human-readable line.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
