// Package version exposes the luna build metadata stamped at link time.
package version

//nolint:revive // Stamped by the release build via -ldflags -X.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
