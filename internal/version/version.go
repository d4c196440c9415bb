// Package version exposes build metadata injected at link time.
package version

// Set via -ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String returns the version with commit and date for logs.
func String() string {
	return Version + " (" + GitCommit + ", " + BuildDate + ")"
}
