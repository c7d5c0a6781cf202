package version

import "runtime"

// Version information, set with -ldflags "-X" at build time
var (
	Version    = "0.3.0-dev"
	BuildDate  = "undefined"
	CommitHash = "undefined"
)

// VersionInfo returns formatted version information
func VersionInfo() string {
	return "joblog version " + Version + " (build: " + BuildDate + ", commit: " + CommitHash + ", " + runtime.Version() + ")"
}
