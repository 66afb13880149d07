package version

// Build metadata injected via ldflags
var (
	// Version is set via -ldflags "-X catalog/version.Version=x.x.x"
	Version = "0.1.0"

	// CommitHash is set via -ldflags "-X catalog/version.CommitHash=xxx"
	CommitHash = "unknown"

	// BuildTime is set via -ldflags "-X catalog/version.BuildTime=xxx"
	BuildTime = "unknown"
)

// GetFullVersion returns the version including the short commit hash when known.
func GetFullVersion() string {
	if CommitHash == "unknown" || len(CommitHash) < 7 {
		return Version
	}
	return Version + " (" + CommitHash[:7] + ")"
}

// GetBuildInfo returns build metadata for --version.
func GetBuildInfo() string {
	return "Central Celulares catalog " + Version + "\nCommit: " + CommitHash + "\nBuild Time: " + BuildTime
}
