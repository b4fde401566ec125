package config

// Build information, set through -ldflags at release time
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// SetBuildFlags records the build information
func SetBuildFlags(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
}
