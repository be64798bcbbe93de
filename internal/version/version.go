package version

// Build information set by the release build:
//
//	-X patchcheck/internal/version.Version=...
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
