// Package version exposes build metadata set through -ldflags.
package version

//nolint:gochecknoglobals // Set at build time via -ldflags "-X".
var (
	version   = "dev"
	gitCommit = ""
	buildDate = ""
)

// GetVersion returns the release version, "dev" for local builds.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from, if recorded.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp, if recorded.
func GetBuildDate() string {
	return buildDate
}
