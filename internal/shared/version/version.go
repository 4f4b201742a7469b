// Package version reports the build version of the service.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Set via -ldflags "-X github.com/savedeities/contribute/internal/shared/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info is the build information exposed by /health and the version command.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	Release   bool   `json:"release"`
}

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// IsRelease reports whether v is a valid semantic version without a
// prerelease suffix.
func IsRelease(v string) bool {
	n := Normalize(v)
	return semver.IsValid(n) && semver.Prerelease(n) == ""
}

// Current returns the running build's information.
func Current() Info {
	v := Version
	if semver.IsValid(Normalize(v)) {
		v = semver.Canonical(Normalize(v))
	}
	return Info{
		Version:   v,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		Release:   IsRelease(Version),
	}
}
