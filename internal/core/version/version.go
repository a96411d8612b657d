// Package version provides information about the build version of the service.
package version

import "runtime/debug"

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for the named binary.
// Set via -ldflags "-X 'ipvault/internal/core/version.version=v0.1.0'
// -X 'ipvault/internal/core/version.commit=abcd' -X 'ipvault/internal/core/version.date=2026-01-02'"
// When ldflags are absent the commit falls back to the vcs stamp of the module build.
func Info(service string) BuildInfo {
	c := commit
	if c == "none" {
		c = vcsRevision()
	}
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  c,
		Date:    date,
	}
}

// UserAgent is the outbound User-Agent for gateway calls
func UserAgent() string { return "ipvault/" + version }

func vcsRevision() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return "none"
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
