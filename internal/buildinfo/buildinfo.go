// Package buildinfo carries the version stamped in with -ldflags
// "-X grapher/internal/buildinfo.Version=...".
package buildinfo

import "runtime/debug"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for the window title and logs.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if c := commit(); c != "" && c != "unknown" {
		if len(c) > 12 {
			c = c[:12]
		}
		return c
	}
	return "dev"
}

// Long returns version, commit and build date for -version.
func Long() string {
	return Version + " (commit " + commit() + ", built " + Date + ")"
}

// commit falls back to the VCS revision the go tool embeds when -ldflags did not set one.
func commit() string {
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return Commit
}
