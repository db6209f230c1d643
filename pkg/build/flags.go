// SPDX-License-Identifier: MIT

// Package build exposes metadata injected at compile time via -ldflags.
// Development builds fall back to placeholder values.
package build

// Populated by the linker, e.g.
//
//	go build -ldflags "-X freqdetect/pkg/build.version=v1.2.0"
var (
	name    string
	version string
	commit  string
	date    string
)

// Info holds the build metadata for the running binary.
type Info struct {
	Name    string
	Version string
	Commit  string
	Date    string
}

// Get returns the build metadata, substituting development defaults for
// any field the linker did not set.
func Get() Info {
	info := Info{
		Name:    name,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	if info.Name == "" {
		info.Name = "freqdetect"
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}
