// Package version reports the version of the program. The version number is
// set by the linker for release builds. Other builds report the VCS revision
// recorded by the Go toolchain.
package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is used in window titles and the -version output
const ApplicationName = "acpmix"

// set by the linker with -X for release builds
var number string

var (
	version  string
	revision string
)

// Version returns the version string, the revision string and whether this is
// a numbered release.
//
// The version is "unreleased" for builds that have VCS information but no
// number and "local" for builds that have neither, such as "go run ."
func Version() (string, string, bool) {
	return version, revision, number != "" && version == number
}

// Title returns a string that can be used in a window title. Releases show
// the version number and other builds show the revision.
func Title() string {
	ver, rev, rel := Version()
	if rel {
		return fmt.Sprintf("%s (%s)", ApplicationName, ver)
	}
	return fmt.Sprintf("%s (%s)", ApplicationName, rev)
}

type buildInfo struct {
	vcs      bool
	revision string
	modified bool
}

func readBuildInfo() buildInfo {
	var b buildInfo
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs":
			b.vcs = true
		case "vcs.revision":
			b.revision = s.Value
		case "vcs.modified":
			b.modified = s.Value == "true"
		}
	}
	return b
}

// decide the version and revision strings from the linker supplied number
// and the build information
func describe(number string, b buildInfo) (string, string) {
	rev := "no revision information"
	if b.revision != "" {
		rev = b.revision
		if b.modified {
			rev += "+dirty"
		}
	}

	switch {
	case number != "":
		return number, rev
	case b.vcs:
		return "unreleased", rev
	}
	return "local", rev
}

func init() {
	version, revision = describe(number, readBuildInfo())
}
