// Package version reports the build version of webext-types using Go's
// runtime/debug build info.
package version

import "runtime/debug"

const modulePath = "github.com/lex00/webext-types"

// Version returns the module version if available from build info.
// Returns "dev" if version information is not available (local development builds).
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	return fromBuildInfo(info)
}

// Revision returns the VCS revision the binary was built from, shortened to
// twelve characters, or "" when unknown.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return revision(info)
}

// String combines Version and Revision for display.
func String() string {
	v := Version()
	if rev := Revision(); rev != "" {
		return v + " (" + rev + ")"
	}
	return v
}

// ModulePath returns the canonical module path.
func ModulePath() string {
	return modulePath
}

func fromBuildInfo(info *debug.BuildInfo) string {
	if info.Main.Path == modulePath && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			return dep.Version
		}
	}
	return "dev"
}

func revision(info *debug.BuildInfo) string {
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return ""
}
