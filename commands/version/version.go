package version

import (
	"regexp"
	godebug "runtime/debug"
	"strings"
)

var tags = ""     // -ldflags "-X .../version.tags `git tag -l --points-at HEAD`"
var revision = "" // -ldflags "-X .../version.revision `git rev-parse HEAD`"

var versionPattern = regexp.MustCompile(`^v\d+\.\d+\.\d+$`)

var readBuildInfo = godebug.ReadBuildInfo

// Version returns the semver version of this idle-reclaimer build on the
// form 0.0.0, or empty string if not built with a version number. Without
// injected tags the module version recorded by the go tool is used.
func Version() string {
	for _, tag := range strings.Split(tags, "\n") {
		if versionPattern.MatchString(tag) {
			return tag[1:]
		}
	}
	if info, ok := readBuildInfo(); ok && versionPattern.MatchString(info.Main.Version) {
		return info.Main.Version[1:]
	}
	return ""
}

// Revision returns the git revision hash of this idle-reclaimer build, or
// empty string if neither injected at build-time nor stamped by the go tool.
func Revision() string {
	if len(revision) == 40 {
		return revision
	}
	if info, ok := readBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) == 40 {
				return s.Value
			}
		}
	}
	return ""
}
