package version

import (
	godebug "runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testRevision = "da39a3ee5e6b4b0d3255bfef95601890afd80709"

func withBuildInfo(info *godebug.BuildInfo) func() {
	prev := readBuildInfo
	readBuildInfo = func() (*godebug.BuildInfo, bool) { return info, info != nil }
	return func() { readBuildInfo = prev }
}

func TestVersionFromTags(t *testing.T) {
	defer func(t string) { tags = t }(tags)
	defer withBuildInfo(nil)()

	tags = "latest\nv1.2.3\n"
	assert.Equal(t, "1.2.3", Version())

	tags = "latest"
	assert.Equal(t, "", Version())
}

func TestVersionFromBuildInfo(t *testing.T) {
	defer func(t string) { tags = t }(tags)
	tags = ""

	info := &godebug.BuildInfo{}
	info.Main.Version = "v0.4.1"
	defer withBuildInfo(info)()
	assert.Equal(t, "0.4.1", Version())

	info.Main.Version = "(devel)"
	assert.Equal(t, "", Version())
}

func TestRevision(t *testing.T) {
	defer func(r string) { revision = r }(revision)
	defer withBuildInfo(&godebug.BuildInfo{
		Settings: []godebug.BuildSetting{{Key: "vcs.revision", Value: testRevision}},
	})()

	revision = "0123456789012345678901234567890123456789"
	assert.Equal(t, revision, Revision())

	revision = "da39a3e"
	assert.Equal(t, testRevision, Revision())
}
