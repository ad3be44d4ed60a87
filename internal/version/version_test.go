package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfoUsesLdflags(t *testing.T) {
	orig := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = orig[0], orig[1], orig[2] })

	Version, Commit, Date = "1.2.0", "abc123def456", "2026-01-01T12:00:00Z"

	info := GetInfo()
	assert.Equal(t, "1.2.0", info.Version)
	assert.Equal(t, "abc123def456", info.Commit)
	assert.Equal(t, "2026-01-01T12:00:00Z", info.Date)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-10-01T08:00:00Z"},
		},
	}

	info := Info{Version: "dev", Commit: "unknown", Date: "unknown"}
	fillFromBuildInfo(&info, bi)
	assert.Equal(t, "v0.4.1", info.Version)
	assert.Equal(t, "0123456789abcdef", info.Commit)
	assert.Equal(t, "2026-10-01T08:00:00Z", info.Date)

	stamped := Info{Version: "1.0.0", Commit: "feedface", Date: "yesterday"}
	fillFromBuildInfo(&stamped, bi)
	assert.Equal(t, Info{Version: "1.0.0", Commit: "feedface", Date: "yesterday"}, stamped)

	devel := Info{Version: "dev", Commit: "unknown", Date: "unknown"}
	fillFromBuildInfo(&devel, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "dev", devel.Version)
}

func TestInfoFormatting(t *testing.T) {
	info := Info{
		Version:   "1.2.0",
		Commit:    "abc123def456",
		Date:      "2026-01-01",
		GoVersion: "go1.24.6",
		Platform:  "linux/amd64",
	}

	assert.Equal(t, "newsdesk 1.2.0 (abc123de) built 2026-01-01 with go1.24.6 for linux/amd64", info.String())
	assert.Equal(t, "newsdesk/1.2.0 (linux/amd64)", info.UserAgent())
	assert.Equal(t, "1.2.0", info.Short())

	info.Commit = "abc"
	assert.Contains(t, info.String(), "(abc)")
}
