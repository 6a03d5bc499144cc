package version

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
)

// Info is the build metadata of the running binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	IsDirty   bool   `json:"is_dirty"`
}

// IsRelease reports whether the binary carries a clean tagged version.
func (i Info) IsRelease() bool {
	return i.Version != "dev" && !i.IsDirty
}

// Get returns the build metadata. Values set with -ldflags win over the
// VCS settings recorded by the Go toolchain.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildSettings(&info, bi.Settings)
	}
	return info
}

func applyBuildSettings(info *Info, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.modified":
			info.IsDirty = s.Value == "true"
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
}

// Short renders the version with the commit, e.g. "1.4.0-abc1234".
func (i Info) Short() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.IsDirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}

// UserAgent builds the User-Agent header of a client application, e.g.
// "billing-worker/2.1.0 typedhttp/1.4.0". An empty product yields only the
// library token; an empty productVersion omits the slash.
func UserAgent(product, productVersion string) string {
	lib := "typedhttp/" + Version
	switch {
	case product == "":
		return lib
	case productVersion == "":
		return product + " " + lib
	default:
		return product + "/" + productVersion + " " + lib
	}
}
