package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/Masterminds/semver/v3"

	v1 "ocm.software/open-component-model/bindings/go/scene/cli/configuration/v1"
	"ocm.software/open-component-model/bindings/go/scene/properties"
	"ocm.software/open-component-model/bindings/go/scene/scene"
)

// Info is the report of "scenectl version": what was built and which scenes it reads and writes.
type Info struct {
	Build BuildInfo `json:"build"`
	Scene SceneInfo `json:"scene"`
}

type BuildInfo struct {
	Version string `json:"version"`
	// Semver is absent for development builds, e.g. "(devel)".
	Semver    *SemverInfo `json:"semver,omitempty"`
	GoVersion string      `json:"goVersion"`
	Platform  string      `json:"platform"`
}

// SemverInfo splits the build version. Go pseudo versions carry the commit
// timestamp and hash in their pre-release part.
type SemverInfo struct {
	Major      uint64 `json:"major"`
	Minor      uint64 `json:"minor"`
	Patch      uint64 `json:"patch"`
	PreRelease string `json:"prerelease,omitempty"`
	Meta       string `json:"meta,omitempty"`
	BuildDate  string `json:"buildDate,omitempty"`
	GitCommit  string `json:"gitCommit,omitempty"`
}

// SceneInfo describes the scene text format of this build.
type SceneInfo struct {
	EntityTag string   `json:"entityTag"`
	Indent    int      `json:"indent"`
	TypeCount int      `json:"typeCount"`
	Types     []string `json:"types"`
}

// GetInfo builds the version report. cfg and reg may be nil, e.g. when the
// configuration could not be loaded; the defaults are reported then.
func GetInfo(bi *debug.BuildInfo, cfg *v1.Config, reg *properties.Registry) Info {
	info := Info{
		Build: BuildInfo{
			Version:   bi.Main.Version,
			GoVersion: runtime.Version(),
			Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		},
		Scene: SceneInfo{
			EntityTag: scene.EntityTypeName,
			Indent:    cfg.GetIndent(),
			Types:     []string{},
		},
	}

	if v, err := semver.NewVersion(bi.Main.Version); err == nil {
		sv := &SemverInfo{
			Major:      v.Major(),
			Minor:      v.Minor(),
			Patch:      v.Patch(),
			PreRelease: v.Prerelease(),
			Meta:       v.Metadata(),
		}
		if sv.PreRelease != "" {
			sv.BuildDate, sv.GitCommit, _ = strings.Cut(sv.PreRelease, "-")
		}
		info.Build.Version = v.String()
		info.Build.Semver = sv
	}

	if reg != nil {
		info.Scene.Types = reg.Names()
	}
	info.Scene.TypeCount = len(info.Scene.Types)
	return info
}
