package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"

	v1 "ocm.software/open-component-model/bindings/go/scene/cli/configuration/v1"
	"ocm.software/open-component-model/bindings/go/scene/internal/demo"
	"ocm.software/open-component-model/bindings/go/scene/scene"
)

func TestGetInfo_Build(t *testing.T) {
	tests := []struct {
		version string
		expect  string
		semver  *SemverInfo
	}{
		{
			version: "1.2.3",
			expect:  "1.2.3",
			semver:  &SemverInfo{Major: 1, Minor: 2, Patch: 3},
		},
		{
			version: "v0.4.0-20251010080918-cf762d5f2c83+dirty",
			expect:  "0.4.0-20251010080918-cf762d5f2c83+dirty",
			semver: &SemverInfo{
				Minor:      4,
				PreRelease: "20251010080918-cf762d5f2c83",
				Meta:       "dirty",
				BuildDate:  "20251010080918",
				GitCommit:  "cf762d5f2c83",
			},
		},
		{
			version: "(devel)",
			expect:  "(devel)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			r := require.New(t)
			info := GetInfo(&debug.BuildInfo{Main: debug.Module{Version: tt.version}}, nil, nil)
			r.Equal(tt.expect, info.Build.Version)
			r.Equal(tt.semver, info.Build.Semver)
			r.NotEmpty(info.Build.GoVersion)
			r.NotEmpty(info.Build.Platform)
		})
	}
}

func TestGetInfo_Scene(t *testing.T) {
	r := require.New(t)
	reg, err := demo.NewRegistry()
	r.NoError(err)
	indent := 2
	bi := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}

	info := GetInfo(bi, &v1.Config{Indent: &indent}, reg)
	r.Equal(scene.EntityTypeName, info.Scene.EntityTag)
	r.Equal(2, info.Scene.Indent)
	r.Equal(reg.Names(), info.Scene.Types)
	r.Equal(len(reg.Names()), info.Scene.TypeCount)
	r.Contains(info.Scene.Types, "demo.ComponentA")

	info = GetInfo(bi, nil, nil)
	r.Equal(v1.DefaultIndent, info.Scene.Indent)
	r.Empty(info.Scene.Types)
	r.Zero(info.Scene.TypeCount)
}
