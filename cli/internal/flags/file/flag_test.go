package file

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T) (string, []byte) {
	t.Helper()
	content := []byte("entities: []\n")
	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path, content
}

func TestFlag_Set(t *testing.T) {
	manifest, _ := writeManifest(t)
	dir := filepath.Dir(manifest)

	tests := []struct {
		name      string
		path      string
		exists    bool
		directory bool
	}{
		{name: "manifest", path: manifest, exists: true},
		{name: "missing manifest", path: filepath.Join(dir, "missing.yaml")},
		{name: "directory", path: dir, exists: true, directory: true},
		{name: "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := &Flag{}
			require.NoError(t, flag.Set(tt.path))
			assert.Equal(t, tt.path, flag.String())
			assert.Equal(t, tt.path != "", flag.IsSet())
			assert.Equal(t, tt.exists, flag.Exists())
			if tt.exists {
				assert.Equal(t, tt.directory, flag.IsDir())
			}
		})
	}
}

func TestFlag_SetResetsInfo(t *testing.T) {
	manifest, _ := writeManifest(t)
	flag := &Flag{}
	require.NoError(t, flag.Set(manifest))
	require.True(t, flag.Exists())
	require.NoError(t, flag.Set(""))
	assert.False(t, flag.Exists())
	assert.False(t, flag.IsSet())
}

func TestFlag_Open(t *testing.T) {
	r := require.New(t)
	manifest, content := writeManifest(t)

	flag := &Flag{}
	r.NoError(flag.Set(manifest))
	reader, err := flag.Open()
	r.NoError(err)
	t.Cleanup(func() {
		r.NoError(reader.Close())
	})
	data, err := io.ReadAll(reader)
	r.NoError(err)
	r.Equal(content, data)

	r.NoError(flag.Set(filepath.Join(filepath.Dir(manifest), "missing.yaml")))
	_, err = flag.Open()
	r.ErrorContains(err, "does not exist")

	r.NoError(flag.Set(filepath.Dir(manifest)))
	_, err = flag.Open()
	r.ErrorContains(err, "is a directory")
}

func TestFlagVar(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	Var(fs, "world", "world.yaml", "world manifest")
	flag, err := Get(fs, "world")
	require.NoError(t, err)
	assert.Equal(t, "world.yaml", flag.String())

	VarP(fs, "scene", "s", "", "scene file")
	require.NoError(t, fs.Parse([]string{"-s", "scene.yaml"}))
	flag, err = Get(fs, "scene")
	require.NoError(t, err)
	assert.Equal(t, "scene.yaml", flag.String())
	assert.Equal(t, Type, flag.Type())

	fs.Bool("verify", false, "")
	_, err = Get(fs, "verify")
	assert.ErrorContains(t, err, "trying to get path value")
	_, err = Get(fs, "missing")
	assert.ErrorContains(t, err, "not defined")
}
