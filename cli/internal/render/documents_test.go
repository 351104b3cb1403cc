package render_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/require"

	"ocm.software/open-component-model/bindings/go/scene/cli/internal/render"
	"ocm.software/open-component-model/bindings/go/scene/world"
)

func documents() []render.Document {
	zero, seven := uint64(0), uint64(7)
	return []render.Document{
		{
			File:   "a.yaml",
			Digest: digest.FromString("a"),
			Manifest: &world.Manifest{Entities: []world.EntitySpec{
				{ID: &zero, Components: []world.ComponentSpec{
					{Type: "demo.ComponentA", Fields: map[string]any{"x": json.Number("1")}},
					{Type: "demo.ComponentB", Fields: map[string]any{"value": "hello"}},
				}},
				{ID: &seven, Components: []world.ComponentSpec{}},
			}},
		},
		{
			File:     "b.yaml",
			Digest:   digest.FromString("b"),
			Manifest: &world.Manifest{Entities: []world.EntitySpec{}},
		},
	}
}

func TestParseOutputFormat(t *testing.T) {
	r := require.New(t)
	for _, name := range render.Formats {
		f, err := render.ParseOutputFormat(name)
		r.NoError(err)
		r.Equal(name, f.String())
	}
	_, err := render.ParseOutputFormat("xml")
	r.Error(err)
	r.Equal("unknown(9)", render.OutputFormat(9).String())
}

func TestDocuments_YAML(t *testing.T) {
	r := require.New(t)
	var buf bytes.Buffer
	r.NoError(render.Documents(&buf, render.OutputFormatYAML, documents()[:1]))
	r.True(strings.HasPrefix(buf.String(), "digest: sha256:"), buf.String())
	r.Contains(buf.String(), "type: demo.ComponentB")

	buf.Reset()
	r.NoError(render.Documents(&buf, render.OutputFormatYAML, documents()))
	r.True(strings.HasPrefix(buf.String(), "- digest: sha256:"), buf.String())
	r.Contains(buf.String(), "file: b.yaml")
}

func TestDocuments_NDJSON(t *testing.T) {
	r := require.New(t)
	var buf bytes.Buffer
	r.NoError(render.Documents(&buf, render.OutputFormatNDJSON, documents()))

	scanner := bufio.NewScanner(&buf)
	var files []string
	for scanner.Scan() {
		var doc render.Document
		r.NoError(json.Unmarshal(scanner.Bytes(), &doc))
		files = append(files, doc.File)
	}
	r.Equal([]string{"a.yaml", "b.yaml"}, files)
}

func TestDocuments_Table(t *testing.T) {
	r := require.New(t)
	var buf bytes.Buffer
	r.NoError(render.Documents(&buf, render.OutputFormatTable, documents()))
	out := buf.String()
	r.Contains(out, "FILE")
	r.Contains(out, "COMPONENTS")
	r.Contains(out, "demo.ComponentA, demo.ComponentB")
	r.NotContains(out, "b.yaml", "documents without entities have no rows")

	r.Error(render.Documents(&buf, render.OutputFormat(9), nil))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	render.Table(&buf, table.Row{"Name", "Kind"}, []table.Row{{"demo.Vec3", "struct"}})
	require.Contains(t, buf.String(), "demo.Vec3")
	require.Contains(t, buf.String(), "NAME")
}

func TestDocuments_Tree(t *testing.T) {
	r := require.New(t)
	docs := documents()
	docs[0].Manifest.Entities[0].Components[1].Fields["tags"] = []any{"a", map[string]any{"b": true}}

	var buf bytes.Buffer
	r.NoError(render.Documents(&buf, render.OutputFormatTree, docs))
	out := buf.String()
	r.Contains(out, "a.yaml ("+digest.FromString("a").String()+")")
	r.Contains(out, "entity 7")
	r.Contains(out, "demo.ComponentB")
	r.Contains(out, "x: 1")
	r.Contains(out, "[0]: a")
	r.Contains(out, "b: true")
	r.Contains(out, "b.yaml")
	r.Less(strings.Index(out, "tags"), strings.Index(out, "value: hello"))

	buf.Reset()
	r.NoError(render.Documents(&buf, render.OutputFormatTree, nil))
	r.Empty(buf.String())
}
