package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/opencontainers/go-digest"
	"sigs.k8s.io/yaml"

	"ocm.software/open-component-model/bindings/go/scene/world"
)

// Document is a decoded scene file described as a world manifest.
type Document struct {
	File     string          `json:"file"`
	Digest   digest.Digest   `json:"digest"`
	Manifest *world.Manifest `json:"manifest"`
}

// Documents writes the documents in the given format.
// YAML output of a single document is not wrapped in a list, JSON output is
// newline delimited with one document per line.
func Documents(w io.Writer, format OutputFormat, docs []Document) error {
	var data []byte
	var err error
	switch format {
	case OutputFormatNDJSON:
		data, err = documentsAsNDJSON(docs)
	case OutputFormatYAML:
		if len(docs) == 1 {
			data, err = yaml.Marshal(docs[0])
		} else {
			data, err = yaml.Marshal(docs)
		}
	case OutputFormatTable:
		data = documentsAsTable(docs)
	case OutputFormatTree:
		data = documentsAsTree(docs)
	default:
		err = fmt.Errorf("unknown output format: %q", format)
	}
	if err != nil {
		return fmt.Errorf("encoding documents as %q failed: %w", format, err)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing documents failed: %w", err)
	}
	return nil
}

func documentsAsNDJSON(docs []Document) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, doc := range docs {
		if err := encoder.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding document %s failed: %w", doc.File, err)
		}
	}
	return buf.Bytes(), nil
}

func documentsAsTable(docs []Document) []byte {
	var buf bytes.Buffer
	t := newTable(&buf)
	t.AppendHeader(table.Row{"File", "Entity", "Components"})
	for _, doc := range docs {
		for _, entity := range doc.Manifest.Entities {
			types := make([]string, 0, len(entity.Components))
			for _, c := range entity.Components {
				types = append(types, c.Type)
			}
			var id any = "-"
			if entity.ID != nil {
				id = *entity.ID
			}
			t.AppendRow(table.Row{doc.File, id, strings.Join(types, ", ")})
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	t.Render()
	return buf.Bytes()
}

// Table writes rows under the header in the style of all scenectl tables.
func Table(w io.Writer, header table.Row, rows []table.Row) {
	t := newTable(w)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	return t
}
