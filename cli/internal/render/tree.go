package render

import (
	"fmt"
	"maps"
	"slices"

	"github.com/jedib0t/go-pretty/v6/list"
)

// documentsAsTree renders every document as a tree of entities, components and fields:
//
//	╭─ scene.yaml (sha256:...)
//	╰─┬─ entity 0
//	  ╰─┬─ demo.ComponentA
//	    ├── x: 1
//	    ╰── y: 2
func documentsAsTree(docs []Document) []byte {
	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedRounded)
	for _, doc := range docs {
		l.AppendItem(fmt.Sprintf("%s (%s)", doc.File, doc.Digest))
		l.Indent()
		for _, entity := range doc.Manifest.Entities {
			id := "-"
			if entity.ID != nil {
				id = fmt.Sprint(*entity.ID)
			}
			l.AppendItem("entity " + id)
			l.Indent()
			for _, c := range entity.Components {
				l.AppendItem(c.Type)
				appendFields(l, c.Fields)
			}
			l.UnIndent()
		}
		l.UnIndent()
	}
	if l.Length() == 0 {
		return nil
	}
	return []byte(l.Render() + "\n")
}

func appendFields(l list.Writer, fields map[string]any) {
	if len(fields) == 0 {
		return
	}
	l.Indent()
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		appendValue(l, name, fields[name])
	}
	l.UnIndent()
}

func appendValue(l list.Writer, label string, v any) {
	switch v := v.(type) {
	case map[string]any:
		l.AppendItem(label)
		appendFields(l, v)
	case []any:
		l.AppendItem(label)
		if len(v) == 0 {
			return
		}
		l.Indent()
		for i, item := range v {
			appendValue(l, fmt.Sprintf("[%d]", i), item)
		}
		l.UnIndent()
	default:
		l.AppendItem(fmt.Sprintf("%s: %v", label, v))
	}
}
