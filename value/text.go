package value

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tags used for nodes that have no type identifier of their own.
const (
	TagTuple = "!!tuple"
	TagRaw   = "!!raw"

	tagStr   = "!!str"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagBool  = "!!bool"
	tagNull  = "!!null"
	tagMap   = "!!map"
	tagSeq   = "!!seq"

	// tagTimestamp is resolved by YAML for unquoted dates; it is read back as a string.
	tagTimestamp = "!!timestamp"
)

// DefaultIndent is the indentation used by Marshal.
const DefaultIndent = 2

// Marshal renders a value tree as a YAML document.
// Type names become local tags, so the document stays self-describing:
//
//	- !Entity
//	  - 0
//	  - - !demo.ComponentA
//	      x: 1.0
//	      y: 2.0
func Marshal(v Value) ([]byte, error) {
	return MarshalIndent(v, DefaultIndent)
}

// MarshalIndent is like Marshal but uses the given indentation width.
func MarshalIndent(v Value, indent int) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to encode value tree: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode value tree: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a YAML document produced by Marshal back into a value tree.
func Unmarshal(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse value tree: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("failed to parse value tree: empty document")
	}
	return fromNode(doc.Content[0])
}

func toNode(v Value) (*yaml.Node, error) {
	switch v := v.(type) {
	case Struct:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!" + escapeTag(v.Type.String())}
		for _, f := range v.Fields {
			child, err := toNode(f.Value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: tagStr, Value: f.Name}, child)
		}
		return node, nil
	case TupleStruct:
		return seqNode("!"+escapeTag(v.Type.String()), v.Items)
	case Tuple:
		return seqNode(TagTuple, v)
	case List:
		return seqNode(tagSeq, v)
	case Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: tagMap}
		for i, e := range v {
			key, err := toNode(e.Key)
			if err != nil {
				return nil, fmt.Errorf("map key %d: %w", i, err)
			}
			val, err := toNode(e.Value)
			if err != nil {
				return nil, fmt.Errorf("map value %d: %w", i, err)
			}
			node.Content = append(node.Content, key, val)
		}
		return node, nil
	case Number:
		tag := tagInt
		if strings.ContainsAny(string(v), ".eEnN") {
			tag = tagFloat
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(v)}, nil
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagStr, Value: string(v)}, nil
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagBool, Value: strconv.FormatBool(bool(v))}, nil
	case Unit:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagNull, Value: "null"}, nil
	case Raw:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagRaw, Value: string(v.Data), Style: yaml.SingleQuotedStyle}, nil
	case nil:
		return nil, fmt.Errorf("cannot encode nil value")
	default:
		return nil, fmt.Errorf("cannot encode value of type %T", v)
	}
}

func seqNode(tag string, items []Value) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: tag}
	for i, item := range items {
		child, err := toNode(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		node.Content = append(node.Content, child)
	}
	return node, nil
}

func fromNode(node *yaml.Node) (Value, error) {
	for node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	tag := node.ShortTag()
	switch node.Kind {
	case yaml.MappingNode:
		if tag == tagMap {
			return mapFromNode(node)
		}
		id, err := identifierFromTag(node, tag)
		if err != nil {
			return nil, err
		}
		fields := make([]Field, 0, len(node.Content)/2)
		seen := make(map[string]struct{}, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode || key.ShortTag() != tagStr {
				return nil, fmt.Errorf("line %d: field names of %s must be strings", key.Line, id)
			}
			if _, dup := seen[key.Value]; dup {
				return nil, fmt.Errorf("line %d: duplicate field %q in %s", key.Line, key.Value, id)
			}
			seen[key.Value] = struct{}{}
			val, err := fromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Name: key.Value, Value: val})
		}
		return Struct{Type: id, Fields: fields}, nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := fromNode(child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		switch tag {
		case tagSeq:
			return List(items), nil
		case TagTuple:
			return Tuple(items), nil
		}
		id, err := identifierFromTag(node, tag)
		if err != nil {
			return nil, err
		}
		return TupleStruct{Type: id, Items: items}, nil
	case yaml.ScalarNode:
		return scalarFromNode(node, tag)
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %v", node.Line, node.Kind)
	}
}

func mapFromNode(node *yaml.Node) (Value, error) {
	entries := make(Map, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, err := fromNode(node.Content[i])
		if err != nil {
			return nil, err
		}
		val, err := fromNode(node.Content[i+1])
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: key, Value: val})
	}
	return entries, nil
}

func scalarFromNode(node *yaml.Node, tag string) (Value, error) {
	switch tag {
	case tagInt, tagFloat:
		return Number(node.Value), nil
	case tagStr, tagTimestamp:
		return String(node.Value), nil
	case tagBool:
		b, err := strconv.ParseBool(strings.ToLower(node.Value))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid boolean %q", node.Line, node.Value)
		}
		return Bool(b), nil
	case tagNull:
		return Unit{}, nil
	case TagRaw:
		raw, err := NewRaw([]byte(node.Value))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported scalar tag %q", node.Line, tag)
	}
}

func identifierFromTag(node *yaml.Node, tag string) (Identifier, error) {
	if !strings.HasPrefix(tag, "!") || strings.HasPrefix(tag, "!!") {
		return Identifier{}, fmt.Errorf("line %d: unsupported tag %q", node.Line, tag)
	}
	name, err := url.PathUnescape(tag[1:])
	if err != nil {
		return Identifier{}, fmt.Errorf("line %d: invalid tag %q: %w", node.Line, tag, err)
	}
	id, err := ParseIdentifier(name)
	if err != nil {
		return Identifier{}, fmt.Errorf("line %d: %w", node.Line, err)
	}
	return id, nil
}

// escapeTag percent-encodes every byte a YAML tag suffix cannot carry verbatim.
func escapeTag(name string) string {
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '.', c == '/', c == '-':
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, "%%%02X", c)
		}
	}
	return sb.String()
}
