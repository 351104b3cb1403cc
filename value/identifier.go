package value

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidIdentifier is returned when a type name cannot be parsed into an Identifier.
var ErrInvalidIdentifier = fmt.Errorf("invalid type identifier")

var (
	segmentRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	versionRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.-]*$`)
)

// Identifier is the structured form of a declared type name.
// It is used as the tag of Struct and TupleStruct nodes.
//
// The canonical string form is
//
//	path.segments.Name<Arg1,Arg2>/version
//
// where the namespace path, the generic arguments and the version are optional.
type Identifier struct {
	// Path holds the namespace segments in front of the name, e.g. ["demo"] for "demo.ComponentA".
	Path []string
	Name string
	// Args holds generic arguments, e.g. [float32] for "Seq<float32>".
	Args    []Identifier
	Version string
}

// NewIdentifier creates an Identifier from a name and optional namespace segments.
func NewIdentifier(name string, path ...string) Identifier {
	id := Identifier{Name: name}
	if len(path) > 0 {
		id.Path = path
	}
	return id
}

// ParseIdentifier parses a type name in its canonical string form.
func ParseIdentifier(name string) (Identifier, error) {
	p := &identifierParser{input: name}
	id, err := p.parse()
	if err != nil {
		return Identifier{}, fmt.Errorf("%w %q: %w", ErrInvalidIdentifier, name, err)
	}
	if p.pos != len(p.input) {
		return Identifier{}, fmt.Errorf("%w %q: unexpected %q at offset %d", ErrInvalidIdentifier, name, p.input[p.pos:], p.pos)
	}
	return id, nil
}

// MustParseIdentifier is like ParseIdentifier but panics on invalid input.
func MustParseIdentifier(name string) Identifier {
	id, err := ParseIdentifier(name)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical form of the Identifier.
func (id Identifier) String() string {
	var sb strings.Builder
	for _, segment := range id.Path {
		sb.WriteString(segment)
		sb.WriteByte('.')
	}
	sb.WriteString(id.Name)
	if len(id.Args) > 0 {
		sb.WriteByte('<')
		for i, arg := range id.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(arg.String())
		}
		sb.WriteByte('>')
	}
	if id.Version != "" {
		sb.WriteByte('/')
		sb.WriteString(id.Version)
	}
	return sb.String()
}

// Equal checks if two Identifiers are the same.
func (id Identifier) Equal(other Identifier) bool {
	return id.String() == other.String()
}

// IsEmpty checks if the Identifier has no name.
func (id Identifier) IsEmpty() bool {
	return id.Name == ""
}

// HasVersion checks if the Identifier has a version associated with it.
func (id Identifier) HasVersion() bool {
	return id.Version != ""
}

// MarshalJSON converts the Identifier to a JSON string.
func (id Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON parses a JSON string into an Identifier.
func (id *Identifier) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("could not unmarshal identifier: %w", err)
	}
	parsed, err := ParseIdentifier(str)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

type identifierParser struct {
	input string
	pos   int
}

func (p *identifierParser) parse() (Identifier, error) {
	p.skipSpace()
	var segments []string
	for {
		segment := p.scan(func(c byte) bool {
			return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
		})
		if segment == "" {
			return Identifier{}, fmt.Errorf("missing name at offset %d", p.pos)
		}
		if !segmentRegex.MatchString(segment) {
			return Identifier{}, fmt.Errorf("invalid segment %q", segment)
		}
		segments = append(segments, segment)
		if !p.consume('.') {
			break
		}
	}

	id := Identifier{Name: segments[len(segments)-1]}
	if len(segments) > 1 {
		id.Path = segments[:len(segments)-1]
	}

	if p.consume('<') {
		for {
			arg, err := p.parse()
			if err != nil {
				return Identifier{}, err
			}
			id.Args = append(id.Args, arg)
			p.skipSpace()
			if p.consume(',') {
				continue
			}
			if p.consume('>') {
				break
			}
			return Identifier{}, fmt.Errorf("unterminated argument list at offset %d", p.pos)
		}
	}

	if p.consume('/') {
		version := p.scan(func(c byte) bool {
			return c != ',' && c != '>' && c != '<' && c != '/' && c != ' '
		})
		if !versionRegex.MatchString(version) {
			return Identifier{}, fmt.Errorf("invalid version %q", version)
		}
		id.Version = version
	}
	p.skipSpace()
	return id, nil
}

func (p *identifierParser) scan(accept func(byte) bool) string {
	start := p.pos
	for p.pos < len(p.input) && accept(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *identifierParser) consume(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *identifierParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}
