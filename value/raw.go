package value

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// Raw is an opaque leaf holding the canonical JSON produced by a type's own
// marshaling. The converter never interprets its content; only the target type
// knows how to read it back.
type Raw struct {
	Data []byte
}

var _ interface {
	json.Marshaler
	json.Unmarshaler
} = &Raw{}

// NewRaw canonicalizes the given JSON document and wraps it as a Raw leaf.
// Any JSON value is accepted, including strings and numbers.
func NewRaw(data []byte) (Raw, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Raw{}, fmt.Errorf("could not canonicalize data: empty document")
	}
	// the canonicalizer only accepts objects and arrays at the top level
	wrapped := make([]byte, 0, len(data)+2)
	wrapped = append(append(append(wrapped, '['), data...), ']')
	canonical, err := jsoncanonicalizer.Transform(wrapped)
	if err != nil {
		return Raw{}, fmt.Errorf("could not canonicalize data: %w", err)
	}
	canonical = canonical[1 : len(canonical)-1]
	if !json.Valid(canonical) {
		return Raw{}, fmt.Errorf("could not canonicalize data: expected a single JSON value")
	}
	return Raw{Data: canonical}, nil
}

func (u Raw) String() string {
	return "raw(" + string(u.Data) + ")"
}

func (u Raw) MarshalJSON() ([]byte, error) {
	if len(u.Data) == 0 {
		return []byte("null"), nil
	}
	return u.Data, nil
}

func (u *Raw) UnmarshalJSON(data []byte) error {
	raw, err := NewRaw(data)
	if err != nil {
		return err
	}
	*u = raw
	return nil
}
