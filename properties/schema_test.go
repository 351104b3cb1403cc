package properties_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"ocm.software/open-component-model/bindings/go/scene/properties"
)

func TestSchema(t *testing.T) {
	r := require.New(t)
	reg := newRegistry(t)
	registration, err := reg.Resolve("properties_test.Body")
	r.NoError(err)

	data, err := properties.Schema(registration)
	r.NoError(err)

	var schema map[string]any
	r.NoError(json.Unmarshal(data, &schema))
	r.Equal("properties_test.Body", schema["title"])
	r.Equal("object", schema["type"])
	props, ok := schema["properties"].(map[string]any)
	r.True(ok)
	r.Contains(props, "position")
	r.Contains(props, "born")
	r.NotContains(props, "Cache")

	_, err = properties.Schema(nil)
	r.Error(err)
}

func TestValidate(t *testing.T) {
	reg := newRegistry(t)
	registration, err := reg.Resolve("properties_test.Body")
	require.NoError(t, err)

	tests := []struct {
		name    string
		doc     any
		wantErr bool
	}{
		{name: "empty", doc: map[string]any{}},
		{name: "valid", doc: map[string]any{
			"position": map[string]any{"x": json.Number("1.5"), "y": 2},
			"mass":     json.Number("3"),
			"count":    4,
			"tags":     map[string]any{"a": "b"},
			"born":     "2024-01-01T00:00:00Z",
		}},
		{name: "wrong leaf type", doc: map[string]any{"mass": "heavy"}, wantErr: true},
		{name: "fraction for integer", doc: map[string]any{"count": json.Number("1.5")}, wantErr: true},
		{name: "unknown field", doc: map[string]any{"color": "red"}, wantErr: true},
		{name: "nested unknown field", doc: map[string]any{"position": map[string]any{"z": 1}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := properties.Validate(registration, tt.doc)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
