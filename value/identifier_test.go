package value_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocm.software/open-component-model/bindings/go/scene/value"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected value.Identifier
		wantErr  bool
	}{
		// plain names
		{"Entity", value.Identifier{Name: "Entity"}, false},
		{"demo.ComponentA", value.Identifier{Path: []string{"demo"}, Name: "ComponentA"}, false},
		{"a.b.c.Name", value.Identifier{Path: []string{"a", "b", "c"}, Name: "Name"}, false},
		{"float32", value.Identifier{Name: "float32"}, false},

		// versioned names
		{"demo.ComponentA/v1", value.Identifier{Path: []string{"demo"}, Name: "ComponentA", Version: "v1"}, false},
		{"Config/v1alpha1", value.Identifier{Name: "Config", Version: "v1alpha1"}, false},

		// generic arguments
		{"Seq<float32>", value.Identifier{Name: "Seq", Args: []value.Identifier{{Name: "float32"}}}, false},
		{"Map<string,demo.Vec3>", value.Identifier{Name: "Map", Args: []value.Identifier{
			{Name: "string"},
			{Path: []string{"demo"}, Name: "Vec3"},
		}}, false},
		{"Map<string, int>", value.Identifier{Name: "Map", Args: []value.Identifier{{Name: "string"}, {Name: "int"}}}, false},
		{"Seq<Seq<int>>/v2", value.Identifier{
			Name:    "Seq",
			Args:    []value.Identifier{{Name: "Seq", Args: []value.Identifier{{Name: "int"}}}},
			Version: "v2",
		}, false},

		// invalid formats
		{"", value.Identifier{}, true},
		{"demo.", value.Identifier{}, true},
		{".Name", value.Identifier{}, true},
		{"a..b", value.Identifier{}, true},
		{"1abc", value.Identifier{}, true},
		{"Name/", value.Identifier{}, true},
		{"Name/v1/extra", value.Identifier{}, true},
		{"Seq<int", value.Identifier{}, true},
		{"Seq<>", value.Identifier{}, true},
		{"[]float32", value.Identifier{}, true},
		{"pkg.Name[int]", value.Identifier{}, true},
		{"with-dash", value.Identifier{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := value.ParseIdentifier(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, value.ErrInvalidIdentifier)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIdentifier_RoundTrip(t *testing.T) {
	for _, input := range []string{
		"Entity",
		"demo.ComponentA",
		"demo.ComponentA/v1",
		"Seq<float32>",
		"Map<string,Seq<demo.Vec3>>",
	} {
		t.Run(input, func(t *testing.T) {
			id, err := value.ParseIdentifier(input)
			require.NoError(t, err)
			assert.Equal(t, input, id.String())

			again, err := value.ParseIdentifier(id.String())
			require.NoError(t, err)
			assert.True(t, id.Equal(again))
		})
	}
}

func TestNewIdentifier(t *testing.T) {
	r := require.New(t)
	r.Equal(value.MustParseIdentifier("Entity"), value.NewIdentifier("Entity"))
	r.Equal(value.MustParseIdentifier("demo.ComponentA"), value.NewIdentifier("ComponentA", "demo"))
	r.True(value.Identifier{}.IsEmpty())
	r.False(value.NewIdentifier("A").HasVersion())
	r.True(value.MustParseIdentifier("A/v1").HasVersion())
	r.Panics(func() { value.MustParseIdentifier("not valid") })
}

func TestIdentifier_JSON(t *testing.T) {
	r := require.New(t)

	data, err := json.Marshal(value.MustParseIdentifier("scenectl.config/v1"))
	r.NoError(err)
	r.JSONEq(`"scenectl.config/v1"`, string(data))

	var id value.Identifier
	r.NoError(json.Unmarshal([]byte(`"demo.Vec3"`), &id))
	r.Equal(value.NewIdentifier("Vec3", "demo"), id)

	r.Error(json.Unmarshal([]byte(`"demo."`), &id))
	r.Error(json.Unmarshal([]byte(`42`), &id))
}
