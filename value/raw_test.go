package value_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"ocm.software/open-component-model/bindings/go/scene/value"
)

func TestNewRaw(t *testing.T) {
	r := require.New(t)

	raw, err := value.NewRaw([]byte(`{ "b": 2, "a": 1.50 }`))
	r.NoError(err)
	r.Equal(`{"a":1.5,"b":2}`, string(raw.Data))

	_, err = value.NewRaw([]byte(`not json`))
	r.Error(err)
}

func TestNewRaw_Scalars(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: `"2024-01-01T00:00:00Z"`, expected: `"2024-01-01T00:00:00Z"`},
		{input: ` 1e2 `, expected: `100`},
		{input: `true`, expected: `true`},
		{input: `[ 1, "a" ]`, expected: `[1,"a"]`},
		{input: `1, 2`, wantErr: true},
		{input: `   `, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			raw, err := value.NewRaw([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, string(raw.Data))
		})
	}
}

func TestRaw_JSON(t *testing.T) {
	r := require.New(t)

	data, err := json.Marshal(value.Raw{})
	r.NoError(err)
	r.Equal("null", string(data))

	type holder struct {
		Payload value.Raw `json:"payload"`
	}
	var h holder
	r.NoError(json.Unmarshal([]byte(`{"payload": {"z": true, "a": "x"}}`), &h))
	r.Equal(`{"a":"x","z":true}`, string(h.Payload.Data))

	data, err = json.Marshal(h)
	r.NoError(err)
	r.JSONEq(`{"payload":{"a":"x","z":true}}`, string(data))
}
