package properties_test

import (
	"encoding/json"
	"time"
)

type Vec struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type Body struct {
	Position Vec               `json:"position"`
	Path     []Vec             `json:"path"`
	Tags     map[string]string `json:"tags"`
	Parent   *Vec              `json:"parent"`
	Born     time.Time         `json:"born"`
	Mass     float64           `json:"mass"`
	Count    uint8             `json:"count"`
	Cache    []byte            `json:"-"`
	internal int
}

type Holder struct {
	Shape any `json:"shape"`
}

type Sparse struct {
	Slots map[int]string `json:"slots"`
}

type Pair[T any] struct {
	A, B T
}

// Celsius marshals itself through a pointer receiver.
type Celsius float64

func (c *Celsius) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]float64{"celsius": float64(*c)})
}

func (c *Celsius) UnmarshalJSON(data []byte) error {
	var v map[string]float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Celsius(v["celsius"])
	return nil
}
