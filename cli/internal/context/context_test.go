package context

import (
	"context"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	v1 "ocm.software/open-component-model/bindings/go/scene/cli/configuration/v1"
	"ocm.software/open-component-model/bindings/go/scene/properties"
)

func TestWithConfiguration(t *testing.T) {
	indent := 2
	tests := []struct {
		name   string
		config *v1.Config
	}{
		{name: "config", config: &v1.Config{Indent: &indent}},
		{name: "empty config", config: &v1.Config{}},
		{name: "nil config", config: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			ctx := WithConfiguration(context.Background(), tt.config)
			c := FromContext(ctx)
			r.NotNil(c, "context should be available")
			r.Same(tt.config, c.Configuration())
		})
	}
}

func TestWithRegistry_SharesContext(t *testing.T) {
	r := require.New(t)
	reg := properties.NewRegistry()
	cfg := &v1.Config{}

	ctx := WithConfiguration(t.Context(), cfg)
	ctx = WithRegistry(ctx, reg)
	c := FromContext(ctx)
	r.Same(reg, c.Registry())
	r.Same(cfg, c.Configuration())
}

func TestNilContext(t *testing.T) {
	r := require.New(t)
	var c *Context
	r.Nil(c.Configuration())
	r.Nil(c.Registry())
	r.Nil(FromContext(context.Background()))
	r.Nil(WithContext(context.Background(), nil))
}

func TestRegister(t *testing.T) {
	r := require.New(t)
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	Register(cmd)
	r.NotNil(FromContext(cmd.Context()))
}

func TestConcurrentAccess(t *testing.T) {
	ctx := WithRegistry(context.Background(), properties.NewRegistry())
	c := FromContext(ctx)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			WithConfiguration(ctx, &v1.Config{})
		}()
		go func() {
			defer wg.Done()
			_ = c.Configuration()
			_ = c.Registry()
		}()
	}
	wg.Wait()
	require.NotNil(t, c.Configuration())
}
