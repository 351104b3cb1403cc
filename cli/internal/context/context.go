package context

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	v1 "ocm.software/open-component-model/bindings/go/scene/cli/configuration/v1"
	"ocm.software/open-component-model/bindings/go/scene/properties"
)

type ctxKey string

const key ctxKey = "ocm.software/open-component-model/bindings/go/scene/cli/internal/context"

// Context is the scenectl command line context.
// It contains pointers to centrally managed structures that are created
// once and used by many commands at once.
// Note that they integrate with context.Context, but are only passed as pointers
// so that access is always done at O(1) lookup time.
type Context struct {
	mu sync.RWMutex

	// configuration is the merged configuration of the CLI.
	// In case the config is not set, default values should be used.
	configuration *v1.Config

	// registry holds the component types every command encodes and decodes.
	registry *properties.Registry
}

// WithConfiguration creates a new context with the given configuration.
// After this function is called, the configuration can be retrieved from the context
// using [FromContext] and [Context.Configuration].
func WithConfiguration(ctx context.Context, cfg *v1.Config) context.Context {
	ctx, c := retrieveOrCreateContext(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configuration = cfg
	return ctx
}

// WithRegistry creates a new context with the given type registry.
func WithRegistry(ctx context.Context, reg *properties.Registry) context.Context {
	ctx, c := retrieveOrCreateContext(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry = reg
	return ctx
}

// Register registers the command to contain a new Context object.
func Register(cmd *cobra.Command) {
	ctx, _ := retrieveOrCreateContext(cmd.Context())
	cmd.SetContext(ctx)
}

func (ctx *Context) Configuration() *v1.Config {
	if ctx == nil {
		return nil
	}
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.configuration
}

func (ctx *Context) Registry() *properties.Registry {
	if ctx == nil {
		return nil
	}
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.registry
}

// FromContext retrieves the CLI context from the given context.
// If the CLI context does not exist, it returns nil.
func FromContext(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(key).(*Context); ok {
		return v
	}
	return nil
}

// WithContext creates a new context with the given CLI context.
func WithContext(ctx context.Context, c *Context) context.Context {
	if c == nil {
		return nil
	}
	return context.WithValue(ctx, key, c)
}

func retrieveOrCreateContext(ctx context.Context) (context.Context, *Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	c := FromContext(ctx)
	if c == nil {
		c = &Context{}
		ctx = WithContext(ctx, c)
	}
	return ctx, c
}
