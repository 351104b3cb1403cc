package hooks

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindings/go/scene/cli/cmd/setup"
	clictx "ocm.software/open-component-model/bindings/go/scene/cli/internal/context"
	"ocm.software/open-component-model/bindings/go/scene/cli/internal/flags/log"
	"ocm.software/open-component-model/bindings/go/scene/properties"
)

// Option is the single interface all options implement.
type Option interface {
	Apply(b *Builder) error
}

// optionFunc lets simple functions satisfy Option.
type optionFunc func(*Builder) error

func (f optionFunc) Apply(b *Builder) error { return f(b) }

// Builder accumulates the state the setup layer expects.
type Builder struct {
	cmd      *cobra.Command
	registry *properties.Registry
}

func newBuilder(cmd *cobra.Command) *Builder {
	return &Builder{cmd: cmd}
}

// WithRegistry replaces the demo component types with the given registry.
func WithRegistry(reg *properties.Registry) Option {
	return optionFunc(func(b *Builder) error {
		if reg == nil {
			return fmt.Errorf("registry must not be nil")
		}
		b.registry = reg
		return nil
	})
}

// PreRunE sets up the command with defaults (no extra options).
func PreRunE(cmd *cobra.Command, args []string) error {
	return PreRunEWithOptions(cmd, args)
}

// PreRunEWithOptions configures logging from the flags, loads the configuration
// and stores it together with the type registry in the CLI context.
func PreRunEWithOptions(cmd *cobra.Command, _ []string, opts ...Option) error {
	logger, err := log.GetBaseLogger(cmd)
	if err != nil {
		return fmt.Errorf("could not retrieve logger: %w", err)
	}
	slog.SetDefault(logger)

	b := newBuilder(cmd)
	for _, opt := range opts {
		if err := opt.Apply(b); err != nil {
			return fmt.Errorf("apply option: %w", err)
		}
	}

	if err := setup.Config(cmd); err != nil {
		return err
	}
	if err := setup.Registry(cmd, b.registry); err != nil {
		return err
	}

	clictx.Register(cmd)

	// inherit IO from parent if exists
	if parent := cmd.Parent(); parent != nil {
		cmd.SetOut(parent.OutOrStdout())
		cmd.SetErr(parent.ErrOrStderr())
	}

	return nil
}
