package setup

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindings/go/scene/cli/cmd/configuration"
	clictx "ocm.software/open-component-model/bindings/go/scene/cli/internal/context"
	"ocm.software/open-component-model/bindings/go/scene/internal/demo"
	"ocm.software/open-component-model/bindings/go/scene/properties"
)

// Config loads the configuration of the command and stores it in the CLI context.
// An explicitly given configuration file must be loadable.
func Config(cmd *cobra.Command) error {
	cfg, err := configuration.GetConfigForCommand(cmd)
	if err != nil {
		return fmt.Errorf("could not get configuration: %w", err)
	}
	slog.DebugContext(cmd.Context(), "configuration loaded",
		slog.Int("indent", cfg.GetIndent()),
		slog.Bool("verify", cfg.GetVerify()),
		slog.Bool("validate", cfg.GetValidate()),
		slog.Int("concurrencyLimit", cfg.GetConcurrencyLimit()),
	)
	cmd.SetContext(clictx.WithConfiguration(cmd.Context(), cfg))
	return nil
}

// Registry stores the type registry in the CLI context.
// Without a registry the demo component types are registered.
func Registry(cmd *cobra.Command, reg *properties.Registry) error {
	if reg == nil {
		var err error
		if reg, err = demo.NewRegistry(); err != nil {
			return fmt.Errorf("could not register component types: %w", err)
		}
	}
	slog.DebugContext(cmd.Context(), "type registry ready", slog.Any("types", reg.Names()))
	cmd.SetContext(clictx.WithRegistry(cmd.Context(), reg))
	return nil
}
