package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindings/go/scene/cli/cmd/configuration"
	"ocm.software/open-component-model/bindings/go/scene/cli/cmd/decode"
	"ocm.software/open-component-model/bindings/go/scene/cli/cmd/encode"
	"ocm.software/open-component-model/bindings/go/scene/cli/cmd/setup/hooks"
	"ocm.software/open-component-model/bindings/go/scene/cli/cmd/types"
	"ocm.software/open-component-model/bindings/go/scene/cli/cmd/version"
	"ocm.software/open-component-model/bindings/go/scene/cli/internal/flags/log"
)

// Execute adds all child commands to the Cmd command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the Cmd.
func Execute() {
	err := New().Execute()
	if err != nil {
		os.Exit(1)
	}
}

// New creates the scenectl root command. The options are applied on every
// invocation before the sub command runs.
func New(opts ...hooks.Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenectl [sub-command]",
		Short: "Convert worlds of entities to scene files and back",
		Long: `scenectl encodes worlds of entities and their components into
  human readable scene files and decodes scene files back into worlds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return hooks.PreRunEWithOptions(cmd, args, opts...)
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	configuration.RegisterConfigFlag(cmd)
	log.RegisterLoggingFlags(cmd.PersistentFlags())
	cmd.AddCommand(encode.New())
	cmd.AddCommand(decode.New())
	cmd.AddCommand(types.New())
	cmd.AddCommand(version.New())
	return cmd
}
