package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	clictx "ocm.software/open-component-model/bindings/go/scene/cli/internal/context"
	"ocm.software/open-component-model/bindings/go/scene/cli/internal/render"
	"ocm.software/open-component-model/bindings/go/scene/properties"
)

const FlagSchema = "schema"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types [NAME]",
		Short: "List the registered component types",
		Long: `List the registered component types with their aliases.

With --schema the JSON schema of the named type is printed instead. The schema
describes the fields of the component in a world manifest.`,
		Example: strings.TrimSpace(`
scenectl types
scenectl types demo.Transform --schema
`),
		Args:              cobra.MaximumNArgs(1),
		RunE:              Types,
		DisableAutoGenTag: true,
	}
	cmd.Flags().Bool(FlagSchema, false, "print the JSON schema of the named type")
	return cmd
}

func Types(cmd *cobra.Command, args []string) error {
	reg := clictx.FromContext(cmd.Context()).Registry()
	if reg == nil {
		return fmt.Errorf("could not retrieve type registry from context")
	}
	schema, err := cmd.Flags().GetBool(FlagSchema)
	if err != nil {
		return fmt.Errorf("getting schema flag failed: %w", err)
	}

	if schema {
		if len(args) != 1 {
			return fmt.Errorf("--%s requires exactly one type name", FlagSchema)
		}
		return Schema(cmd, reg, args[0])
	}

	names := reg.Names()
	if len(args) == 1 {
		registration, err := reg.Resolve(args[0])
		if err != nil {
			return err
		}
		names = []string{registration.Name}
	}

	rows := make([]table.Row, 0, len(names))
	for _, name := range names {
		registration, ok := reg.Lookup(name)
		if !ok {
			continue
		}
		rows = append(rows, table.Row{registration.Name, strings.Join(registration.Aliases, ", "), registration.Type.Kind().String()})
	}
	render.Table(cmd.OutOrStdout(), table.Row{"Name", "Aliases", "Kind"}, rows)
	return nil
}

// Schema prints the indented JSON schema of the named type.
func Schema(cmd *cobra.Command, reg *properties.Registry, name string) error {
	registration, err := reg.Resolve(name)
	if err != nil {
		return err
	}
	data, err := properties.Schema(registration)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("failed to indent schema of %s: %w", registration.Name, err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(cmd.OutOrStdout())
	return err
}
