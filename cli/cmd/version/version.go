package version

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	clictx "ocm.software/open-component-model/bindings/go/scene/cli/internal/context"
	"ocm.software/open-component-model/bindings/go/scene/cli/internal/flags/enum"
)

const (
	FlagFormat                = "format"
	FlagFormatShortHand       = "f"
	FlagFormatScene           = "scene"
	FlagFormatGoBuildInfo     = "gobuildinfo"
	FlagFormatGoBuildInfoJSON = "gobuildinfojson"
)

// BuildVersion overrides the module version found in the Go build info.
// Release builds set it with
//
//	-ldflags "-X ocm.software/open-component-model/bindings/go/scene/cli/cmd/version.BuildVersion=1.2.3"
var BuildVersion = "n/a"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the build version of scenectl and the scene format it handles",
		Long: fmt.Sprintf(`Show the build version of scenectl and the scene format it handles.

The default format %[2]q prints a JSON report with two parts:

- "build" holds the version, split into its semantic version parts when possible,
  together with the Go version and platform scenectl was built for.
- "scene" holds the tag of entity nodes, the indentation of written scene files
  as configured, and the component types that can be encoded and decoded.

%[3]q and %[4]q print the plain Go build information as text or JSON.`,
			FlagFormat, FlagFormatScene, FlagFormatGoBuildInfo, FlagFormatGoBuildInfoJSON),
		Example: strings.TrimSpace(`
scenectl version
scenectl version --format gobuildinfo
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := enum.Get(cmd.Flags(), FlagFormat)
			if err != nil {
				return err
			}
			bi, ok := debug.ReadBuildInfo()
			if !ok {
				return fmt.Errorf("no build info available")
			}
			if BuildVersion != "n/a" {
				bi.Main.Version = BuildVersion
			}
			switch format {
			case FlagFormatScene:
				ctx := clictx.FromContext(cmd.Context())
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(GetInfo(bi, ctx.Configuration(), ctx.Registry()))
			case FlagFormatGoBuildInfo:
				_, err := io.WriteString(cmd.OutOrStdout(), bi.String())
				return err
			case FlagFormatGoBuildInfoJSON:
				return json.NewEncoder(cmd.OutOrStdout()).Encode(bi)
			default:
				return cmd.Help()
			}
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	enum.VarP(cmd.Flags(), FlagFormat, FlagFormatShortHand,
		[]string{FlagFormatScene, FlagFormatGoBuildInfo, FlagFormatGoBuildInfoJSON}, "format of the version output")
	return cmd
}
