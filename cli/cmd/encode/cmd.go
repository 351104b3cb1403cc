package encode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"

	clicmd "ocm.software/open-component-model/bindings/go/scene/cli/cmd/internal/cmd"
	clictx "ocm.software/open-component-model/bindings/go/scene/cli/internal/context"
	"ocm.software/open-component-model/bindings/go/scene/cli/internal/flags/file"
	"ocm.software/open-component-model/bindings/go/scene/internal/demo"
	"ocm.software/open-component-model/bindings/go/scene/properties"
	"ocm.software/open-component-model/bindings/go/scene/scene"
	"ocm.software/open-component-model/bindings/go/scene/value"
	"ocm.software/open-component-model/bindings/go/scene/world"
)

const (
	FlagWorld = "world"
	// StdOut as output writes the scene to the command output.
	StdOut = "-"
)

var started = time.Now()

// ErrVerification is returned when a written scene does not decode to the scene it was encoded from.
var ErrVerification = fmt.Errorf("scene verification failed")

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a world into a scene file",
		Long: `Encode a world into a scene file.

The world is read from a world manifest given with --world. Without a manifest
the built-in demo world is encoded. Every component type of the world must be
registered, see "scenectl types".

The scene is written as YAML. Struct components are tagged with their type name,
entities are written as !Entity sequences of the entity id and its components.`,
		Example: strings.TrimSpace(`
scenectl encode
scenectl encode --world world.yaml --output scene.yaml
scenectl encode --world world.yaml --validate --verify --indent 2
`),
		Args:              cobra.NoArgs,
		RunE:              Encode,
		DisableAutoGenTag: true,
	}

	file.VarP(cmd.Flags(), FlagWorld, "w", "", "path to a world manifest (YAML or JSON), the demo world is used if not set")
	cmd.Flags().StringP(clicmd.OutputFlag, "o", StdOut, "file to write the scene to, - writes to the command output")
	cmd.Flags().Int(clicmd.IndentFlag, 0, "number of spaces used for indentation, overrides the configuration")
	cmd.Flags().Bool(clicmd.VerifyFlag, false, "decode the written scene again and fail if it differs, overrides the configuration")
	cmd.Flags().Bool(clicmd.ValidateFlag, false, "validate the world manifest against the JSON schema of its component types, overrides the configuration")

	return cmd
}

func Encode(cmd *cobra.Command, _ []string) error {
	ctx := clictx.FromContext(cmd.Context())
	reg := ctx.Registry()
	if reg == nil {
		return fmt.Errorf("could not retrieve type registry from context")
	}
	cfg := ctx.Configuration()

	indent := cfg.GetIndent()
	if cmd.Flags().Changed(clicmd.IndentFlag) {
		v, err := cmd.Flags().GetInt(clicmd.IndentFlag)
		if err != nil {
			return fmt.Errorf("getting indent flag failed: %w", err)
		}
		indent = v
	}
	verify, err := boolFlagOr(cmd, clicmd.VerifyFlag, cfg.GetVerify())
	if err != nil {
		return err
	}
	validate, err := boolFlagOr(cmd, clicmd.ValidateFlag, cfg.GetValidate())
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString(clicmd.OutputFlag)
	if err != nil {
		return fmt.Errorf("getting output flag failed: %w", err)
	}

	w, err := loadWorld(cmd, reg, validate)
	if err != nil {
		return err
	}
	snapshot, err := w.Snapshot(reg)
	if err != nil {
		return fmt.Errorf("could not snapshot world: %w", err)
	}
	encoded, err := scene.Encode(cmd.Context(), reg, snapshot)
	if err != nil {
		return fmt.Errorf("could not encode scene: %w", err)
	}
	text, err := value.MarshalIndent(encoded, indent)
	if err != nil {
		return fmt.Errorf("could not render scene: %w", err)
	}

	if verify {
		if err := Verify(cmd, reg, encoded, text); err != nil {
			return err
		}
	}

	if err := write(cmd, output, text); err != nil {
		return err
	}
	slog.InfoContext(cmd.Context(), "scene written",
		slog.String("output", output),
		slog.String("digest", digest.FromBytes(text).String()),
		slog.Int("entities", len(snapshot.Entities)),
	)
	return nil
}

// Verify decodes the rendered scene text and encodes it again. The result must be
// the encoded value the text was rendered from.
func Verify(cmd *cobra.Command, reg *properties.Registry, encoded value.Value, text []byte) error {
	parsed, err := value.Unmarshal(text)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}
	decoded, err := scene.Decode(cmd.Context(), reg, parsed)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}
	again, err := scene.Encode(cmd.Context(), reg, decoded)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}
	expected, err := value.Marshal(encoded)
	if err != nil {
		return err
	}
	actual, err := value.Marshal(again)
	if err != nil {
		return err
	}
	if !bytes.Equal(expected, actual) {
		return fmt.Errorf("%w: re-encoded scene differs from the written one", ErrVerification)
	}
	slog.DebugContext(cmd.Context(), "scene verified", slog.String("digest", digest.FromBytes(actual).String()))
	return nil
}

func loadWorld(cmd *cobra.Command, reg *properties.Registry, validate bool) (*world.World, error) {
	manifest, err := file.Get(cmd.Flags(), FlagWorld)
	if err != nil {
		return nil, fmt.Errorf("getting world flag failed: %w", err)
	}
	if !manifest.IsSet() {
		slog.DebugContext(cmd.Context(), "no world manifest given, using the demo world")
		return demo.World(time.Since(started)), nil
	}

	var opts []world.LoadOption
	if validate {
		opts = append(opts, world.WithValidation())
	}
	data, err := readFile(manifest)
	if err != nil {
		return nil, err
	}
	w, err := world.LoadManifest(reg, data, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not load world manifest %s: %w", manifest, err)
	}
	return w, nil
}

func readFile(f *file.Flag) (_ []byte, err error) {
	reader, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, reader.Close())
	}()
	return io.ReadAll(reader)
}

func write(cmd *cobra.Command, output string, text []byte) error {
	if output == StdOut {
		if _, err := cmd.OutOrStdout().Write(text); err != nil {
			return fmt.Errorf("writing scene failed: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(output, text, 0o644); err != nil {
		return fmt.Errorf("writing scene to %s failed: %w", output, err)
	}
	return nil
}

func boolFlagOr(cmd *cobra.Command, name string, fallback bool) (bool, error) {
	if !cmd.Flags().Changed(name) {
		return fallback, nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("getting %s flag failed: %w", name, err)
	}
	return v, nil
}
