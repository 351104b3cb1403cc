package decode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	clicmd "ocm.software/open-component-model/bindings/go/scene/cli/cmd/internal/cmd"
	clictx "ocm.software/open-component-model/bindings/go/scene/cli/internal/context"
	"ocm.software/open-component-model/bindings/go/scene/cli/internal/flags/enum"
	"ocm.software/open-component-model/bindings/go/scene/cli/internal/render"
	"ocm.software/open-component-model/bindings/go/scene/properties"
	"ocm.software/open-component-model/bindings/go/scene/scene"
	"ocm.software/open-component-model/bindings/go/scene/value"
	"ocm.software/open-component-model/bindings/go/scene/world"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode FILE...",
		Short: "Decode scene files into worlds and describe them",
		Long: `Decode scene files into worlds and describe them.

Every file is parsed, decoded against the registered component types and loaded
into a world. The world is then described as a world manifest, which can be used
as input for "scenectl encode --world".

Files are processed in parallel, the output keeps the order of the arguments.`,
		Example: strings.TrimSpace(`
scenectl decode scene.yaml
scenectl decode scene.yaml --output yaml > world.yaml
scenectl decode a.yaml b.yaml c.yaml --output json --concurrency-limit 2
`),
		Args:              cobra.MinimumNArgs(1),
		RunE:              Decode,
		DisableAutoGenTag: true,
	}

	enum.VarP(cmd.Flags(), clicmd.OutputFlag, "o", render.Formats, "output format of the decoded worlds")
	cmd.Flags().Int(clicmd.ConcurrencyLimitFlag, 0, "maximum number of files decoded in parallel, overrides the configuration")

	return cmd
}

func Decode(cmd *cobra.Command, args []string) error {
	ctx := clictx.FromContext(cmd.Context())
	reg := ctx.Registry()
	if reg == nil {
		return fmt.Errorf("could not retrieve type registry from context")
	}

	output, err := enum.Get(cmd.Flags(), clicmd.OutputFlag)
	if err != nil {
		return fmt.Errorf("getting output flag failed: %w", err)
	}
	format, err := render.ParseOutputFormat(output)
	if err != nil {
		return err
	}

	limit := ctx.Configuration().GetConcurrencyLimit()
	if cmd.Flags().Changed(clicmd.ConcurrencyLimitFlag) {
		if limit, err = cmd.Flags().GetInt(clicmd.ConcurrencyLimitFlag); err != nil {
			return fmt.Errorf("getting concurrency limit flag failed: %w", err)
		}
		if limit < 1 {
			return fmt.Errorf("concurrency limit must be at least 1, got %d", limit)
		}
	}

	docs := make([]render.Document, len(args))
	eg, egctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(limit)
	for i, path := range args {
		eg.Go(func() error {
			doc, err := File(egctx, reg, path)
			if err != nil {
				return fmt.Errorf("decoding %s failed: %w", path, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	return render.Documents(cmd.OutOrStdout(), format, docs)
}

// File decodes the scene stored at path and describes the resulting world.
// A cancelled context stops the decoding before and after the file is read.
func File(ctx context.Context, reg *properties.Registry, path string) (render.Document, error) {
	if err := ctx.Err(); err != nil {
		return render.Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return render.Document{}, err
	}
	if err := ctx.Err(); err != nil {
		return render.Document{}, err
	}
	dig := digest.FromBytes(data)
	logger := slog.With(slog.String("file", path), slog.String("digest", dig.String()))

	parsed, err := value.Unmarshal(data)
	if err != nil {
		return render.Document{}, err
	}
	decoded, err := scene.Decode(ctx, reg, parsed)
	if err != nil {
		return render.Document{}, err
	}
	w, err := world.Load(reg, decoded)
	if err != nil {
		return render.Document{}, err
	}
	manifest, err := world.ManifestFromWorld(reg, w)
	if err != nil {
		return render.Document{}, errors.Join(fmt.Errorf("world cannot be described as manifest"), err)
	}
	logger.DebugContext(ctx, "scene decoded", slog.Int("entities", w.Len()))

	return render.Document{File: path, Digest: dig, Manifest: manifest}, nil
}
