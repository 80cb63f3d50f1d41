package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/kerf/pkg/csg"
	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/export"
	"github.com/chazu/kerf/pkg/parts"
)

func newRenderCommand() *cobra.Command {
	var output, part string

	cmd := &cobra.Command{
		Use:   "render <script>",
		Short: "Evaluate a part script and export the result",
		Long: `Evaluate a part script and write its solid as a mesh.

A script that registers several parts with (part "name" solid) needs --part
to choose one. Without -o the output is named after the part or the script
and placed in the output directory.`,
		Example: "  kerf render bracket.kerf -o bracket.stl\n  kerf render lock.kerf --part spacer",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root, err := loadScript(ctx, cmd, args[0], part)
			if err != nil {
				return err
			}
			name := part
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			return writePart(ctx, cmd, root, name, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (format from extension)")
	cmd.Flags().StringVar(&part, "part", "", "Named part to render")
	return cmd
}

func newBuildCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "build <part>",
		Short:   "Export a catalog part with its default dimensions",
		Example: "  kerf build spacer\n  kerf build ring -o ring.stl",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := catalogPart(args[0])
			if err != nil {
				return err
			}
			return writePart(cmd.Context(), cmd, root, args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (format from extension)")
	return cmd
}

// loadScript evaluates the script at path and picks the solid to use.
func loadScript(ctx context.Context, cmd *cobra.Command, path, part string) (*csg.Node, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	eng := engine.NewEngine(engine.WithLogger(LoggerFromContext(ctx)))
	res, evalErrs, err := eng.Evaluate(ctx, string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, e.Error())
		}
		return nil, fmt.Errorf("%s: %d script error(s)", path, len(evalErrs))
	}
	return res.Root(part)
}

func catalogPart(name string) (*csg.Node, error) {
	e, ok := parts.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown part %q (see kerf parts)", name)
	}
	return e.Default().Build(), nil
}

// writePart exports root to output, or to name plus the configured
// format's extension in the output directory.
func writePart(ctx context.Context, cmd *cobra.Command, root *csg.Node, name, output string) error {
	ev, cfg, err := newEvaluator(ctx)
	if err != nil {
		return err
	}
	format := cfg.ExportFormat()
	if output == "" {
		output = cfg.OutputPath(name + format.Ext())
	} else {
		format = export.FormatFor(output, format)
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	meta := export.Metadata{Format: format, PartName: name}
	if err := export.WriteFile(ctx, ev, root, output, cfg.Resolution, meta,
		export.WithLogger(LoggerFromContext(ctx))); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
