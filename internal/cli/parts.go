package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/chazu/kerf/pkg/csg"
	"github.com/chazu/kerf/pkg/mesh"
	"github.com/chazu/kerf/pkg/parts"
	"github.com/chazu/kerf/pkg/tessellate"
)

func newPartsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parts",
		Short: "List the catalog parts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Name", "Description"})
			for _, e := range parts.Catalog() {
				t.AppendRow(table.Row{e.Name, e.Description})
			}
			t.Render()
			return nil
		},
	}
}

func newInspectCommand() *cobra.Command {
	var part string
	var tree bool

	cmd := &cobra.Command{
		Use:   "inspect <script|part>",
		Short: "Evaluate a script or catalog part and report its mesh",
		Long: `Evaluate a script file or catalog part and print a summary of the
resulting mesh: faces, shells, genus, volume and bounds. An argument that
names an existing file is treated as a script.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var root *csg.Node
			var err error
			if fi, statErr := os.Stat(args[0]); statErr == nil && !fi.IsDir() {
				root, err = loadScript(ctx, cmd, args[0], part)
			} else {
				root, err = catalogPart(args[0])
			}
			if err != nil {
				return err
			}

			ev, cfg, err := newEvaluator(ctx)
			if err != nil {
				return err
			}
			m, err := ev.Evaluate(ctx, root, cfg.Resolution)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if tree {
				fmt.Fprint(w, csg.Format(root))
			}
			renderSummary(w, root, m, cfg.Resolution, ev.Stats())
			return nil
		},
	}
	cmd.Flags().StringVar(&part, "part", "", "Named part of a script")
	cmd.Flags().BoolVar(&tree, "tree", false, "Print the solid tree before the summary")
	return cmd
}

func renderSummary(w io.Writer, root *csg.Node, m *mesh.Mesh, res int, st tessellate.Stats) {
	nodes, unique := csg.Count(root)
	b := m.Bounds()
	size := b.Size()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Property", "Value"})
	t.AppendRows([]table.Row{
		{"root", root.ID().Short()},
		{"nodes", fmt.Sprintf("%d (%d distinct)", nodes, unique)},
		{"resolution", res},
		{"vertices", m.VertexCount()},
		{"faces", m.FaceCount()},
		{"shells", m.Shells()},
		{"genus", m.Genus()},
		{"volume", fmt.Sprintf("%.4f", m.Volume())},
		{"area", fmt.Sprintf("%.4f", m.SurfaceArea())},
		{"min", fmt.Sprintf("%.4f %.4f %.4f", b.Min.X, b.Min.Y, b.Min.Z)},
		{"size", fmt.Sprintf("%.4f %.4f %.4f", size.X, size.Y, size.Z)},
		{"cache", fmt.Sprintf("%d hits, %d misses", st.Hits, st.Misses)},
	})
	t.Render()
}
