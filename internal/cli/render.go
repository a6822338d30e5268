package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mfeldt/modelgraph/pkg/graph"
	"github.com/mfeldt/modelgraph/pkg/viz"
)

// renderCommand creates the render command for turning an exported graph
// into an SVG diagram.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render an exported graph as SVG",
		Long: `Render an exported graph as SVG.

The input is a JSON file produced by 'export'. Elements become boxes,
external classifier references dashed boxes, and connectors labeled arrows.
Layout is computed with Graphviz in-process; no external tools are needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], output, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with .svg extension)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include element types and attributes in labels")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, detailed bool) error {
	g, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	if output == "" {
		output = strings.TrimSuffix(input, ".json") + ".svg"
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	svg, err := viz.RenderSVG(viz.ToDOT(g, viz.Options{Detailed: detailed}))
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	if err := os.WriteFile(output, svg, 0o644); err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	printSuccess("Rendered %s", input)
	printStats(len(g.Nodes), len(g.Edges), false)
	printFile(output)
	return nil
}
