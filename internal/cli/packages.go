package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfeldt/modelgraph/pkg/errors"
	"github.com/mfeldt/modelgraph/pkg/model"
)

// packagesCommand creates the packages listing command.
func (c *CLI) packagesCommand() *cobra.Command {
	var opts sourceOpts

	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List the exportable packages of a model source",
		Long: `List the exportable packages of a model source.

Packages are collected depth-first across all open model roots, the roots
themselves excluded, and sorted by name. Use the printed ID with
'export --package' to skip the interactive picker.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPackages(cmd.Context(), opts)
		},
	}

	addSourceFlags(cmd, &opts)
	return cmd
}

func (c *CLI) runPackages(ctx context.Context, opts sourceOpts) error {
	src, err := c.openSource(ctx, opts)
	if err != nil {
		return err
	}
	defer src.close()

	roots, err := src.repo.Roots(ctx)
	if err != nil {
		return err
	}

	pkgs := model.Selectable(model.Collect(roots))
	if len(pkgs) == 0 {
		return errors.New(errors.ErrCodeNoPackages, "model source contains no packages")
	}

	for _, p := range pkgs {
		line := StyleNumber.Render(fmt.Sprintf("%6d", p.ID)) + "  " + StyleValue.Render(p.Name)
		if n := len(p.Diagrams); n > 0 {
			line += "  " + StyleDim.Render(fmt.Sprintf("(%d diagrams)", n))
		}
		fmt.Println(line)
	}
	printNewline()
	printDetail("%d packages", len(pkgs))
	return nil
}
