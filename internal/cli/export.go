package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mfeldt/modelgraph/pkg/builder"
	"github.com/mfeldt/modelgraph/pkg/errors"
	"github.com/mfeldt/modelgraph/pkg/graph"
	"github.com/mfeldt/modelgraph/pkg/model"
)

// exportCommand creates the export command, the main entry point of the tool.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		opts      sourceOpts
		packageID int
		output    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a package's diagram graph as JSON",
		Long: `Export a package's diagram graph as JSON.

The export enters the package's main diagram and walks every reachable
element: attributes, external classifiers, linked diagrams, and connectors.
The result is a single pretty-printed JSON file with a "nodes" array and a
deduplicated "edges" array.

Without --package an interactive picker lists the source's packages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(withLogger(cmd.Context(), c.Logger), opts, packageID, output)
		},
	}

	addSourceFlags(cmd, &opts)
	cmd.Flags().IntVarP(&packageID, "package", "p", 0, "ID of the package to export (skips the picker)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config, else current directory)")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, opts sourceOpts, packageID int, output string) error {
	src, err := c.openSource(ctx, opts)
	if err != nil {
		return err
	}
	defer src.close()

	id := packageID
	if id == 0 {
		roots, err := src.repo.Roots(ctx)
		if err != nil {
			return err
		}
		selectable := model.Selectable(model.Collect(roots))
		if len(selectable) == 0 {
			return errors.New(errors.ErrCodeNoPackages, "model source contains no packages")
		}
		picked, err := pickPackage(selectable)
		if err != nil {
			return err
		}
		id = picked.ID
	}

	// Re-resolve by ID: the package may have vanished between listing
	// and selection when the source is live.
	pkg, ok := src.repo.PackageByID(ctx, id)
	if !ok {
		return errors.New(errors.ErrCodePackageNotFound, "package %d not found", id)
	}

	if output == "" {
		output = src.cfg.Export.Dir
	}
	path := filepath.Join(output, graph.Filename)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Exporting %s...", pkg.Name))
	spinner.Start()
	prog := newProgress(loggerFromContext(ctx))

	g := builder.Build(ctx, src.repo, pkg)
	if err := graph.WriteFile(g, path); err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Built graph for %q", pkg.Name))

	if len(pkg.Diagrams) == 0 {
		printWarning("Package %q has no diagrams; exported an empty graph", pkg.Name)
	} else {
		printSuccess("Exported %s", pkg.Name)
	}
	printStats(len(g.Nodes), len(g.Edges), false)
	printFile(path)
	printNextStep("Render it", "modelgraph render "+path)
	return nil
}
