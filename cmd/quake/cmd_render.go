package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-report/internal/domain"
)

var renderFlags struct {
	catalogueFlags
	kind string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a cluster map, heat map or histogram for one year",
	Long: "Render writes Mapa_Clusteres_<year>.html or Mapa_Calor_<year>.html and opens it,\n" +
		"or writes Histograma_<Field>_<year>.png for the magnitude and depth kinds.",
	RunE: runRender,
}

func init() {
	renderFlags.register(renderCmd, true)
	renderCmd.Flags().StringVarP(&renderFlags.kind, "kind", "k", domain.KindClusterMap.Key(), "Visualization: cluster, heat, magnitude or depth")
}

func runRender(cmd *cobra.Command, _ []string) error {
	kind, err := domain.ParseKind(renderFlags.kind)
	if err != nil {
		return err
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	if err := loadCatalogue(a, out, renderFlags.file); err != nil {
		return err
	}

	switch kind {
	case domain.KindClusterMap, domain.KindHeatMap:
		res, err := a.pipeline.ApplyFilters(cmd.Context(), renderFlags.year, kind)
		return printOutcome(out, res, err)
	case domain.KindMagnitudeHistogram, domain.KindDepthHistogram:
		// No panel on the command line; write the histogram to a file instead.
		view, err := a.store.FilterByYear(renderFlags.year)
		if err != nil {
			return fmt.Errorf("filter catalogue: %w", err)
		}
		path, err := a.visualizer.WriteHistogram(kind, view)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
		return nil
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
	}
}
