// quake visualizes Peruvian seismic catalogues: cluster and heat maps,
// magnitude and depth histograms, and yearly PDF reports.
//
// Usage:
//
//	quake [serve]
//	quake years  --file <catalogue.xlsx>
//	quake render --file <catalogue.xlsx> --year <year> [--kind cluster|heat|magnitude|depth]
//	quake report --file <catalogue.xlsx> --year <year>
//	quake export --file <catalogue.xlsx> --year <year>
//
// Settings come from the environment (see internal/config) and an optional
// YAML file named by QUAKE_CONFIG.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "quake",
	Short: "Seismic event maps, histograms and reports",
	Long:  "quake loads a seismic catalogue spreadsheet, filters it by year, and renders\ncluster maps, heat maps, histograms and PDF reports.",
	// Without a subcommand, run the control panel.
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(yearsCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
