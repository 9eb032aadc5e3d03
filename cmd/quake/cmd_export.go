package main

import (
	"github.com/spf13/cobra"
)

var exportFlags catalogueFlags

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Publish one year's records to KAFKA_TOPIC",
	RunE:  runExport,
}

func init() {
	exportFlags.register(exportCmd, true)
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	if err := loadCatalogue(a, out, exportFlags.file); err != nil {
		return err
	}
	res, err := a.pipeline.Export(cmd.Context(), exportFlags.year)
	return printOutcome(out, res, err)
}
