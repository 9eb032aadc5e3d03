package main

import (
	"github.com/spf13/cobra"
)

var reportFlags catalogueFlags

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write Reporte_Sismos_<year>.pdf and open it",
	RunE:  runReport,
}

func init() {
	reportFlags.register(reportCmd, true)
}

func runReport(cmd *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	if err := loadCatalogue(a, out, reportFlags.file); err != nil {
		return err
	}
	res, err := a.pipeline.GenerateReport(cmd.Context(), reportFlags.year)
	return printOutcome(out, res, err)
}
