package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var yearsFlags catalogueFlags

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the years in a catalogue with their record counts",
	RunE:  runYears,
}

func init() {
	yearsFlags.register(yearsCmd, false)
}

func runYears(cmd *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	if err := loadCatalogue(a, out, yearsFlags.file); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	// Keep the Spanish labels as written instead of upper-casing them.
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Año", "Registros"})
	total := 0
	for _, yc := range a.store.Summary() {
		t.AppendRow(table.Row{yc.Year, yc.Count})
		total += yc.Count
	}
	t.AppendFooter(table.Row{"Total", total})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
	return nil
}
