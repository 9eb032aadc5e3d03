package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-report/internal/pipeline"
)

// catalogueFlags are shared by every one-shot subcommand.
type catalogueFlags struct {
	file string
	year int
}

func (f *catalogueFlags) register(cmd *cobra.Command, withYear bool) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Catalogue spreadsheet (.xlsx) (required)")
	_ = cmd.MarkFlagRequired("file")
	if withYear {
		cmd.Flags().IntVarP(&f.year, "year", "y", 0, "Calendar year to select (required)")
		_ = cmd.MarkFlagRequired("year")
	}
}

// loadCatalogue loads the file into the app's pipeline.
func loadCatalogue(a *app, out io.Writer, path string) error {
	res, err := a.pipeline.LoadData(path)
	if err != nil {
		return errors.New(res.Message)
	}
	fmt.Fprintln(out, res.Status)
	return nil
}

// printOutcome prints an action outcome and turns warnings and failures into
// command errors so scripts see a non-zero exit.
func printOutcome(out io.Writer, res pipeline.Outcome, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %s", res.Title, res.Message)
	}
	if res.Severity == pipeline.SeverityWarning {
		return fmt.Errorf("%s: %s", res.Title, res.Message)
	}
	fmt.Fprintln(out, res.Message)
	if res.Artifact != "" {
		fmt.Fprintln(out, res.Artifact)
	}
	return nil
}
