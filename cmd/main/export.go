package main

import (
	"fmt"
	"io"
	"os"

	"sales-observer/src/exporter"
	"sales-observer/src/models"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportView   string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run the pipeline once and write a view as CSV or every view as XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormat != "csv" && exportFormat != "xlsx" {
			return fmt.Errorf("invalid format %q: must be csv or xlsx", exportFormat)
		}
		if exportFormat == "xlsx" && exportOut == "-" {
			return fmt.Errorf("xlsx export needs --out")
		}

		a, err := bootstrap()
		if err != nil {
			return err
		}
		report, err := a.Service.Refresh(cmd.Context())
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOut != "-" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOut, err)
			}
			defer f.Close()
			w = f
		}

		if exportFormat == "xlsx" {
			err = exporter.WriteXLSX(w, report)
		} else {
			err = exporter.WriteCSV(w, exportView, report)
		}
		if err != nil {
			return err
		}
		if exportOut != "-" {
			a.Logger.Info("Wrote %s export to %s", exportFormat, exportOut)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or xlsx")
	exportCmd.Flags().StringVar(&exportView, "view", models.ViewMonthly, "view to export as csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "-", "output file, - for stdout")
}
