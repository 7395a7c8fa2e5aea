package main

import (
	"sales-observer/src/output"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the pipeline once and print every table and insight",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		report, err := a.Service.Refresh(cmd.Context())
		if err != nil {
			return err
		}

		printer := output.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), !noColor)
		return output.RenderReport(printer, report)
	},
}
