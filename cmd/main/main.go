package main

import (
	"os"

	"sales-observer/src/output"

	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	sourceFlag string
	noColor    bool
	version    = "dev"
)

// -----------------------------------------------------------------------------

var rootCmd = &cobra.Command{
	Use:   "sales-observer",
	Short: "Sales analytics over a transaction table",
	Long: `sales-observer loads a sales transaction table, cleans it, aggregates
revenue by month, category and product, and forecasts each category's
monthly revenue with a linear trend.

Example usage:
  sales-observer report --source sales_data.csv
  sales-observer export --format xlsx --out report.xlsx
  sales-observer serve --config config/default.yaml`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults are used when empty)")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "override source.location")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(serveCmd, reportCmd, exportCmd)
}

// -----------------------------------------------------------------------------

func main() {
	if err := rootCmd.Execute(); err != nil {
		output.NewPrinter(!noColor).Error("%v", err)
		os.Exit(1)
	}
}
