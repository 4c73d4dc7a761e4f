package cmd

import (
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marisj/financials/internal/report"
)

var (
	annualDataDir string

	annualCmd = cobra.Command{
		Use:   "annual YYYY",
		Short: "Roll a year of quarter reports up into one annual report",
		Long: `Reads the year's quarter files, written by "quarter pull", and
keeps the rows of annual reports: 10-K filings and their amended and
transitional variants. Quarters not pulled yet are skipped.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			year, err := strconv.Atoi(args[0])
			cobra.CheckErr(err)
			cobra.CheckErr(report.Annual(annualDataDir, year, slog.Default()))
		},
	}
)

func init() {
	rootCmd.AddCommand(&annualCmd)
	annualCmd.Flags().StringVarP(&annualDataDir, "datadir", "d", "data",
		"read and write report files in this directory")
}
