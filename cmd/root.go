package cmd

import (
	"fmt"

	dotenv "github.com/dsh2dsh/expx-dotenv"
	"github.com/spf13/cobra"

	"github.com/marisj/financials/cmd/db"
	"github.com/marisj/financials/cmd/quarter"
)

var rootCmd = cobra.Command{
	Use:   "financials",
	Short: "Extract financial statements from SEC EDGAR XBRL filings",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvs()
	},
}

func init() {
	rootCmd.AddCommand(&quarter.Cmd)
	rootCmd.AddCommand(&db.Cmd)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func loadEnvs() error {
	if err := dotenv.New().WithDepth(1).Load(); err != nil {
		return fmt.Errorf("load financials envs: %w", err)
	}
	return nil
}
