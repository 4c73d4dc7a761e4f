package quarter

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/marisj/financials/client"
	"github.com/marisj/financials/cmd/internal/common"
	"github.com/marisj/financials/internal/report"
)

var (
	dataDir string

	Cmd = cobra.Command{
		Use:   "quarter",
		Short: "Quarterly extraction from EDGAR full-index filings",
	}

	pullCmd = cobra.Command{
		Use:   "pull [YYYY/QTR#] [YYYY/QTR#]",
		Short: "Extract financial statements from quarters of XBRL filings",
		Example: `
  - Extract all 10-K and 10-Q filings of the first quarter of 2010:

    $ financials quarter pull 2010/QTR1

  - Extract every quarter of 2010:

    $ financials quarter pull 2010/QTR1 2010/QTR4

  - Extract the current quarter:

    $ financials quarter pull`,
		Args: cobra.MaximumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			first := client.NewQtr(time.Now())
			if len(args) > 0 {
				var err error
				first, err = client.ParseQtr(args[0])
				cobra.CheckErr(err)
			}
			last := first
			if len(args) > 1 {
				var err error
				last, err = client.ParseQtr(args[1])
				cobra.CheckErr(err)
			}

			edgar, err := common.NewClient()
			cobra.CheckErr(err)

			p := NewPull(edgar, report.NewWriter(dataDir)).
				WithLogger(slog.Default())
			cobra.CheckErr(p.PullRange(context.Background(), first, last))
		},
	}
)

func init() {
	Cmd.AddCommand(&pullCmd)
	pullCmd.Flags().StringVarP(&dataDir, "datadir", "d", "data",
		"store report files into this directory")
}
