package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fuelatlas/fuelatlas/internal/store"
	"github.com/fuelatlas/fuelatlas/internal/summary"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print national summary statistics",
	Long: `Prints per-vintage national statistics: tract counts, housing-unit totals,
and the mean/median/standard deviation of each fuel's share across valid
tracts.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		years, err := parseYears(cmd.Flag("years").Value.String())
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		out := message.NewPrinter(language.AmericanEnglish)
		for _, year := range years {
			tracts, err := st.Tracts(ctx, store.TractFilter{Year: year})
			if err != nil {
				return err
			}
			if len(tracts) == 0 {
				return eris.Errorf("year %d has not been processed, run `fuelatlas process` first", year)
			}

			s := summary.Summarize(year, tracts)
			out.Printf("%d: %d tracts, %d valid (%d ties, %d no-data), %d occupied housing units\n",
				s.Year, s.Tracts, s.Valid, s.Ties, s.NoData, s.TotalUnits)
			for _, fs := range s.Fuels {
				out.Printf("  %-12s %7d dominant tracts  %12d units  share mean %5.1f%%  median %5.1f%%  sd %5.1f\n",
					fs.Category.Label(), fs.Dominant, fs.Units, fs.MeanShare, fs.MedianShare, fs.StdDevShare)
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("years", "", "comma-separated vintages (default: all configured)")
	rootCmd.AddCommand(statsCmd)
}
