package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fuelatlas/fuelatlas/internal/pipeline"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Parse and classify the configured vintages",
	Long: `Parses each vintage's raw NHGIS CSV, classifies the dominant heating fuel of
every tract, reads the tract boundary shapefile, and replaces that vintage's
rows in the store.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		years, err := parseYears(cmd.Flag("years").Value.String())
		if err != nil {
			return err
		}
		keep, _ := cmd.Flags().GetBool("keep-existing")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p := pipeline.New(st)
		out := message.NewPrinter(language.AmericanEnglish)

		for _, year := range years {
			v, err := cfg.Vintage(year)
			if err != nil {
				return err
			}

			res, err := p.ProcessYear(ctx, year,
				cfg.Data.Resolve(v.CSV),
				cfg.Data.Resolve(v.TractShapefile),
				pipeline.Options{KeepExisting: keep},
			)
			if err != nil {
				return err
			}
			if res.Skipped {
				out.Printf("%d: kept existing rows\n", year)
				continue
			}
			out.Printf("%d: %d tracts (%d valid, %d ties, %d no-data), %d geometries\n",
				year, res.Tracts, res.Valid, res.Ties, res.NoData, res.Geometries)
		}
		return nil
	},
}

func init() {
	processCmd.Flags().String("years", "", "comma-separated vintages to process (default: all configured)")
	processCmd.Flags().Bool("keep-existing", false, "skip vintages that already have rows in the store")
	rootCmd.AddCommand(processCmd)
}
