package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fuelatlas/fuelatlas/internal/export"
	"github.com/fuelatlas/fuelatlas/internal/pipeline"
	"github.com/fuelatlas/fuelatlas/internal/store"
	"github.com/fuelatlas/fuelatlas/internal/summary"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export processed tracts",
	Long: `Exports one processed vintage: csv writes the flat tract table, geojson
writes joined tract features with fill colors, xlsx writes the per-state
summary workbook.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		year, _ := cmd.Flags().GetInt("year")
		if year == 0 {
			return fmt.Errorf("--year is required")
		}
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = fmt.Sprintf("tracts_%d.%s", year, format)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		switch format {
		case "csv", "xlsx":
			tracts, err := st.Tracts(ctx, store.TractFilter{Year: year})
			if err != nil {
				return err
			}
			if len(tracts) == 0 {
				return eris.Errorf("year %d has not been processed, run `fuelatlas process` first", year)
			}
			if format == "xlsx" {
				if err := export.WriteXLSX(output, year, summary.ByState(tracts)); err != nil {
					return err
				}
			} else {
				f, err := os.Create(output)
				if err != nil {
					return eris.Wrap(err, "export: create output file")
				}
				defer f.Close() //nolint:errcheck
				if err := export.WriteCSV(f, tracts); err != nil {
					return err
				}
			}

		case "geojson":
			features, err := pipeline.New(st).Features(ctx, year)
			if err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return eris.Wrap(err, "export: create output file")
			}
			defer f.Close() //nolint:errcheck
			if err := export.WriteGeoJSON(f, features); err != nil {
				return err
			}

		default:
			return eris.Errorf("unsupported format %q (csv, geojson, xlsx)", format)
		}

		zap.L().Info("exported vintage",
			zap.Int("year", year),
			zap.String("format", format),
			zap.String("output", output),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().Int("year", 0, "vintage to export")
	exportCmd.Flags().String("format", "csv", "output format: csv, geojson, or xlsx")
	exportCmd.Flags().String("output", "", "output file (default: tracts_<year>.<format>)")
	rootCmd.AddCommand(exportCmd)
}
