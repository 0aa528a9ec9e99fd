package main

import (
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg/draw"

	"github.com/fuelatlas/fuelatlas/internal/pipeline"
	"github.com/fuelatlas/fuelatlas/internal/render"
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Render the multi-vintage comparison figure",
	Long: `Renders one map column per vintage with a shared legend across the bottom,
saved as PNG and PDF.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		years, err := parseYears(cmd.Flag("years").Value.String())
		if err != nil {
			return err
		}
		noAlaska, _ := cmd.Flags().GetBool("no-alaska")
		outDir, _ := cmd.Flags().GetString("output")
		if outDir == "" {
			outDir = cfg.Render.OutputDir
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p := pipeline.New(st)
		panels := make([]render.YearPanel, 0, len(years))
		for _, year := range years {
			features, err := p.Features(ctx, year)
			if err != nil {
				return err
			}
			panels = append(panels, render.YearPanel{Year: year, Features: features})
		}

		states, err := loadStates()
		if err != nil {
			return err
		}

		opts := renderOpts("Primary Heating Fuel by Census Tract", noAlaska)
		base := filepath.Join(outDir, "fuel_map_grid")
		return render.Save(base, opts, func(dc draw.Canvas) error {
			return render.DrawGrid(dc, panels, states, opts)
		})
	},
}

func init() {
	gridCmd.Flags().String("years", "", "comma-separated vintages to include (default: all configured)")
	gridCmd.Flags().Bool("no-alaska", false, "omit the Alaska insets")
	gridCmd.Flags().String("output", "", "output directory (default: render.output_dir)")
	rootCmd.AddCommand(gridCmd)
}
