package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/fuelatlas/fuelatlas/internal/pipeline"
	"github.com/fuelatlas/fuelatlas/internal/render"
	"github.com/fuelatlas/fuelatlas/internal/shape"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the national choropleth for one vintage",
	Long: `Renders the single-vintage national map: contiguous US main panel, Alaska
inset, legend, and title, saved as PNG and PDF.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		year, _ := cmd.Flags().GetInt("year")
		if year == 0 {
			return fmt.Errorf("--year is required")
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

		features, err := pipeline.New(st).Features(ctx, year)
		if err != nil {
			return err
		}
		states, err := loadStates()
		if err != nil {
			return err
		}

		opts := renderOpts(fmt.Sprintf("Primary Heating Fuel by Census Tract, %d", year), noAlaska)
		base := filepath.Join(outDir, fmt.Sprintf("fuel_map_%d", year))
		return render.Save(base, opts, func(dc draw.Canvas) error {
			return render.DrawMap(dc, features, states, opts)
		})
	},
}

func init() {
	renderCmd.Flags().Int("year", 0, "vintage to render")
	renderCmd.Flags().Bool("no-alaska", false, "omit the Alaska inset")
	renderCmd.Flags().String("output", "", "output directory (default: render.output_dir)")
	rootCmd.AddCommand(renderCmd)
}

// renderOpts builds render options from the configuration.
func renderOpts(title string, noAlaska bool) render.Options {
	return render.Options{
		Title:         title,
		Width:         vg.Length(cfg.Render.WidthInches) * vg.Inch,
		Height:        vg.Length(cfg.Render.HeightInches) * vg.Inch,
		DPI:           cfg.Render.DPI,
		AlaskaInset:   cfg.Render.AlaskaInset && !noAlaska,
		ExcludeStates: cfg.Render.ExcludeStates,
	}
}

// loadStates reads the shared state boundary shapefile.
func loadStates() ([]shape.State, error) {
	return shape.ReadStates(cfg.Data.Resolve(cfg.Data.StateShapefile))
}
