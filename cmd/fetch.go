package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fuelatlas/fuelatlas/internal/fetcher"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download boundary archives",
	Long: `Downloads the cartographic boundary archives for the configured vintages
(per-vintage tract files plus the shared state file) into the data directory
and unpacks them. NHGIS extract CSVs require a registered download and must be
placed in the data directory manually.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		years, err := parseYears(cmd.Flag("years").Value.String())
		if err != nil {
			return err
		}

		f := fetcher.NewHTTPFetcher(fetcher.Options{
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Fetch.Retries,
		})

		type archive struct {
			url  string
			dest string
		}
		archives := []archive{{cfg.Data.StateURL, cfg.Data.Resolve(cfg.Data.StateShapefile)}}
		for _, year := range years {
			v, err := cfg.Vintage(year)
			if err != nil {
				return err
			}
			archives = append(archives, archive{v.TractURL, cfg.Data.Resolve(v.TractShapefile)})
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, a := range archives {
			g.Go(func() error { return fetchArchive(gctx, f, a.url, a.dest) })
		}
		return g.Wait()
	},
}

func init() {
	fetchCmd.Flags().String("years", "", "comma-separated vintages to fetch (default: all configured)")
	rootCmd.AddCommand(fetchCmd)
}

// fetchArchive downloads one boundary zip next to its target shapefile and
// unpacks it. Archives whose shapefile is already present are skipped.
func fetchArchive(ctx context.Context, f fetcher.Fetcher, url, shpPath string) error {
	if url == "" {
		return eris.Errorf("fetch: no url configured for %s", shpPath)
	}
	if fileExists(shpPath) {
		zap.L().Info("shapefile already present, skipping", zap.String("path", shpPath))
		return nil
	}

	destDir := filepath.Dir(shpPath)
	zipPath := filepath.Join(destDir, filepath.Base(url))

	n, err := f.DownloadToFile(ctx, url, zipPath)
	if err != nil {
		return err
	}
	zap.L().Info("downloaded archive",
		zap.String("url", url),
		zap.Int64("bytes", n),
	)

	files, err := fetcher.ExtractZIP(zipPath, destDir)
	if err != nil {
		return err
	}
	shp, err := fetcher.ShapefilePath(files)
	if err != nil {
		return eris.Wrapf(err, "fetch: archive %s", zipPath)
	}
	zap.L().Info("extracted shapefile", zap.String("path", shp))
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
