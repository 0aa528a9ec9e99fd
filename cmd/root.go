package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fuelatlas/fuelatlas/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "fuelatlas",
	Short:        "Census-tract heating fuel analysis pipeline",
	Long:         "Loads NHGIS ACS 5-year heating-fuel extracts, classifies the dominant fuel of every census tract, and renders national choropleth maps.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
