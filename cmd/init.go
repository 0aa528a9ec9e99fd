package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fuelatlas/fuelatlas/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.yaml",
	Long:  "Writes the default configuration to ./config.yaml as a starting point for local edits.",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		const path = "config.yaml"
		if !force {
			if _, err := os.Stat(path); err == nil {
				return eris.Errorf("%s already exists, use --force to overwrite", path)
			}
		}

		nested := nestKeys(config.Defaults())
		data, err := yaml.Marshal(nested)
		if err != nil {
			return eris.Wrap(err, "init: marshal defaults")
		}

		header := "# fuelatlas configuration. Values can be overridden with FUELATLAS_* environment variables.\n"
		if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
			return eris.Wrap(err, "init: write config")
		}

		zap.L().Info("wrote default config", zap.String("path", path))
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config.yaml")
	rootCmd.AddCommand(initCmd)
}

// nestKeys converts viper's flat dotted keys into the nested maps yaml
// expects.
func nestKeys(flat map[string]any) map[string]any {
	nested := make(map[string]any)
	for key, val := range flat {
		parts := strings.Split(key, ".")
		m := nested
		for _, part := range parts[:len(parts)-1] {
			child, ok := m[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				m[part] = child
			}
			m = child
		}
		m[parts[len(parts)-1]] = val
	}
	return nested
}
