package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fuelatlas/fuelatlas/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store contents and load history",
	Long:  "Displays per-vintage row counts and the most recent load-log entries.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		statuses, err := st.YearStatuses(ctx)
		if err != nil {
			return err
		}
		if len(statuses) == 0 {
			zap.L().Info("store is empty, run 'fuelatlas process' to load a vintage")
			return nil
		}
		formatYearStatuses(os.Stdout, statuses)

		loads, err := st.Loads(ctx, 10)
		if err != nil {
			return err
		}
		fmt.Println()
		formatLoads(os.Stdout, loads)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// formatYearStatuses writes a tabular representation of vintage contents to w.
func formatYearStatuses(out io.Writer, statuses []model.YearStatus) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "YEAR\tTRACTS\tVALID\tTIES\tNO-DATA\tGEOMETRIES\tLAST LOAD")
	_, _ = fmt.Fprintln(w, "----\t------\t-----\t----\t-------\t----------\t---------")
	for _, s := range statuses {
		last := "-"
		if !s.LastLoadedAt.IsZero() {
			last = s.LastLoadedAt.Local().Format("2006-01-02 15:04")
		}
		_, _ = fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			s.Year, s.Tracts, s.Valid, s.Ties, s.NoData, s.Geometries, last)
	}
	_ = w.Flush()
}

// formatLoads writes the recent load-log entries to w.
func formatLoads(out io.Writer, loads []model.LoadRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "LOADED\tYEAR\tKIND\tROWS\tDURATION\tSOURCE")
	_, _ = fmt.Fprintln(w, "------\t----\t----\t----\t--------\t------")
	for _, l := range loads {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\t%s\n",
			l.LoadedAt.Local().Format("2006-01-02 15:04"),
			l.Year, l.Kind, l.Rows,
			l.Duration.Round(time.Millisecond),
			l.Source,
		)
	}
	_ = w.Flush()
}
