package main

import (
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"unimoji/internal/iconcache"
)

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Bring the icon cache in line with uni's emoji list",
		Long: "Delete icons for glyphs uni no longer reports and render the missing ones.\n" +
			"Interrupting stops new renders; renders in progress are allowed to finish.",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			p, err := ctx.newPlugin()
			if err != nil {
				return err
			}
			stats := p.Reconcile(signalCtx)

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, statsView(stats)); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, renderStatsTable(out, p.Status().CacheDir, stats))
			}
			if stats.Err != nil {
				return fmt.Errorf("reconcile: %w", stats.Err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output run statistics as JSON")
	return cmd
}

type statsJSON struct {
	Required           int    `json:"required"`
	Cached             int    `json:"cached"`
	Stale              int    `json:"stale"`
	Missing            int    `json:"missing"`
	Deleted            int    `json:"deleted"`
	DeleteFailures     int    `json:"delete_failures"`
	Dispatched         int    `json:"dispatched"`
	Generated          int    `json:"generated"`
	GenerationFailures int    `json:"generation_failures"`
	Cancelled          bool   `json:"cancelled"`
	Skipped            bool   `json:"skipped"`
	Error              string `json:"error,omitempty"`
	DurationMS         int64  `json:"duration_ms"`
}

func statsView(stats iconcache.Stats) statsJSON {
	view := statsJSON{
		Required:           stats.Required,
		Cached:             stats.Cached,
		Stale:              stats.Stale,
		Missing:            stats.Missing,
		Deleted:            stats.Deleted,
		DeleteFailures:     stats.DeleteFailures,
		Dispatched:         stats.Dispatched,
		Generated:          stats.Generated,
		GenerationFailures: stats.GenerationFailures,
		Cancelled:          stats.Cancelled,
		Skipped:            stats.Skipped,
		DurationMS:         stats.Duration.Milliseconds(),
	}
	if stats.Err != nil {
		view.Error = stats.Err.Error()
	}
	return view
}

func renderStatsTable(out io.Writer, cacheDir string, stats iconcache.Stats) string {
	itoa := strconv.Itoa
	rows := [][]string{
		{"Cache directory", cacheDir},
		{"Required", itoa(stats.Required)},
		{"Cached", itoa(stats.Cached)},
		{"Deleted", fmt.Sprintf("%d of %d", stats.Deleted, stats.Stale)},
		{"Generated", fmt.Sprintf("%d of %d", stats.Generated, stats.Missing)},
		{"Failures", itoa(stats.DeleteFailures + stats.GenerationFailures)},
		{"Cancelled", yesNo(stats.Cancelled)},
		{"Skipped", yesNo(stats.Skipped)},
		{"Duration", stats.Duration.Round(time.Millisecond).String()},
	}
	return renderTable(out, []string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
