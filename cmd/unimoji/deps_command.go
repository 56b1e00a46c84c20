package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"unimoji/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that uni and convert are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg.Oracle.UniBinary, cfg.Oracle.ConvertBinary))

			rows := make([][]string, 0, len(statuses))
			missing := 0
			for _, status := range statuses {
				detail := status.Detail
				if status.Available {
					detail = status.Description
				} else if !status.Optional {
					missing++
				}
				rows = append(rows, []string{status.Name, status.Command, yesNo(status.Available), detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Dependency", "Command", "Available", "Detail"}, rows, nil))
			if missing > 0 {
				return fmt.Errorf("%d required dependencies missing", missing)
			}
			return nil
		},
	}
}
