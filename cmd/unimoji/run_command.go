package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"unimoji/internal/lookup"
	"unimoji/internal/oracle"
	"unimoji/internal/plugin"
)

// runResponse is one line of `unimoji run` output.
type runResponse struct {
	Query  string        `json:"query"`
	Items  []lookup.Item `json:"items"`
	Error  string        `json:"error,omitempty"`
	Output string        `json:"output,omitempty"`
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Answer queries from stdin while reconciling the icon cache",
		Long: "Start icon cache reconciliation in the background, then read one query per\n" +
			"line from stdin and write one JSON result line per query to stdout. Blank\n" +
			"lines yield empty results. On EOF or interrupt the reconciliation is stopped\n" +
			"and in-flight renders are allowed to finish before exiting.",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			p, err := ctx.newPlugin()
			if err != nil {
				return err
			}
			if err := p.Initialize(signalCtx); err != nil {
				return err
			}
			defer p.Finalize()

			return serveQueries(signalCtx, p, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func serveQueries(ctx context.Context, p *plugin.Plugin, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read queries: %w", err)
					}
				default:
				}
				return nil
			}
			if err := writeJSONLine(out, answer(ctx, p, line)); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
		}
	}
}

func answer(ctx context.Context, p *plugin.Plugin, line string) runResponse {
	results, err := p.HandleQuery(ctx, line)
	if err != nil {
		resp := runResponse{Query: strings.TrimSpace(line), Items: []lookup.Item{}, Error: describeLookupError(err).Error()}
		if out, ok := oracle.Output(err); ok {
			resp.Output = out
		}
		return resp
	}
	return runResponse{Query: results.Query, Items: results.List()}
}
