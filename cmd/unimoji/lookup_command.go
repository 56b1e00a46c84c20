package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"unimoji/internal/emoji"
	"unimoji/internal/lookup"
	"unimoji/internal/oracle"
)

var clipFlagLabels = map[string]string{
	"emoji":    emoji.ClipEmoji,
	"keywords": emoji.ClipKeywords,
	"utf8":     emoji.ClipUTF8,
	"all":      emoji.ClipAll,
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var clip string

	cmd := &cobra.Command{
		Use:   "lookup <query...>",
		Short: "Search emoji by name or keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := ""
			if clip != "" {
				var ok bool
				label, ok = clipFlagLabels[strings.ToLower(strings.TrimSpace(clip))]
				if !ok {
					return fmt.Errorf("unknown --clip value %q (expected emoji, keywords, utf8, or all)", clip)
				}
			}

			p, err := ctx.newPlugin()
			if err != nil {
				return err
			}
			results, err := p.HandleQuery(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return describeLookupError(err)
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return writeJSON(out, results)
			case label != "":
				if results.All != nil {
					text, _ := results.All.Action(label)
					fmt.Fprint(out, text)
				}
				return nil
			}

			if results.Empty() {
				fmt.Fprintf(out, "No emoji match %q\n", results.Query)
				return nil
			}
			fmt.Fprintln(out, renderLookupTable(out, results))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output results as JSON")
	cmd.Flags().StringVar(&clip, "clip", "", "Print one aggregate clip (emoji, keywords, utf8, all) instead of a table")
	return cmd
}

func renderLookupTable(out io.Writer, results lookup.Results) string {
	rows := make([][]string, 0, len(results.Items))
	for _, item := range results.Items {
		keywords, _ := item.Action(emoji.ClipKeywords)
		hexBytes, _ := item.Action(emoji.ClipUTF8)
		rows = append(rows, []string{
			item.Glyph,
			item.Name,
			item.Group,
			keywords,
			hexBytes,
			yesNo(iconExists(item.IconPath)),
		})
	}
	return renderTable(out, []string{"Emoji", "Name", "Group", "Keywords", "UTF-8", "Icon"}, rows, nil)
}

func iconExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

func describeLookupError(err error) error {
	if errors.Is(err, oracle.ErrNotFound) {
		return fmt.Errorf("%w (install uni or set oracle.uni_binary; run `unimoji deps`)", err)
	}
	return err
}
