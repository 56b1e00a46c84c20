package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"unimoji/internal/emoji"
)

func newDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "decode <hex bytes...>",
		Short:       "Turn a copied UTF-8 byte string back into its glyph",
		Example:     "  unimoji decode f0 9f 98 80",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			glyph, err := emoji.DecodeUTF8Hex(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), glyph)
			return nil
		},
	}
}
