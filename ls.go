// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"q3level/filesystem"
	"q3level/maps"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the levels in the search path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listLevels(cmd.OutOrStdout(), search)
	},
}

func listLevels(w io.Writer, src *filesystem.SearchPath) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, n := range src.List(".bsp") {
		fmt.Fprintf(tw, "%s\t%s\n", n, maps.Title(n))
	}
	return tw.Flush()
}
