package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-quicksetup/pkg/widgets"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <widget_type>...",
		Short: "Print the renderer identity each widget type resolves to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, tag := range args {
				fmt.Fprintf(w, "%s\t%s\n", tag, widgets.Resolve(tag))
			}
			return w.Flush()
		},
	}
}

func newWidgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "widgets",
		Short: "List the known widget types and their renderers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WIDGET TYPE\tRENDERER")
			for _, entry := range widgets.Table() {
				fmt.Fprintf(w, "%s\t%s\n", entry.Tag, entry.Renderer)
			}
			return w.Flush()
		},
	}
}
