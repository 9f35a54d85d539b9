package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mindmap/internal/app"
)

func (c *CLI) newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [graph-file]",
		Short: "Explore a graph feed file in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.ViewOptions{}
			if len(args) == 1 {
				opts.Input = args[0]
			}
			opts.Output, _ = cmd.Flags().GetString("output")
			return c.app.View(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringP("output", "o", "auto", "Output mode: auto, tui or linear")
	return cmd
}
