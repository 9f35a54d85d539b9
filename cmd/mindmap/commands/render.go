package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mindmap/internal/app"
)

func (c *CLI) newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [graph-file]",
		Short: "Render a graph feed file as SVG, PNG or a text outline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.RenderOptions{}
			if len(args) == 1 {
				opts.Input = args[0]
			}
			opts.Format, _ = cmd.Flags().GetString("format")
			opts.Output, _ = cmd.Flags().GetString("output")
			opts.Width, _ = cmd.Flags().GetFloat64("width")
			opts.Height, _ = cmd.Flags().GetFloat64("height")
			opts.NoMinimap, _ = cmd.Flags().GetBool("no-minimap")
			return c.app.Render(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringP("format", "f", "", "Output format: svg, png or outline (default: from the output extension, else svg)")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().Float64("width", 0, "Viewport width")
	cmd.Flags().Float64("height", 0, "Viewport height")
	cmd.Flags().Bool("no-minimap", false, "Leave out the minimap inset")
	return cmd
}
