package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mindmap/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host interactive sessions over HTTP and websocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			return c.app.Serve(cmd.Context(), app.ServeOptions{Addr: addr})
		},
	}
	cmd.Flags().StringP("addr", "a", "", "Listen address (default: server.addr from mindmap.yaml)")
	return cmd
}
