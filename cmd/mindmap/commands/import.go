package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/mindmap/internal/adapters/importer"
	"go.trai.ch/mindmap/internal/app"
)

func (c *CLI) newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <document.json>",
		Short: "Convert an outline or analysis document into a graph feed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.ImportOptions{Input: args[0]}
			opts.Kind, _ = cmd.Flags().GetString("kind")
			opts.Output, _ = cmd.Flags().GetString("output")
			opts.Document, _ = cmd.Flags().GetString("document")
			return c.app.Import(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringP("kind", "k", "outline", "Document kind: "+strings.Join(importer.Kinds, ", "))
	cmd.Flags().StringP("output", "o", "", "Graph file to write (default: graph from mindmap.yaml)")
	cmd.Flags().String("document", "", "Source document name used for navigation (default: derived from the input)")
	return cmd
}
