package main

import (
	"encoding/json"
	"io"

	"agency-backend/internal/markdown"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var asHTML bool
	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Render a markdown post to blocks or HTML",
		Long:  "Renders a markdown file the same way the blog API does. Output is the JSON block list, or HTML with --html. Use - to read stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			blocks := markdown.Render(string(src))
			out := cmd.OutOrStdout()
			if asHTML {
				_, err = io.WriteString(out, markdown.HTML(blocks))
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(blocks)
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "emit HTML instead of JSON blocks")
	return cmd
}
