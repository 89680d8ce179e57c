package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"agency-backend/internal/client"
	"github.com/spf13/cobra"
)

func newJobsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect job listings",
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List job postings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var c *client.Client
			var err error
			if all {
				c, err = opts.adminClient()
			} else {
				c, _, err = opts.newClient()
			}
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			items, err := c.ListJobs(ctx, all)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tLOCATION\tTYPE\tACTIVE")
			for _, j := range items {
				title := j.Title
				if j.Featured {
					title += " *"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", j.ID, title, j.Location, j.Type, j.IsActive)
			}
			return tw.Flush()
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include inactive postings (admin)")

	cmd.AddCommand(list)
	return cmd
}
