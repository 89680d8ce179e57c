package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCalendarCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Work with the content calendar",
	}
	cmd.AddCommand(newUpcomingCmd(opts), newExportCmd(opts), newRemindCmd(opts))
	return cmd
}

func newUpcomingCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "upcoming",
		Short: "List due and overdue content tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			events, err := c.Upcoming(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDUE\tTYPE\tSTATUS\tWHEN\tTITLE")
			for _, ev := range events {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					ev.ID, ev.DueDate.Format("Mon Jan 2 15:04"), ev.Type, ev.Status, when(ev.DaysUntil, ev.Overdue), ev.Title)
			}
			return tw.Flush()
		},
	}
}

func when(days int, overdue bool) string {
	switch {
	case overdue:
		return fmt.Sprintf("overdue %dd", -days)
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %dd", days)
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the calendar as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			body, err := c.ExportICS(ctx)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func newRemindCmd(opts *options) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "remind <event-id>",
		Short: "Email a reminder for a calendar event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.adminClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			ev, err := c.SendReminder(ctx, args[0], email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reminder sent for %q\n", ev.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "recipient (defaults to the server's reminder address)")
	return cmd
}
