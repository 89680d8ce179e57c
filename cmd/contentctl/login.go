package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"agency-backend/internal/client"
	"github.com/spf13/cobra"
)

func newLoginCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Verify and save the admin password",
		Long:  "Reads the admin password from --password, CONTENTCTL_PASSWORD or stdin, checks it against the API and saves it to the session file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := opts.password
			if password == "" {
				password = envOr("CONTENTCTL_PASSWORD", "")
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Admin password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}
			if password == "" {
				return errNoPassword
			}

			session, err := client.NewSession(client.FileStore{Path: opts.session})
			if err != nil {
				return err
			}
			if err := session.Set(password); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			c := client.New(opts.apiURL, session)
			if _, err := c.ListBlog(ctx, client.BlogQuery{Drafts: true, Limit: 1}); err != nil {
				if errors.Is(err, client.ErrUnauthorized) {
					return errors.New("password rejected")
				}
				_ = session.Clear()
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", opts.apiURL)
			return nil
		},
	}
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved admin password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := (client.FileStore{Path: opts.session}).Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
