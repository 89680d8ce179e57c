package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"agency-backend/internal/cache"
	"agency-backend/internal/client"
	"github.com/spf13/cobra"
)

type options struct {
	apiURL   string
	password string
	session  string
	timeout  time.Duration
	verbose  bool
	stderr   io.Writer
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "contentctl",
		Short:         "Manage agency content",
		Long:          "contentctl renders markdown posts and manages blog posts, job listings and the content calendar through the agency API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.stderr = cmd.ErrOrStderr()
		},
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("CONTENTCTL_API", "http://localhost:8080"), "API base URL")
	root.PersistentFlags().StringVar(&opts.password, "password", "", "admin password (overrides CONTENTCTL_PASSWORD and the saved session)")
	root.PersistentFlags().StringVar(&opts.session, "session-file", defaultSessionPath(), "where login stores the admin password")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "request timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests and cache hits to stderr")

	root.AddCommand(
		newRenderCmd(),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newBlogCmd(opts),
		newJobsCmd(opts),
		newCalendarCmd(opts),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "contentctl", "session")
}

// newClient builds an API client. An explicit password, from the flag or
// CONTENTCTL_PASSWORD, is used for this run only; otherwise the password
// saved by login is used.
func (o *options) newClient() (*client.Client, *client.Session, error) {
	var session *client.Session
	var err error

	password := o.password
	if password == "" {
		password = os.Getenv("CONTENTCTL_PASSWORD")
	}
	if password != "" {
		session, err = client.NewSession(nil)
		if err == nil {
			err = session.Set(password)
		}
	} else {
		session, err = client.NewSession(client.FileStore{Path: o.session})
	}
	if err != nil {
		return nil, nil, err
	}

	c := client.New(o.apiURL, session, client.WithCache(cache.NewMemory(), time.Minute), client.WithLogger(o.logger()))
	return c, session, nil
}

func (o *options) logger() *slog.Logger {
	if !o.verbose || o.stderr == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(o.stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var errNoPassword = errors.New("no admin password: run `contentctl login`, pass --password or set CONTENTCTL_PASSWORD")

func (o *options) adminClient() (*client.Client, error) {
	c, session, err := o.newClient()
	if err != nil {
		return nil, err
	}
	if session.Password() == "" {
		return nil, errNoPassword
	}
	return c, nil
}
