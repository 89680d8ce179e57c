package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"agency-backend/internal/blog"
	"agency-backend/internal/client"
	"github.com/spf13/cobra"
)

func newBlogCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "List, show, push and delete blog posts",
	}
	cmd.AddCommand(newBlogListCmd(opts), newBlogShowCmd(opts), newBlogPushCmd(opts), newBlogDeleteCmd(opts))
	return cmd
}

func newBlogListCmd(opts *options) *cobra.Command {
	var q client.BlogQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blog posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var c *client.Client
			var err error
			if q.Drafts {
				c, err = opts.adminClient()
			} else {
				c, _, err = opts.newClient()
			}
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			list, err := c.ListBlog(ctx, q)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tSLUG\tTITLE")
			for _, p := range list.Items {
				status := "draft"
				if p.IsPublished {
					status = "published"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Date, status, p.Slug, p.Title)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d posts\n", len(list.Items), list.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Category, "category", "", "only posts in this category")
	cmd.Flags().StringVar(&q.Tag, "tag", "", "only posts with this tag")
	cmd.Flags().IntVar(&q.Limit, "limit", 20, "maximum posts to list")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "posts to skip")
	cmd.Flags().BoolVar(&q.Drafts, "drafts", false, "include unpublished posts (admin)")
	return cmd
}

func newBlogDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a blog post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.adminClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			if err := c.DeleteBlog(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %s\n", args[0])
			return nil
		},
	}
}

func newBlogShowCmd(opts *options) *cobra.Command {
	var asHTML bool
	cmd := &cobra.Command{
		Use:   "show <id|slug>",
		Short: "Show a published post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			view, err := c.GetBlog(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s | %s | %s | %s\n\n", view.Title, view.Date, view.Author, view.Category, view.ReadTime)
			if asHTML {
				_, err = io.WriteString(out, view.HTML)
				return err
			}
			if view.Excerpt != "" {
				fmt.Fprintln(out, view.Excerpt)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "print the rendered body")
	return cmd
}

type pushFlags struct {
	id       string
	title    string
	slug     string
	author   string
	category string
	tags     []string
	date     string
	publish  bool
}

func newBlogPushCmd(opts *options) *cobra.Command {
	var f pushFlags
	cmd := &cobra.Command{
		Use:   "push <file|->",
		Short: "Create a post from a markdown file, or replace one with --id",
		Long:  "Creates a blog post from a markdown file. The title defaults to the file's leading '# ' heading. With --id the existing post is replaced.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			req, err := f.request(string(src))
			if err != nil {
				return err
			}

			c, err := opts.adminClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			var post blog.Post
			verb := "Created"
			if f.id != "" {
				post, err = c.UpdateBlog(ctx, f.id, req)
				verb = "Updated"
			} else {
				post, err = c.CreateBlog(ctx, req)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s post %s (%s)\n", verb, post.ID, post.Slug)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.id, "id", "", "replace the post with this id")
	cmd.Flags().StringVar(&f.title, "title", "", "post title (default: the leading # heading)")
	cmd.Flags().StringVar(&f.slug, "slug", "", "post slug (default: derived from the title)")
	cmd.Flags().StringVar(&f.author, "author", "", "author name")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "tag, repeatable")
	cmd.Flags().StringVar(&f.date, "date", "", "publication date, YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&f.publish, "publish", false, "publish immediately")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

var errNoTitle = errors.New("no title: pass --title or start the file with a '# ' heading")

func (f pushFlags) request(src string) (blog.UpsertRequest, error) {
	title := strings.TrimSpace(f.title)
	if title == "" {
		title = leadingTitle(src)
	}
	if title == "" {
		return blog.UpsertRequest{}, errNoTitle
	}
	publish := f.publish
	return blog.UpsertRequest{
		Title:       title,
		Slug:        f.slug,
		Content:     src,
		Author:      f.author,
		Category:    f.category,
		Tags:        f.tags,
		Date:        f.date,
		IsPublished: &publish,
	}, nil
}

// leadingTitle returns the text of a '# ' heading on the first non-blank
// line, which the renderer drops from the body.
func leadingTitle(src string) string {
	for _, line := range strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
		return ""
	}
	return ""
}

func readSource(cmd *cobra.Command, name string) ([]byte, error) {
	var src []byte
	var err error
	if name == "-" {
		src, err = io.ReadAll(cmd.InOrStdin())
	} else {
		src, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown: %w", err)
	}
	return src, nil
}
