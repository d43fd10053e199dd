package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFetchCommand(rt *runtime) *cobra.Command {
	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch content from the CMS",
	}

	fetchCmd.AddCommand(
		&cobra.Command{
			Use:   "chapters",
			Short: "List active chapters",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := rt.newClient()
				if err != nil {
					return err
				}
				chapters, err := c.Chapters(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch chapters: %w", err)
				}
				return rt.print(cmd, chapters)
			},
		},
		&cobra.Command{
			Use:   "page <slug>",
			Short: "Fetch a page by slug",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := rt.newClient()
				if err != nil {
					return err
				}
				page, err := c.Page(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("fetch page: %w", err)
				}
				if page == nil {
					return fmt.Errorf("fetch page: page not found: %s", args[0])
				}
				return rt.print(cmd, page)
			},
		},
		&cobra.Command{
			Use:   "post [slug]",
			Short: "Fetch a post by slug (the first post when no slug is given)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var slug string
				if len(args) > 0 {
					slug = args[0]
				}
				c, err := rt.newClient()
				if err != nil {
					return err
				}
				post, err := c.Post(cmd.Context(), slug)
				if err != nil {
					return fmt.Errorf("fetch post: %w", err)
				}
				if post == nil {
					return fmt.Errorf("fetch post: post not found: %s", slug)
				}
				return rt.print(cmd, post)
			},
		},
		&cobra.Command{
			Use:   "posts",
			Short: "List all posts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := rt.newClient()
				if err != nil {
					return err
				}
				posts, err := c.Posts(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch posts: %w", err)
				}
				return rt.print(cmd, posts)
			},
		},
		&cobra.Command{
			Use:   "json <title>",
			Short: "Fetch a JSON content entry by title",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := rt.newClient()
				if err != nil {
					return err
				}
				blob, err := c.JSON(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("fetch json: %w", err)
				}
				if blob == nil {
					return fmt.Errorf("fetch json: json entry not found: %s", args[0])
				}
				return rt.print(cmd, blob)
			},
		},
		&cobra.Command{
			Use:   "site",
			Short: "Fetch chapters and posts together",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := rt.newClient()
				if err != nil {
					return err
				}
				idx, err := c.SiteIndex(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch site: %w", err)
				}
				return rt.print(cmd, idx)
			},
		},
	)

	return fetchCmd
}
