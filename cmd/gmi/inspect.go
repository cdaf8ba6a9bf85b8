package main

import (
	"errors"
	"fmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gmi/internal/domain/ghost"
	"gmi/internal/index"
	"io"
	"time"
)

func newInspectCmd() *cobra.Command {
	var (
		path   string
		tag    string
		author string
		post   string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show what an export index contains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return errors.New("--index is required")
			}
			st, err := index.Open(index.OpenOptions{Path: path, ReadOnly: true})
			if err != nil {
				return fmt.Errorf("open index: %w", err)
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			switch {
			case post != "":
				return inspectPost(out, st, post)
			case tag != "":
				posts, err := st.ListByTag(tag)
				if err != nil {
					return err
				}
				renderPosts(out, "Tag: "+tag, posts)
				return nil
			case author != "":
				posts, err := st.ListByAuthor(author)
				if err != nil {
					return err
				}
				renderPosts(out, "Author: "+author, posts)
				return nil
			default:
				return inspectOverview(out, st)
			}
		},
	}

	cmd.Flags().StringVar(&path, "index", "", "index file written with --index")
	cmd.Flags().StringVar(&tag, "tag", "", "list posts carrying the tag with this slug")
	cmd.Flags().StringVar(&author, "author", "", "list posts by the user with this slug")
	cmd.Flags().StringVar(&post, "post", "", "show the post with this slug")
	return cmd
}

func inspectOverview(w io.Writer, st *index.Store) error {
	stats, err := st.Stats()
	if err != nil {
		if errors.Is(err, index.ErrNotFound) {
			return errors.New("index is empty")
		}
		return err
	}
	tags, err := st.ListTags()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Ghost %s export from %s: %d posts, %d tags, %d users\n",
		stats.Meta.Version,
		time.UnixMilli(stats.Meta.ExportedOn).UTC().Format(time.RFC3339),
		stats.Posts, stats.Tags, stats.Users)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Tag", "Slug", "Posts"})
	for _, tc := range tags {
		t.AppendRow(table.Row{tc.Tag.ID, tc.Tag.Name, tc.Tag.Slug, tc.Posts})
	}
	t.Render()
	return nil
}

func inspectPost(w io.Writer, st *index.Store, slug string) error {
	p, err := st.GetPost(slug)
	if err != nil {
		return fmt.Errorf("post %q: %w", slug, err)
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"ID", p.ID},
		{"Title", p.Title},
		{"Slug", p.Slug},
		{"Status", p.Status},
		{"Featured", p.Featured == 1},
		{"Published", formatTime(p.PublishedAt)},
		{"Feature image", p.FeatureImage},
		{"Excerpt", p.CustomExcerpt},
		{"HTML bytes", len(p.HTML)},
	})
	t.Render()
	return nil
}

func renderPosts(w io.Writer, title string, posts []ghost.Post) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"ID", "Title", "Slug", "Status", "Published"})
	for _, p := range posts {
		t.AppendRow(table.Row{p.ID, p.Title, p.Slug, p.Status, formatTime(p.PublishedAt)})
	}
	t.Render()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
