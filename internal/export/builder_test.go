package export

import (
	"gmi/internal/domain/content"
	"gmi/internal/domain/ghost"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func doc(fm content.Frontmatter) content.ProcessedDocument {
	return content.ProcessedDocument{Frontmatter: fm, HTML: "<p>body</p>", Path: "x.md"}
}

func fmWith(f func(*content.Frontmatter)) content.Frontmatter {
	fm := content.DefaultFrontmatter()
	f(&fm)
	return fm
}

func TestBuildSinglePostWithDefaults(t *testing.T) {
	d := content.ProcessedDocument{
		Frontmatter: fmWith(func(fm *content.Frontmatter) {
			fm.Title = "Test Post"
			fm.Date = "2024-01-15"
			fm.Author = "John Doe"
			fm.Tags = []string{"rust", "test"}
			fm.Slug = "test-post"
			fm.Description = "Test description"
		}),
		Markdown: "# Hello World",
		HTML:     "<h1>Hello World</h1>",
		Path:     "test.md",
	}

	imp := Build([]content.ProcessedDocument{d}, Options{
		DefaultAuthor: "Default Author",
		DefaultTags:   []string{"default"},
		Now:           clock,
	})
	data := imp.Data

	require.Len(t, data.Posts, 1)
	assert.Equal(t, "Test Post", data.Posts[0].Title)

	require.Len(t, data.Tags, 3)
	assert.Equal(t, []string{"default", "rust", "test"}, tagNames(data.Tags))
	require.Len(t, data.Users, 2)
	assert.Equal(t, "Default Author", data.Users[0].Name)
	assert.Equal(t, "John Doe", data.Users[1].Name)
	assert.Len(t, data.PostsTags, 2)
	assert.Len(t, data.PostsAuthors, 1)
	assert.Empty(t, data.RolesUsers)

	// default user 1, default tag 2, post 3, rust 4, link 5, test 6, link 7, john 8, link 9
	assert.Equal(t, 1, data.Users[0].ID)
	assert.Equal(t, 2, data.Tags[0].ID)
	post := data.Posts[0]
	assert.Equal(t, 3, post.ID)
	assert.Equal(t, []ghost.PostTag{{ID: 5, PostID: 3, TagID: 4}, {ID: 7, PostID: 3, TagID: 6}}, data.PostsTags)
	assert.Equal(t, []ghost.PostAuthor{{ID: 9, PostID: 3, AuthorID: 8}}, data.PostsAuthors)

	assert.Equal(t, "test-post", post.Slug)
	assert.Equal(t, "<h1>Hello World</h1>", post.HTML)
	assert.Equal(t, "published", post.Status)
	assert.Equal(t, "post", post.Type)
	assert.Equal(t, "public", post.Visibility)
	assert.Equal(t, 0, post.Featured)
	assert.Equal(t, "Test description", post.CustomExcerpt)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *post.PublishedAt)
	assert.Equal(t, fixedNow, post.CreatedAt)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)

	assert.Equal(t, "john-doe", data.Users[1].Slug)
	assert.Equal(t, "john-doe@example.com", data.Users[1].Email)
	assert.Equal(t, fixedNow.UnixMilli(), imp.Meta.ExportedOn)
	assert.Equal(t, "5.75.1", imp.Meta.Version)
}

func TestBuildDocumentWithoutFrontMatter(t *testing.T) {
	imp := Build([]content.ProcessedDocument{doc(content.DefaultFrontmatter())}, Options{Now: clock})
	data := imp.Data

	require.Len(t, data.Posts, 1)
	assert.Equal(t, "Untitled Post 1", data.Posts[0].Title)
	assert.Equal(t, "untitled-post-1", data.Posts[0].Slug)
	assert.Equal(t, fixedNow, *data.Posts[0].PublishedAt)

	require.Len(t, data.Tags, 1)
	assert.Equal(t, ghost.Tag{ID: 1, Name: "General", Slug: "general", CreatedAt: fixedNow, UpdatedAt: fixedNow}, data.Tags[0])

	require.Len(t, data.Users, 1)
	assert.Equal(t, "Default Author", data.Users[0].Name)
	assert.Equal(t, "default-author", data.Users[0].Slug)
	assert.Equal(t, "default-author@example.com", data.Users[0].Email)
	assert.Empty(t, data.PostsTags)
	require.Len(t, data.PostsAuthors, 1)
	assert.Equal(t, data.Users[0].ID, data.PostsAuthors[0].AuthorID)
}

func TestBuildDeduplicatesTagsAndUsersAcrossDocuments(t *testing.T) {
	docs := []content.ProcessedDocument{
		doc(fmWith(func(fm *content.Frontmatter) {
			fm.Title = "One"
			fm.Tags = []string{"rust", "go"}
			fm.Author = "Ann"
		})),
		doc(fmWith(func(fm *content.Frontmatter) {
			fm.Title = "Two"
			fm.Tags = []string{"rust", "Rust", "rust"}
			fm.Authors = []string{"Bob", "Ann"}
		})),
	}
	data := Build(docs, Options{Now: clock}).Data

	assert.Equal(t, []string{"rust", "go", "Rust"}, tagNames(data.Tags))
	assert.Equal(t, []string{"Ann", "Bob"}, userNames(data.Users))

	rustID := data.Tags[0].ID
	var rustLinks int
	for _, pt := range data.PostsTags {
		if pt.TagID == rustID {
			rustLinks++
		}
	}
	// one from the first post, two from the duplicated name in the second
	assert.Equal(t, 3, rustLinks)
	assert.Len(t, data.PostsTags, 5)

	second := data.Posts[1].ID
	var authors []int
	for _, pa := range data.PostsAuthors {
		if pa.PostID == second {
			authors = append(authors, pa.AuthorID)
		}
	}
	assert.Equal(t, []int{data.Users[1].ID, data.Users[0].ID}, authors)
}

func TestBuildDefaultsRegisteredFirst(t *testing.T) {
	docs := []content.ProcessedDocument{
		doc(fmWith(func(fm *content.Frontmatter) { fm.Tags = []string{"news"}; fm.Author = "Editor" })),
	}
	data := Build(docs, Options{
		DefaultAuthor: "Editor",
		DefaultTags:   []string{"news", "blog", "news"},
		Now:           clock,
	}).Data

	assert.Equal(t, []string{"Editor"}, userNames(data.Users))
	assert.Equal(t, 1, data.Users[0].ID)
	assert.Equal(t, []string{"news", "blog"}, tagNames(data.Tags))
	assert.Equal(t, []int{2, 3}, []int{data.Tags[0].ID, data.Tags[1].ID})
	assert.Equal(t, 4, data.Posts[0].ID)
	assert.Equal(t, 2, data.PostsTags[0].TagID)
	assert.Equal(t, 1, data.PostsAuthors[0].AuthorID)
}

func TestBuildRunDefaultAuthorUsedWhenDocumentHasNone(t *testing.T) {
	data := Build([]content.ProcessedDocument{doc(content.DefaultFrontmatter())}, Options{DefaultAuthor: "Site Owner", Now: clock}).Data

	assert.Equal(t, []string{"Site Owner"}, userNames(data.Users))
	assert.Equal(t, data.Users[0].ID, data.PostsAuthors[0].AuthorID)
}

func TestBuildPostFieldResolution(t *testing.T) {
	tests := []struct {
		name  string
		fm    content.Frontmatter
		check func(t *testing.T, p ghost.Post)
	}{
		{
			name: "image wins over images",
			fm:   fmWith(func(fm *content.Frontmatter) { fm.Image = "a.png"; fm.Images = []string{"b.png"} }),
			check: func(t *testing.T, p ghost.Post) {
				assert.Equal(t, "a.png", p.FeatureImage)
			},
		},
		{
			name: "first of images",
			fm:   fmWith(func(fm *content.Frontmatter) { fm.Images = []string{"b.png", "c.png"} }),
			check: func(t *testing.T, p ghost.Post) {
				assert.Equal(t, "b.png", p.FeatureImage)
			},
		},
		{
			name: "no image",
			fm:   content.DefaultFrontmatter(),
			check: func(t *testing.T, p ghost.Post) {
				assert.Empty(t, p.FeatureImage)
			},
		},
		{
			name: "featured",
			fm:   fmWith(func(fm *content.Frontmatter) { fm.Featured = true }),
			check: func(t *testing.T, p ghost.Post) {
				assert.Equal(t, 1, p.Featured)
			},
		},
		{
			name: "draft beats status",
			fm:   fmWith(func(fm *content.Frontmatter) { fm.Draft = true; fm.Status = "published" }),
			check: func(t *testing.T, p ghost.Post) {
				assert.Equal(t, "draft", p.Status)
			},
		},
		{
			name: "explicit status",
			fm:   fmWith(func(fm *content.Frontmatter) { fm.Status = "draft" }),
			check: func(t *testing.T, p ghost.Post) {
				assert.Equal(t, "draft", p.Status)
			},
		},
		{
			name: "summary when no description",
			fm:   fmWith(func(fm *content.Frontmatter) { fm.Summary = "short" }),
			check: func(t *testing.T, p ghost.Post) {
				assert.Equal(t, "short", p.CustomExcerpt)
			},
		},
		{
			name: "slug from title",
			fm:   fmWith(func(fm *content.Frontmatter) { fm.Title = "Hello, World!" }),
			check: func(t *testing.T, p ghost.Post) {
				assert.Equal(t, "hello-world", p.Slug)
			},
		},
		{
			name: "explicit slug kept verbatim",
			fm:   fmWith(func(fm *content.Frontmatter) { fm.Title = "Hello"; fm.Slug = "My_Custom" }),
			check: func(t *testing.T, p ghost.Post) {
				assert.Equal(t, "My_Custom", p.Slug)
			},
		},
		{
			name: "unparseable date falls back to now",
			fm:   fmWith(func(fm *content.Frontmatter) { fm.Date = "sometime last spring" }),
			check: func(t *testing.T, p ghost.Post) {
				assert.Equal(t, fixedNow, *p.PublishedAt)
			},
		},
		{
			name: "date with offset converted to UTC",
			fm:   fmWith(func(fm *content.Frontmatter) { fm.Date = "2024-06-01T10:00:00+02:00" }),
			check: func(t *testing.T, p ghost.Post) {
				assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), *p.PublishedAt)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Build([]content.ProcessedDocument{doc(tt.fm)}, Options{Now: clock}).Data
			require.Len(t, data.Posts, 1)
			tt.check(t, data.Posts[0])
		})
	}
}

func TestBuildUntitledNumbering(t *testing.T) {
	docs := []content.ProcessedDocument{
		doc(content.DefaultFrontmatter()),
		doc(fmWith(func(fm *content.Frontmatter) { fm.Title = "Named" })),
		doc(content.DefaultFrontmatter()),
	}
	data := Build(docs, Options{Now: clock}).Data

	assert.Equal(t, "Untitled Post 1", data.Posts[0].Title)
	assert.Equal(t, "Named", data.Posts[1].Title)
	assert.Equal(t, "Untitled Post 3", data.Posts[2].Title)
}

func TestBuildIDsArePairwiseDistinct(t *testing.T) {
	var docs []content.ProcessedDocument
	names := []string{"a", "b", "c", "d"}
	for i := 0; i < 12; i++ {
		i := i
		docs = append(docs, doc(fmWith(func(fm *content.Frontmatter) {
			fm.Tags = []string{names[i%4], names[(i+1)%4]}
			fm.Authors = []string{"u" + names[i%3]}
		})))
	}
	data := Build(docs, Options{DefaultAuthor: "root", DefaultTags: []string{"x"}, Now: clock}).Data

	seen := map[int]string{}
	add := func(kind string, id int) {
		assert.Positive(t, id)
		if prev, ok := seen[id]; ok {
			t.Errorf("id %d used by %s and %s", id, prev, kind)
		}
		seen[id] = kind
	}
	for _, p := range data.Posts {
		add("post", p.ID)
	}
	for _, tg := range data.Tags {
		add("tag", tg.ID)
	}
	for _, u := range data.Users {
		add("user", u.ID)
	}
	for _, pt := range data.PostsTags {
		add("posts_tags", pt.ID)
	}
	for _, pa := range data.PostsAuthors {
		add("posts_authors", pa.ID)
	}

	assert.Len(t, data.Posts, 12)
	assert.Len(t, data.Tags, 5)
	assert.Len(t, data.Users, 4)
	assert.Len(t, seen, 12+5+4+24+12)
	assert.Equal(t, 12+5+4+24+12, maxKey(seen))
}

func TestBuildJoinRowsReferenceExistingEntities(t *testing.T) {
	docs := []content.ProcessedDocument{
		doc(fmWith(func(fm *content.Frontmatter) { fm.Tags = []string{"a", "b"}; fm.Author = "x" })),
		doc(fmWith(func(fm *content.Frontmatter) { fm.Tags = []string{"b"}; fm.Authors = []string{"y", "x"} })),
	}
	data := Build(docs, Options{Now: clock}).Data

	posts, tags, users := map[int]bool{}, map[int]bool{}, map[int]bool{}
	for _, p := range data.Posts {
		posts[p.ID] = true
	}
	for _, tg := range data.Tags {
		tags[tg.ID] = true
	}
	for _, u := range data.Users {
		users[u.ID] = true
	}
	for _, pt := range data.PostsTags {
		assert.True(t, posts[pt.PostID])
		assert.True(t, tags[pt.TagID])
	}
	for _, pa := range data.PostsAuthors {
		assert.True(t, posts[pa.PostID])
		assert.True(t, users[pa.AuthorID])
	}
}

func TestBuilderIncremental(t *testing.T) {
	b := NewBuilder(Options{DefaultTags: []string{"t"}, Now: clock})
	b.Add(doc(fmWith(func(fm *content.Frontmatter) { fm.Title = "A"; fm.Tags = []string{"t"} })))
	b.Add(doc(fmWith(func(fm *content.Frontmatter) { fm.Title = "B" })))
	imp := b.Finish()

	assert.Equal(t, []string{"A", "B"}, []string{imp.Data.Posts[0].Title, imp.Data.Posts[1].Title})
	assert.Equal(t, 1, imp.Data.PostsTags[0].TagID)
}

func TestBuildUsesCurrentTimeByDefault(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)
	imp := Build([]content.ProcessedDocument{doc(content.DefaultFrontmatter())}, Options{})
	after := time.Now().UTC().Add(time.Second)

	created := imp.Data.Posts[0].CreatedAt
	assert.True(t, created.After(before) && created.Before(after))
	assert.Equal(t, time.UTC, created.Location())
}

func tagNames(tags []ghost.Tag) []string {
	var out []string
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}

func userNames(users []ghost.User) []string {
	var out []string
	for _, u := range users {
		out = append(out, u.Name)
	}
	return out
}

func maxKey(m map[int]string) int {
	hi := 0
	for k := range m {
		if k > hi {
			hi = k
		}
	}
	return hi
}
