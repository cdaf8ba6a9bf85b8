// Package export folds processed documents into a Ghost import dataset.
package export

import (
	"fmt"
	"gmi/internal/domain/content"
	"gmi/internal/domain/ghost"
	"gmi/internal/normalize"
	"time"
)

type Options struct {
	// DefaultAuthor, when set, is registered before any document and used
	// for documents naming no author.
	DefaultAuthor string
	// DefaultTags are registered up front; duplicates collapse.
	DefaultTags []string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Builder owns the id counter and the tag/user dedup maps for one run.
// Documents must be added in their final order; a Builder is not safe for
// concurrent use.
type Builder struct {
	now           func() time.Time
	defaultAuthor string

	nextID int
	tags   map[string]int
	users  map[string]int
	posts  int

	data ghost.Data
}

func NewBuilder(opts Options) *Builder {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	b := &Builder{
		now:           func() time.Time { return now().UTC() },
		defaultAuthor: opts.DefaultAuthor,
		nextID:        1,
		tags:          make(map[string]int),
		users:         make(map[string]int),
		data: ghost.Data{
			Posts: []ghost.Post{},
			Tags:  []ghost.Tag{},
			Users: []ghost.User{},
		},
	}

	if opts.DefaultAuthor != "" {
		b.userID(opts.DefaultAuthor)
	}
	for _, name := range opts.DefaultTags {
		b.tagID(name)
	}
	return b
}

// Build runs a fresh Builder over docs.
func Build(docs []content.ProcessedDocument, opts Options) ghost.Import {
	b := NewBuilder(opts)
	for _, doc := range docs {
		b.Add(doc)
	}
	return b.Finish()
}

func (b *Builder) allocID() int {
	id := b.nextID
	b.nextID++
	return id
}

// Add appends one post plus its tag and author links.
func (b *Builder) Add(doc content.ProcessedDocument) {
	fm := doc.Frontmatter
	b.posts++

	postID := b.allocID()
	now := b.now()

	title := fm.Title
	if title == "" {
		title = fmt.Sprintf("Untitled Post %d", b.posts)
	}
	slug := fm.Slug
	if slug == "" {
		slug = normalize.Slug(title)
	}

	featured := 0
	if fm.Featured {
		featured = 1
	}

	published := now
	if fm.Date != "" {
		published = normalize.DateOr(fm.Date, now)
	}

	b.data.Posts = append(b.data.Posts, ghost.Post{
		ID:                       postID,
		Title:                    title,
		Slug:                     slug,
		HTML:                     doc.HTML,
		FeatureImage:             fm.FeatureImage(),
		Featured:                 featured,
		Status:                   fm.PostStatus(),
		Type:                     ghost.TypePost,
		PublishedAt:              &published,
		CreatedAt:                now,
		UpdatedAt:                now,
		CustomExcerpt:            fm.Excerpt(),
		Visibility:               ghost.VisibilityPublic,
		ShowTitleAndFeatureImage: 1,
		EmailOnly:                0,
	})

	for _, name := range fm.Tags {
		tagID := b.tagID(name)
		b.data.PostsTags = append(b.data.PostsTags, ghost.PostTag{
			ID:     b.allocID(),
			PostID: postID,
			TagID:  tagID,
		})
	}

	for _, name := range fm.AuthorNames(b.defaultAuthor) {
		authorID := b.userID(name)
		b.data.PostsAuthors = append(b.data.PostsAuthors, ghost.PostAuthor{
			ID:       b.allocID(),
			PostID:   postID,
			AuthorID: authorID,
		})
	}
}

func (b *Builder) tagID(name string) int {
	if id, ok := b.tags[name]; ok {
		return id
	}
	id := b.allocID()
	now := b.now()
	b.tags[name] = id
	b.data.Tags = append(b.data.Tags, ghost.Tag{
		ID:        id,
		Name:      name,
		Slug:      normalize.Slug(name),
		CreatedAt: now,
		UpdatedAt: now,
	})
	return id
}

func (b *Builder) userID(name string) int {
	if id, ok := b.users[name]; ok {
		return id
	}
	id := b.allocID()
	now := b.now()
	slug := normalize.Slug(name)
	b.users[name] = id
	b.data.Users = append(b.data.Users, ghost.User{
		ID:        id,
		Name:      name,
		Slug:      slug,
		Email:     slug + "@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	})
	return id
}

// Finish fills in the placeholder user and tag when none were created and
// stamps the export metadata. The Builder must not be used afterwards.
func (b *Builder) Finish() ghost.Import {
	now := b.now()

	if len(b.data.Users) == 0 {
		b.data.Users = append(b.data.Users, ghost.User{
			ID:        1,
			Name:      ghost.DefaultAuthorName,
			Slug:      ghost.DefaultAuthorSlug,
			Email:     ghost.DefaultAuthorEmail,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if len(b.data.Tags) == 0 {
		b.data.Tags = append(b.data.Tags, ghost.Tag{
			ID:        1,
			Name:      ghost.DefaultTagName,
			Slug:      ghost.DefaultTagSlug,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return ghost.Import{
		Meta: ghost.Meta{
			ExportedOn: now.UnixMilli(),
			Version:    ghost.SchemaVersion,
		},
		Data: b.data,
	}
}
