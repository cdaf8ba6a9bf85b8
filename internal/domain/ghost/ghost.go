// Package ghost holds the Ghost CMS import schema written by the exporter.
package ghost

import "time"

const SchemaVersion = "5.75.1"

type Import struct {
	Meta Meta `json:"meta"`
	Data Data `json:"data"`
}

type Meta struct {
	ExportedOn int64  `json:"exported_on"` // epoch milliseconds
	Version    string `json:"version"`
}

type Data struct {
	Posts        []Post       `json:"posts"`
	Tags         []Tag        `json:"tags"`
	Users        []User       `json:"users"`
	PostsTags    []PostTag    `json:"posts_tags,omitempty"`
	PostsAuthors []PostAuthor `json:"posts_authors,omitempty"`
	RolesUsers   []RoleUser   `json:"roles_users,omitempty"`
}

type Post struct {
	ID                       int        `json:"id"`
	Title                    string     `json:"title"`
	Slug                     string     `json:"slug"`
	HTML                     string     `json:"html"`
	FeatureImage             string     `json:"feature_image,omitempty"`
	Featured                 int        `json:"featured"`
	Status                   string     `json:"status"`
	Type                     string     `json:"type"`
	PublishedAt              *time.Time `json:"published_at,omitempty"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
	CustomExcerpt            string     `json:"custom_excerpt,omitempty"`
	MetaTitle                string     `json:"meta_title,omitempty"`
	MetaDescription          string     `json:"meta_description,omitempty"`
	Visibility               string     `json:"visibility"`
	ShowTitleAndFeatureImage int        `json:"show_title_and_feature_image"`
	EmailOnly                int        `json:"email_only"`
}

type Tag struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description,omitempty"`
	FeatureImage    string    `json:"feature_image,omitempty"`
	MetaTitle       string    `json:"meta_title,omitempty"`
	MetaDescription string    `json:"meta_description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CoverImage   string    `json:"cover_image,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Website      string    `json:"website,omitempty"`
	Location     string    `json:"location,omitempty"`
	Facebook     string    `json:"facebook,omitempty"`
	Twitter      string    `json:"twitter,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PostTag struct {
	ID     int `json:"id"`
	PostID int `json:"post_id"`
	TagID  int `json:"tag_id"`
}

type PostAuthor struct {
	ID       int `json:"id"`
	PostID   int `json:"post_id"`
	AuthorID int `json:"author_id"`
}

// RoleUser is part of the schema but never populated.
type RoleUser struct {
	ID     int `json:"id"`
	UserID int `json:"user_id"`
	RoleID int `json:"role_id"`
}

const (
	StatusPublished  = "published"
	StatusDraft      = "draft"
	TypePost         = "post"
	VisibilityPublic = "public"

	DefaultAuthorName  = "Default Author"
	DefaultAuthorSlug  = "default-author"
	DefaultAuthorEmail = "author@example.com"
	DefaultTagName     = "General"
	DefaultTagSlug     = "general"
)
