package content

// ProcessedDocument is the per-file result of extraction, consumed once by
// the export builder.
type ProcessedDocument struct {
	Frontmatter Frontmatter
	Markdown    string
	HTML        string
	Path        string
	Images      []string

	// Checksum is the hex sha256 of the raw file.
	Checksum string
}

// FeatureImage resolves the explicit image, then the first of images.
func (fm Frontmatter) FeatureImage() string {
	if fm.Image != "" {
		return fm.Image
	}
	if len(fm.Images) > 0 {
		return fm.Images[0]
	}
	return ""
}

// Excerpt prefers description over summary.
func (fm Frontmatter) Excerpt() string {
	if fm.Description != "" {
		return fm.Description
	}
	return fm.Summary
}

// PostStatus lets draft win over any explicit status.
func (fm Frontmatter) PostStatus() string {
	if fm.Draft {
		return "draft"
	}
	if fm.Status != "" {
		return fm.Status
	}
	return "published"
}

// AuthorNames resolves the author set: authors, then author, then the run
// default, then "Default Author".
func (fm Frontmatter) AuthorNames(fallback string) []string {
	switch {
	case len(fm.Authors) > 0:
		return append([]string(nil), fm.Authors...)
	case fm.Author != "":
		return []string{fm.Author}
	case fallback != "":
		return []string{fallback}
	default:
		return []string{"Default Author"}
	}
}
