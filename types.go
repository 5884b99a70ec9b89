package ogtags

import (
	"strings"

	"github.com/eringen/ogtags/meta"
)

// Taxonomies served by the site, mapped to their archive URL segment.
const (
	TaxonomyCategory = "category"
	TaxonomyTag      = "tag"
)

var taxonomyBases = map[string]string{
	TaxonomyCategory: "category",
	TaxonomyTag:      "tag",
}

// PostType declares a kind of content, the URL segment its items live
// under, and the features it supports.
type PostType struct {
	Name     string
	Base     string
	Supports []meta.Feature
}

// Has reports whether the type supports f.
func (t PostType) Has(f meta.Feature) bool {
	for _, s := range t.Supports {
		if s == f {
			return true
		}
	}
	return false
}

// Built-in post types, created with the schema.
var defaultPostTypes = []PostType{
	{Name: "post", Base: "blog", Supports: []meta.Feature{meta.FeatureTitle, meta.FeatureEditor, meta.FeatureExcerpt, meta.FeatureThumbnail}},
	{Name: "page", Base: "page", Supports: []meta.Feature{meta.FeatureTitle, meta.FeatureEditor, meta.FeatureThumbnail}},
	{Name: meta.AttachmentType, Base: "attachment", Supports: []meta.Feature{meta.FeatureTitle, meta.FeatureThumbnail}},
}

// Post is a content item stored in SQLite: a blog post, a page, an
// attachment or any registered custom type.
type Post struct {
	ID          int64
	Type        string
	Slug        string
	Title       string
	Date        string
	Excerpt     string
	Content     string
	AuthorID    int64
	ThumbnailID int64
	Published   bool
	Terms       []Term
}

// TermsOf returns the post's terms in taxonomy.
func (p Post) TermsOf(taxonomy string) []Term {
	var out []Term
	for _, t := range p.Terms {
		if t.Taxonomy == taxonomy {
			out = append(out, t)
		}
	}
	return out
}

// Term is a category or tag.
type Term struct {
	ID          int64
	Taxonomy    string
	Slug        string
	Name        string
	Description string
}

// Author owns posts and has an archive page.
type Author struct {
	ID          int64  `yaml:"-"`
	Slug        string `yaml:"slug"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	Email       string `yaml:"email"`
}

// Attachment holds the stored files of an attachment post.
type Attachment struct {
	PostID       int64
	File         string
	Width        int
	Height       int
	MediumFile   string
	MediumWidth  int
	MediumHeight int
	Size         int
	UploadedAt   string
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func (p Post) metaPost(permalink string) meta.Post {
	mp := meta.Post{
		ID:        p.ID,
		Type:      p.Type,
		Slug:      p.Slug,
		Permalink: permalink,
		Title:     p.Title,
		Excerpt:   optional(p.Excerpt),
		Content:   p.Content,
	}
	if p.ThumbnailID != 0 {
		mp.ThumbnailID = meta.ID(p.ThumbnailID)
	}
	return mp
}

func (t Term) metaTerm() meta.Term {
	return meta.Term{
		ID:          t.ID,
		Slug:        t.Slug,
		Name:        optional(t.Name),
		Description: optional(t.Description),
		Taxonomy:    optional(t.Taxonomy),
	}
}

func (a Author) metaAuthor() meta.Author {
	return meta.Author{
		ID:          a.ID,
		Slug:        a.Slug,
		DisplayName: optional(a.DisplayName),
		Description: optional(a.Description),
		Email:       optional(a.Email),
	}
}
