package ogtags

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/ogtags/meta"
)

// ContentFile is the YAML document read by Import. Images are imported
// first so terms and posts can reference them by attachment slug.
type ContentFile struct {
	PostTypes []PostTypeEntry `yaml:"post_types"`
	Images    []ImageEntry    `yaml:"images"`
	Authors   []Author        `yaml:"authors"`
	Terms     []TermEntry     `yaml:"terms"`
	Posts     []PostEntry     `yaml:"posts"`
}

// PostTypeEntry registers a custom post type.
type PostTypeEntry struct {
	Name     string   `yaml:"name"`
	Base     string   `yaml:"base"`
	Supports []string `yaml:"supports"`
}

// ImageEntry is an image file, relative to the content file.
type ImageEntry struct {
	File  string `yaml:"file"`
	Title string `yaml:"title"`
}

// TermEntry is a category or tag with an optional archive image.
type TermEntry struct {
	Taxonomy    string `yaml:"taxonomy"`
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

// PostEntry is a post, page or custom type item.
type PostEntry struct {
	Type       string   `yaml:"type"`
	Slug       string   `yaml:"slug"`
	Title      string   `yaml:"title"`
	Date       string   `yaml:"date"`
	Author     string   `yaml:"author"`
	Excerpt    string   `yaml:"excerpt"`
	Content    string   `yaml:"content"`
	Categories []string `yaml:"categories"`
	Tags       []string `yaml:"tags"`
	Thumbnail  string   `yaml:"thumbnail"`
	Draft      bool     `yaml:"draft"`
}

// ImportStats counts what an import wrote.
type ImportStats struct {
	PostTypes, Images, Authors, Terms, Posts int
}

func (s ImportStats) String() string {
	return fmt.Sprintf("%d post types, %d images, %d authors, %d terms, %d posts",
		s.PostTypes, s.Images, s.Authors, s.Terms, s.Posts)
}

// Import reads a YAML content file and upserts everything it declares.
func (a *App) Import(path string) (ImportStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportStats{}, err
	}
	var doc ContentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ImportStats{}, fmt.Errorf("ogtags: parse %s: %w", path, err)
	}
	stats, err := a.importContent(doc, filepath.Dir(path))
	a.Cache.Invalidate()
	return stats, err
}

func (a *App) importContent(doc ContentFile, dir string) (ImportStats, error) {
	var stats ImportStats

	for _, e := range doc.PostTypes {
		pt, err := e.postType()
		if err != nil {
			return stats, err
		}
		if err := a.Store.SavePostType(pt); err != nil {
			return stats, fmt.Errorf("ogtags: save post type %s: %w", pt.Name, err)
		}
		stats.PostTypes++
	}
	if len(doc.PostTypes) > 0 {
		a.Cache.Invalidate()
	}

	for _, e := range doc.Images {
		file := e.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		if _, err := a.ImportImage(file, e.Title); err != nil {
			return stats, err
		}
		stats.Images++
	}

	for i := range doc.Authors {
		au := &doc.Authors[i]
		if au.Slug == "" {
			au.Slug = Slugify(au.DisplayName)
		}
		if au.Slug == "" {
			return stats, fmt.Errorf("ogtags: author %d has no slug", i+1)
		}
		if err := a.Store.SaveAuthor(au); err != nil {
			return stats, fmt.Errorf("ogtags: save author %s: %w", au.Slug, err)
		}
		stats.Authors++
	}

	for _, e := range doc.Terms {
		t := Term{Taxonomy: e.Taxonomy, Slug: e.Slug, Name: e.Name, Description: e.Description}
		if t.Slug == "" {
			t.Slug = Slugify(t.Name)
		}
		if err := a.Store.SaveTerm(&t); err != nil {
			return stats, fmt.Errorf("ogtags: save term %s: %w", t.Slug, err)
		}
		if e.Image != "" {
			id, err := a.attachmentID(e.Image)
			if err != nil {
				return stats, err
			}
			if err := a.Store.SetTermImage(t.ID, id); err != nil {
				return stats, err
			}
		}
		stats.Terms++
	}

	for _, e := range doc.Posts {
		p, err := a.entryPost(e)
		if err != nil {
			return stats, err
		}
		if err := a.Store.SavePost(&p); err != nil {
			return stats, fmt.Errorf("ogtags: save %s %s: %w", p.Type, p.Slug, err)
		}
		stats.Posts++
	}
	return stats, nil
}

func (e PostTypeEntry) postType() (PostType, error) {
	if e.Name == "" {
		return PostType{}, fmt.Errorf("ogtags: post type has no name")
	}
	pt := PostType{Name: e.Name, Base: e.Base}
	if pt.Base == "" {
		pt.Base = e.Name
	}
	for _, s := range FilterEmpty(e.Supports) {
		f := meta.Feature(s)
		switch f {
		case meta.FeatureTitle, meta.FeatureExcerpt, meta.FeatureEditor, meta.FeatureThumbnail:
			pt.Supports = append(pt.Supports, f)
		default:
			return PostType{}, fmt.Errorf("ogtags: post type %s: unknown feature %q", e.Name, s)
		}
	}
	return pt, nil
}

func (a *App) entryPost(e PostEntry) (Post, error) {
	p := Post{
		Type:      e.Type,
		Slug:      e.Slug,
		Title:     e.Title,
		Date:      e.Date,
		Excerpt:   e.Excerpt,
		Content:   e.Content,
		Published: !e.Draft,
	}
	if p.Type == "" {
		p.Type = "post"
	}
	if _, ok := a.Cache.PostType(p.Type); !ok {
		return Post{}, fmt.Errorf("ogtags: unknown post type %q", p.Type)
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.Slug == "" {
		return Post{}, fmt.Errorf("ogtags: %s %q has no slug", p.Type, p.Title)
	}
	if p.Date == "" {
		p.Date = time.Now().Format("2006-01-02")
	}
	if e.Author != "" {
		au, err := a.Store.GetAuthorBySlug(e.Author)
		if err != nil {
			return Post{}, fmt.Errorf("ogtags: %s: author %q: %w", p.Slug, e.Author, err)
		}
		p.AuthorID = au.ID
	}
	if e.Thumbnail != "" {
		id, err := a.attachmentID(e.Thumbnail)
		if err != nil {
			return Post{}, err
		}
		p.ThumbnailID = id
	}
	for _, group := range []struct {
		taxonomy string
		slugs    []string
	}{{TaxonomyCategory, e.Categories}, {TaxonomyTag, e.Tags}} {
		for _, slug := range FilterEmpty(group.slugs) {
			t, err := a.Store.GetTermBySlug(group.taxonomy, slug)
			if err != nil {
				return Post{}, fmt.Errorf("ogtags: %s: %s %q: %w", p.Slug, group.taxonomy, slug, err)
			}
			p.Terms = append(p.Terms, t)
		}
	}
	return p, nil
}

func (a *App) attachmentID(slug string) (int64, error) {
	att, err := a.Store.GetPostBySlug(meta.AttachmentType, slug)
	if err != nil {
		return 0, fmt.Errorf("ogtags: attachment %q: %w", slug, err)
	}
	return att.ID, nil
}
