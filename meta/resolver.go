// Package meta builds Open Graph / Facebook meta tags for a rendered page.
//
// A Resolver turns a View into an ordered Record of property values, and
// Emit / Tags turn that record into <meta> lines for the document head.
// Nothing here returns an error: a value that cannot be computed is simply
// left out of the record.
package meta

// Feature is a capability a post type may declare.
type Feature string

const (
	FeatureTitle     Feature = "title"
	FeatureExcerpt   Feature = "excerpt"
	FeatureEditor    Feature = "editor"
	FeatureThumbnail Feature = "thumbnail"
)

// BaselineLocale is the locale that is never announced with og:locale.
const BaselineLocale = "en_US"

// ImageSize is the attachment size used for og:image.
const ImageSize = "medium"

// AvatarSize is the pixel size requested for author avatars.
const AvatarSize = 50

// TypeSupport answers capability queries about post types.
type TypeSupport interface {
	Supports(postType string, f Feature) bool
}

// Links resolves archive URLs.
type Links interface {
	TermLink(t Term) (string, error)
	AuthorURL(id int64) string
}

// Images converts an attachment id to the URL of one of its sizes.
type Images interface {
	ImageURL(id int64, size string) (string, bool)
}

// ArchiveImages looks up the image attached to a term's archive page.
type ArchiveImages interface {
	ArchiveImage(termID int64) string
}

// Avatars renders avatar markup for an email address.
type Avatars interface {
	AvatarHTML(email string, size int) string
}

// Excerpter renders the display title and excerpt of a post.
type Excerpter interface {
	Title(p Post) string
	Excerpt(p Post, fromBody bool) string
}

// Resolver computes the meta record for a view. Optional collaborators may
// be nil; the keys that depend on them are then left unset.
type Resolver struct {
	Site  Site
	Types TypeSupport
	Links Links
	Text  Excerpter
	Hooks *Hooks

	Images        Images
	ArchiveImages ArchiveImages
	Avatars       Avatars
	ExtractImage  ImageExtractor
}

// Resolve returns the record for view. A singular view whose permalink is
// empty produces an empty record.
func (r *Resolver) Resolve(view View) Record {
	var partial Record
	switch v := view.(type) {
	case HomeView:
		partial = r.home(v)
	case SingularView:
		var ok bool
		partial, ok = r.singular(v)
		if !ok {
			// No permalink means no tags at all: defaults, locale and
			// the global filters are skipped, so not every default key
			// is present in this record.
			return Record{}
		}
	case TermView:
		partial = r.term(v)
	case AuthorView:
		partial = r.author(v)
	}

	rec := Merge(partial, r.defaults())

	if loc := r.Site.Locale; loc != "" && loc != BaselineLocale {
		rec.Set(KeyLocale, loc)
	}
	rec.Set(KeyDescription, StripTags(rec.Get(KeyDescription)))

	return r.Hooks.Apply(PointGlobal, rec, view)
}

func (r *Resolver) defaults() Record {
	return NewRecord(
		KeyAdmins, r.Site.FacebookAdmins,
		KeyAppID, r.Site.FacebookAppID,
		KeyDescription, "",
		KeyImage, "",
		KeySiteName, r.Site.Name,
		KeyTitle, "",
		KeyType, "article",
		KeyURL, "",
		KeyLocale, "",
	)
}

func (r *Resolver) home(v HomeView) Record {
	rec := NewRecord(
		KeyDescription, r.Site.Tagline,
		KeyTitle, r.Site.Name,
		KeyType, "website",
		KeyURL, r.Site.URL,
	)
	return r.Hooks.Apply(PointHome, rec, v)
}

func (r *Resolver) author(v AuthorView) Record {
	a := v.Author
	rec := NewRecord(KeyType, "author")

	if a.Description != nil {
		rec.Set(KeyDescription, *a.Description)
	}
	if a.Email != nil && r.Avatars != nil && r.ExtractImage != nil {
		if src, ok := r.ExtractImage(r.Avatars.AvatarHTML(*a.Email, AvatarSize)); ok {
			rec.Set(KeyImage, src)
		}
	}
	if a.DisplayName != nil {
		rec.Set(KeyTitle, *a.DisplayName)
	}
	if a.ID != 0 && r.Links != nil {
		rec.Set(KeyURL, r.Links.AuthorURL(a.ID))
	}

	rec = r.Hooks.Apply(PointAuthor, rec, v)
	if a.ID != 0 {
		rec = r.Hooks.Apply(AuthorPoint(a.ID), rec, v)
	}
	return rec
}

func (r *Resolver) term(v TermView) Record {
	t := v.Term
	var rec Record

	if t.Name != nil {
		rec.Set(KeyTitle, *t.Name)
	}
	if t.Description != nil {
		rec.Set(KeyDescription, *t.Description)
	}
	if t.ID != 0 {
		if t.Taxonomy != nil && r.Links != nil {
			if link, err := r.Links.TermLink(t); err == nil {
				rec.Set(KeyURL, link)
			}
		}
		if r.ArchiveImages != nil {
			if img := r.ArchiveImages.ArchiveImage(t.ID); img != "" {
				rec.Set(KeyImage, img)
			}
		}
	}

	rec = r.Hooks.Apply(PointTerm, rec, v)
	if t.Taxonomy != nil {
		rec = r.Hooks.Apply(TermPoint(*t.Taxonomy), rec, v)
	}
	return rec
}

func (r *Resolver) singular(v SingularView) (Record, bool) {
	p := v.Post
	permalink := CleanURL(p.Permalink)
	if permalink == "" {
		return Record{}, false
	}

	var rec Record
	rec.Set(KeyURL, permalink)

	if r.supports(p.Type, FeatureTitle) && r.Text != nil {
		if title := r.Text.Title(p); title != "" {
			rec.Set(KeyTitle, title)
		}
	}

	if (r.supports(p.Type, FeatureExcerpt) || r.supports(p.Type, FeatureEditor)) && r.Text != nil {
		if excerpt := r.Text.Excerpt(p, r.supports(p.Type, FeatureEditor)); excerpt != "" {
			rec.Set(KeyDescription, excerpt)
		}
	}

	if r.supports(p.Type, FeatureThumbnail) {
		id := r.Hooks.DefaultImageID(p)
		if p.ThumbnailID != nil && *p.ThumbnailID != 0 {
			id = *p.ThumbnailID
		}
		if p.Type == AttachmentType {
			id = p.ID
		}
		if id != 0 && r.Images != nil {
			if src, ok := r.Images.ImageURL(id, ImageSize); ok && src != "" {
				rec.Set(KeyImage, src)
			}
		}
	}

	rec = r.Hooks.Apply(PointSingular, rec, v)
	rec = r.Hooks.Apply(SingularPoint(p.Type), rec, v)
	return rec, true
}

func (r *Resolver) supports(postType string, f Feature) bool {
	return r.Types != nil && r.Types.Supports(postType, f)
}
