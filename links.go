package ogtags

import (
	"crypto/md5"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/ogtags/meta"
)

var errNoSlug = errors.New("ogtags: term has no slug")

// Permalink returns the canonical URL of a post. The front page lives at
// the site root. Posts of unknown types have no permalink.
func (a *App) Permalink(p Post) string {
	if p.Slug == "" {
		return ""
	}
	if a.Config.FrontPage != "" && p.Type == "page" && p.Slug == a.Config.FrontPage {
		return BuildURL(a.Config.URL)
	}
	pt, ok := a.Cache.PostType(p.Type)
	if !ok {
		return ""
	}
	return BuildURL(a.Config.URL, pt.Base, p.Slug)
}

// HomeURL returns the URL of the posts index.
func (a *App) HomeURL() string {
	if a.Config.FrontPage != "" {
		return BuildURL(a.Config.URL, "blog")
	}
	return BuildURL(a.Config.URL)
}

// TermLink implements meta.Links.
func (a *App) TermLink(t meta.Term) (string, error) {
	if t.Taxonomy == nil {
		return "", errors.New("ogtags: term has no taxonomy")
	}
	return termURL(a.Config.URL, *t.Taxonomy, t.Slug)
}

func termURL(base, taxonomy, slug string) (string, error) {
	seg, ok := taxonomyBases[taxonomy]
	if !ok {
		return "", fmt.Errorf("ogtags: unknown taxonomy %q", taxonomy)
	}
	if slug == "" {
		return "", errNoSlug
	}
	return BuildURL(base, seg, slug), nil
}

// AuthorURL implements meta.Links. Unknown authors have no URL.
func (a *App) AuthorURL(id int64) string {
	author, err := a.Store.GetAuthor(id)
	if err != nil {
		return ""
	}
	return BuildURL(a.Config.URL, "author", author.Slug)
}

// Gravatar renders avatar markup served by gravatar.com.
type Gravatar struct {
	// Default is the fallback image style for unknown emails (default "mm").
	Default string
}

// AvatarURL returns the avatar image URL for email at size pixels.
func (g Gravatar) AvatarURL(email string, size int) string {
	def := g.Default
	if def == "" {
		def = "mm"
	}
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://secure.gravatar.com/avatar/%x?s=%d&d=%s", hash, size, url.QueryEscape(def))
}

// AvatarHTML implements meta.Avatars.
func (g Gravatar) AvatarHTML(email string, size int) string {
	return fmt.Sprintf(`<img alt="" src="%s" class="avatar avatar-%d photo" height="%d" width="%d" loading="lazy">`,
		templ.EscapeString(g.AvatarURL(email, size)), size, size, size)
}
