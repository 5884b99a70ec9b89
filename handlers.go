package ogtags

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/ogtags/meta"
	"github.com/eringen/ogtags/views"
)

const relatedLimit = 5

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.ListPosts("post", nil)
	if err != nil {
		return err
	}
	categories, err := a.Store.ListTerms(TaxonomyCategory)
	if err != nil {
		return err
	}
	page, _ := a.page(a.Config.Name, meta.HomeView{})
	page.JSONLD = views.WebsiteJsonLD(page.Site)

	var terms []views.Link
	for _, t := range categories {
		if link, err := termURL(a.Config.URL, t.Taxonomy, t.Slug); err == nil {
			terms = append(terms, views.Link{Name: t.Name, URL: link})
		}
	}
	return Render(c, a.Views.Home(views.ListPage{
		Page:    page,
		Heading: a.Config.Name,
		Intro:   a.Config.Description,
		Items:   a.items(posts),
		Terms:   terms,
	}))
}

func (a *App) handleFrontPage(c echo.Context) error {
	post, err := a.Cache.GetPost("page", a.Config.FrontPage)
	if errors.Is(err, ErrNotFound) {
		return a.handleHome(c)
	}
	if err != nil {
		return err
	}
	return a.renderSingle(c, post, true)
}

func (a *App) handleSingular(postType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		slug := c.Param("slug")
		if postType == "page" && a.Config.FrontPage != "" && slug == a.Config.FrontPage {
			return c.Redirect(http.StatusMovedPermanently, "/")
		}
		post, err := a.Cache.GetPost(postType, slug)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return echo.ErrNotFound
			}
			return err
		}
		return a.renderSingle(c, post, false)
	}
}

// handleCustomType serves items of registered post types under their base
// segment, e.g. /product/<slug>/.
func (a *App) handleCustomType(c echo.Context) error {
	types, err := a.Cache.PostTypes()
	if err != nil {
		return err
	}
	base := c.Param("type")
	for _, pt := range types {
		if pt.Base != base {
			continue
		}
		post, err := a.Cache.GetPost(pt.Name, c.Param("slug"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return echo.ErrNotFound
			}
			return err
		}
		return a.renderSingle(c, post, false)
	}
	return echo.ErrNotFound
}

func (a *App) renderSingle(c echo.Context, post Post, front bool) error {
	permalink := a.Permalink(post)
	page, rec := a.page(post.Title, meta.SingularView{Post: post.metaPost(permalink), FrontPage: front})

	single := views.SinglePage{
		Page:     page,
		Heading:  post.Title,
		BodyHTML: a.Text.HTML(post.Content),
	}
	if post.Type == "post" {
		single.Date = post.Date
	}
	if post.AuthorID != 0 {
		if author, err := a.Store.GetAuthor(post.AuthorID); err == nil {
			single.Author = views.Link{Name: author.DisplayName, URL: BuildURL(a.Config.URL, "author", author.Slug)}
			if author.Email != "" {
				single.AvatarURL = Gravatar{}.AvatarURL(author.Email, 64)
			}
		}
	}
	if id := featuredImageID(post); id != 0 {
		single.ImageURL, _ = a.ImageURL(id, "full")
	}
	single.Categories = a.termLinks(post.TermsOf(TaxonomyCategory))
	single.Tags = a.termLinks(post.TermsOf(TaxonomyTag))

	if post.Type == "post" {
		posts, err := a.Cache.ListPosts("post", nil)
		if err != nil {
			return err
		}
		related := FilterRelatedPosts(post, posts)
		if len(related) > relatedLimit {
			related = related[:relatedLimit]
		}
		single.Related = a.items(related)
	}

	single.JSONLD = views.ArticleJsonLD(page.Site, single, permalink, rec.Get(meta.KeyDescription))
	return Render(c, a.Views.Single(single))
}

func (a *App) handleTerm(taxonomy string) echo.HandlerFunc {
	return func(c echo.Context) error {
		term, err := a.Store.GetTermBySlug(taxonomy, c.Param("slug"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return echo.ErrNotFound
			}
			return err
		}
		posts, err := a.Cache.ListPosts("post", TaggedWith(term.ID))
		if err != nil {
			return err
		}
		page, rec := a.page(term.Name, meta.TermView{Term: term.metaTerm()})
		return Render(c, a.Views.Archive(views.ListPage{
			Page:     page,
			Heading:  term.Name,
			Intro:    meta.StripTags(term.Description),
			ImageURL: rec.Get(meta.KeyImage),
			Items:    a.items(posts),
		}))
	}
}

func (a *App) handleAuthor(c echo.Context) error {
	author, err := a.Store.GetAuthorBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	posts, err := a.Cache.ListPosts("post", WrittenBy(author.ID))
	if err != nil {
		return err
	}
	page, rec := a.page(author.DisplayName, meta.AuthorView{Author: author.metaAuthor()})
	page.JSONLD = views.ProfileJsonLD(author.DisplayName, rec.Get(meta.KeyDescription), rec.Get(meta.KeyURL), rec.Get(meta.KeyImage))
	return Render(c, a.Views.Archive(views.ListPage{
		Page:     page,
		Heading:  author.DisplayName,
		Intro:    meta.StripTags(author.Description),
		ImageURL: rec.Get(meta.KeyImage),
		Items:    a.items(posts),
	}))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListAll()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("post", nil)
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt pointing at the sitemap.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", FileURL(a.Config.URL, "sitemap.xml"))
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		page, _ := a.page("Page not found", meta.OtherView{})
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(page))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		page, _ := a.page("Error", meta.OtherView{})
		_ = RenderStatus(c, code, a.Views.Error(page))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// items converts posts to listing entries.
func (a *App) items(posts []Post) []views.Item {
	out := make([]views.Item, 0, len(posts))
	for _, p := range posts {
		it := views.Item{
			Title:   p.Title,
			URL:     a.Permalink(p),
			Date:    p.Date,
			Summary: a.summary(p, ""),
		}
		if id := featuredImageID(p); id != 0 {
			it.ImageURL, _ = a.ImageURL(id, meta.ImageSize)
		}
		out = append(out, it)
	}
	return out
}

// summary is the plain text excerpt of p. Types without editor support
// only have their manual excerpt.
func (a *App) summary(p Post, permalink string) string {
	return meta.StripTags(a.Text.Excerpt(p.metaPost(permalink), a.Cache.Supports(p.Type, meta.FeatureEditor)))
}

func (a *App) termLinks(terms []Term) []views.Link {
	var out []views.Link
	for _, t := range terms {
		link, err := termURL(a.Config.URL, t.Taxonomy, t.Slug)
		if err != nil {
			continue
		}
		out = append(out, views.Link{Name: t.Name, URL: link})
	}
	return out
}

func featuredImageID(p Post) int64 {
	if p.Type == meta.AttachmentType {
		return p.ID
	}
	return p.ThumbnailID
}

// FilterRelatedPosts finds posts that share at least one term with current.
func FilterRelatedPosts(current Post, posts []Post) []Post {
	termSet := make(map[int64]struct{})
	for _, t := range current.Terms {
		termSet[t.ID] = struct{}{}
	}
	var related []Post
	for _, p := range posts {
		if p.ID == current.ID {
			continue
		}
		for _, t := range p.Terms {
			if _, ok := termSet[t.ID]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}
