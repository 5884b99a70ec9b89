package ogtags

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/ogtags/meta"
	"github.com/eringen/ogtags/views"
)

func newTestApp(t *testing.T, cfg SiteConfig, opts ...Option) *App {
	t.Helper()
	dir := t.TempDir()
	if cfg.Name == "" {
		cfg.Name = "Acme"
	}
	if cfg.URL == "" {
		cfg.URL = "https://acme.test"
	}
	cfg.DatabasePath = filepath.Join(dir, "site.db")
	opts = append([]Option{WithStaticDir(filepath.Join(dir, "public"))}, opts...)

	a := New(cfg, ViewFuncs{}, opts...)
	require.NoError(t, a.Init())
	t.Cleanup(func() { a.Close() })
	return a
}

type fixture struct {
	jane  Author
	news  Term
	goTag Term
	hello Post
	about Post
}

func seed(t *testing.T, a *App) fixture {
	t.Helper()
	var f fixture
	f.jane = Author{Slug: "jane", DisplayName: "Jane Doe", Description: "Writes <b>things</b>", Email: "jane@acme.test"}
	require.NoError(t, a.Store.SaveAuthor(&f.jane))
	f.news = Term{Taxonomy: TaxonomyCategory, Slug: "news", Name: "News", Description: "Company news"}
	require.NoError(t, a.Store.SaveTerm(&f.news))
	f.goTag = Term{Taxonomy: TaxonomyTag, Slug: "go", Name: "Go"}
	require.NoError(t, a.Store.SaveTerm(&f.goTag))

	f.hello = Post{Type: "post", Slug: "hello-world", Title: "Hello World", Date: "2024-01-15",
		Content: "Hello **world**", AuthorID: f.jane.ID, Published: true, Terms: []Term{f.news, f.goTag}}
	require.NoError(t, a.Store.SavePost(&f.hello))
	second := Post{Type: "post", Slug: "second", Title: "Second", Date: "2024-01-10",
		Excerpt: "A hand written summary.", Content: "Body", Published: true, Terms: []Term{f.goTag}}
	require.NoError(t, a.Store.SavePost(&second))
	f.about = Post{Type: "page", Slug: "about", Title: "About", Content: "We make *anvils*.", Published: true}
	require.NoError(t, a.Store.SavePost(&f.about))
	draft := Post{Type: "post", Slug: "draft", Title: "Draft", Content: "Soon"}
	require.NoError(t, a.Store.SavePost(&draft))

	a.Cache.Invalidate()
	return f
}

func get(t *testing.T, a *App, path string) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	return rec, doc
}

// ogTags maps property to content for the og: and fb: tags of doc.
func ogTags(doc *goquery.Document) map[string]string {
	out := map[string]string{}
	for _, tag := range HeadTags(doc) {
		out[tag.Property] = tag.Content
	}
	return out
}

func properties(doc *goquery.Document) []string {
	var out []string
	for _, tag := range HeadTags(doc) {
		out = append(out, tag.Property)
	}
	return out
}

func TestHomeTags(t *testing.T) {
	a := newTestApp(t, SiteConfig{Description: "Just another site"})
	seed(t, a)

	rec, doc := get(t, a, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"og:description", "og:site_name", "og:title", "og:type", "og:url"}, properties(doc))
	tags := ogTags(doc)
	assert.Equal(t, "Just another site", tags["og:description"])
	assert.Equal(t, "Acme", tags["og:site_name"])
	assert.Equal(t, "Acme", tags["og:title"])
	assert.Equal(t, "website", tags["og:type"])
	assert.Equal(t, "https://acme.test/", tags["og:url"])

	assert.Equal(t, 2, doc.Find("ul.items li").Length(), "drafts and pages are not listed")
	assert.Contains(t, doc.Find("nav.terms").Text(), "News")
	assert.Contains(t, doc.Find(`script[type="application/ld+json"]`).Text(), `"WebSite"`)
}

func TestPostTags(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	seed(t, a)

	rec, doc := get(t, a, "/blog/hello-world/")
	require.Equal(t, http.StatusOK, rec.Code)

	tags := ogTags(doc)
	assert.Equal(t, "Hello World", tags["og:title"])
	assert.Equal(t, "Hello world", tags["og:description"])
	assert.Equal(t, "article", tags["og:type"])
	assert.Equal(t, "https://acme.test/blog/hello-world/", tags["og:url"])
	assert.NotContains(t, tags, "og:image")
	assert.NotContains(t, tags, "og:locale")

	assert.Contains(t, doc.Find(".content").Text(), "Hello world")
	assert.Equal(t, "/author/jane/", strings.TrimPrefix(doc.Find(".byline a").AttrOr("href", ""), "https://acme.test"))
	assert.Contains(t, doc.Find(".categories").Text(), "News")
	assert.Contains(t, doc.Find(".related").Text(), "Second")
}

func TestManualExcerptIsStripped(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	seed(t, a)

	_, doc := get(t, a, "/blog/second/")
	assert.Equal(t, "A hand written summary.", ogTags(doc)["og:description"])
}

func TestPageUsesBodyForDescription(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	seed(t, a)

	rec, doc := get(t, a, "/page/about/")
	require.Equal(t, http.StatusOK, rec.Code)
	tags := ogTags(doc)
	assert.Equal(t, "We make anvils.", tags["og:description"])
	assert.Equal(t, "https://acme.test/page/about/", tags["og:url"])
}

func TestAttachmentTags(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	post, err := a.importImage(bytes.NewReader(testPNG(t, 600, 300)), "card.png", "Card")
	require.NoError(t, err)

	rec, doc := get(t, a, "/attachment/"+post.Slug+"/")
	require.Equal(t, http.StatusOK, rec.Code)
	tags := ogTags(doc)
	assert.Equal(t, "Card", tags["og:title"])
	assert.Equal(t, "https://acme.test/public/uploads/card-300x150.jpg", tags["og:image"])
	assert.NotContains(t, tags, "og:description", "attachments have no editor or excerpt")
}

func TestThumbnailAndDefaultImage(t *testing.T) {
	a := newTestApp(t, SiteConfig{DefaultImage: "fallback"})
	f := seed(t, a)

	_, doc := get(t, a, "/blog/hello-world/")
	assert.NotContains(t, ogTags(doc), "og:image", "default image not imported yet")

	_, err := a.importImage(bytes.NewReader(testPNG(t, 600, 600)), "fallback.png", "")
	require.NoError(t, err)
	_, doc = get(t, a, "/blog/hello-world/")
	assert.Equal(t, "https://acme.test/public/uploads/fallback-300x300.jpg", ogTags(doc)["og:image"])

	thumb, err := a.importImage(bytes.NewReader(testPNG(t, 600, 300)), "thumb.png", "")
	require.NoError(t, err)
	f.hello.ThumbnailID = thumb.ID
	require.NoError(t, a.Store.SavePost(&f.hello))
	a.Cache.Invalidate()

	_, doc = get(t, a, "/blog/hello-world/")
	assert.Equal(t, "https://acme.test/public/uploads/thumb-300x150.jpg", ogTags(doc)["og:image"])
}

func TestTermTags(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	f := seed(t, a)

	rec, doc := get(t, a, "/category/news/")
	require.Equal(t, http.StatusOK, rec.Code)
	tags := ogTags(doc)
	assert.Equal(t, "News", tags["og:title"])
	assert.Equal(t, "Company news", tags["og:description"])
	assert.Equal(t, "https://acme.test/category/news/", tags["og:url"])
	assert.Equal(t, "article", tags["og:type"])
	assert.NotContains(t, tags, "og:image")

	img, err := a.importImage(bytes.NewReader(testPNG(t, 400, 200)), "news.png", "")
	require.NoError(t, err)
	require.NoError(t, a.Store.SetTermImage(f.news.ID, img.ID))

	_, doc = get(t, a, "/category/news/")
	assert.Equal(t, "https://acme.test/public/uploads/news.jpg", ogTags(doc)["og:image"])

	rec, doc = get(t, a, "/tag/go/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://acme.test/tag/go/", ogTags(doc)["og:url"])
	assert.Equal(t, 2, doc.Find("ul.items li").Length())
}

func TestTermImagesDisabled(t *testing.T) {
	a := newTestApp(t, SiteConfig{DisableTermImages: true})
	f := seed(t, a)
	img, err := a.importImage(bytes.NewReader(testPNG(t, 400, 200)), "news.png", "")
	require.NoError(t, err)
	require.NoError(t, a.Store.SetTermImage(f.news.ID, img.ID))

	_, doc := get(t, a, "/category/news/")
	assert.NotContains(t, ogTags(doc), "og:image")
}

func TestAuthorTags(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	seed(t, a)

	rec, doc := get(t, a, "/author/jane/")
	require.Equal(t, http.StatusOK, rec.Code)
	tags := ogTags(doc)
	assert.Equal(t, "author", tags["og:type"])
	assert.Equal(t, "Jane Doe", tags["og:title"])
	assert.Equal(t, "Writes things", tags["og:description"])
	assert.Equal(t, "https://acme.test/author/jane/", tags["og:url"])
	assert.Equal(t, Gravatar{}.AvatarURL("jane@acme.test", meta.AvatarSize), tags["og:image"])
	assert.Equal(t, 1, doc.Find("ul.items li").Length())
}

func TestNotFoundTags(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	seed(t, a)

	for _, path := range []string{"/nope/", "/blog/draft/", "/category/missing/", "/author/nobody/", "/widget/x/"} {
		rec, doc := get(t, a, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, []string{"og:site_name", "og:type"}, properties(doc), path)
		assert.Equal(t, "article", ogTags(doc)["og:type"], path)
	}
}

func TestLocaleAndFacebookTags(t *testing.T) {
	a := newTestApp(t, SiteConfig{Locale: "fr-fr", Facebook: FacebookConfig{Admins: "123", AppID: "456"}})
	seed(t, a)

	_, doc := get(t, a, "/")
	tags := ogTags(doc)
	assert.Equal(t, "fr_FR", tags["og:locale"])
	assert.Equal(t, "123", tags["fb:admins"])
	assert.Equal(t, "456", tags["fb:app_id"])
	assert.Equal(t, "fb:admins", properties(doc)[0])
	assert.Equal(t, "og:locale", properties(doc)[len(properties(doc))-1])
	assert.Equal(t, "fr-FR", doc.Find("html").AttrOr("lang", ""))
}

func TestFrontPage(t *testing.T) {
	a := newTestApp(t, SiteConfig{FrontPage: "about"})
	seed(t, a)

	rec, doc := get(t, a, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	tags := ogTags(doc)
	assert.Equal(t, "About", tags["og:title"])
	assert.Equal(t, "https://acme.test/", tags["og:url"])

	rec, doc = get(t, a, "/blog/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "website", ogTags(doc)["og:type"])

	rec, _ = get(t, a, "/page/about/")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestFiltersRunInOrder(t *testing.T) {
	var calls []string
	a := newTestApp(t, SiteConfig{},
		WithFilter(meta.SingularPoint("post"), func(rec meta.Record, _ meta.View) meta.Record {
			calls = append(calls, "singular_post")
			rec.Set(meta.KeyTitle, rec.Get(meta.KeyTitle)+" (post)")
			return rec
		}),
		WithFilter(meta.PointSingular, func(rec meta.Record, _ meta.View) meta.Record {
			calls = append(calls, "singular")
			rec.Set("video", "https://acme.test/v.mp4")
			return rec
		}),
		WithFilter(meta.PointGlobal, func(rec meta.Record, _ meta.View) meta.Record {
			calls = append(calls, "meta")
			rec.Delete(meta.KeySiteName)
			return rec
		}),
	)
	seed(t, a)

	_, doc := get(t, a, "/blog/hello-world/")
	tags := ogTags(doc)
	assert.Equal(t, []string{"singular", "singular_post", "meta"}, calls)
	assert.Equal(t, "Hello World (post)", tags["og:title"])
	assert.Equal(t, "https://acme.test/v.mp4", tags["og:video"])
	assert.NotContains(t, tags, "og:site_name")
}

func TestCustomPostType(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	require.NoError(t, a.Store.SavePostType(PostType{Name: "product", Base: "product", Supports: []meta.Feature{meta.FeatureTitle}}))
	p := Post{Type: "product", Slug: "anvil", Title: "Anvil", Content: "Heavy.", Published: true}
	require.NoError(t, a.Store.SavePost(&p))
	a.Cache.Invalidate()

	rec, doc := get(t, a, "/product/anvil/")
	require.Equal(t, http.StatusOK, rec.Code)
	tags := ogTags(doc)
	assert.Equal(t, "Anvil", tags["og:title"])
	assert.Equal(t, "https://acme.test/product/anvil/", tags["og:url"])
	assert.NotContains(t, tags, "og:description")
}

func TestTrailingSlashRedirect(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	seed(t, a)

	rec, _ := get(t, a, "/blog/hello-world")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/blog/hello-world/", rec.Header().Get("Location"))
}

func TestFeedSitemapRobots(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	seed(t, a)

	rec, _ := get(t, a, "/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	feed := rec.Body.String()
	assert.Contains(t, feed, "<link>https://acme.test/blog/hello-world/</link>")
	assert.Contains(t, feed, "<description>Hello world</description>")
	assert.NotContains(t, feed, "draft")

	rec, _ = get(t, a, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	sitemap := rec.Body.String()
	for _, loc := range []string{
		"https://acme.test/",
		"https://acme.test/blog/hello-world/",
		"https://acme.test/page/about/",
		"https://acme.test/category/news/",
		"https://acme.test/tag/go/",
		"https://acme.test/author/jane/",
	} {
		assert.Contains(t, sitemap, "<loc>"+loc+"</loc>")
	}

	rec, _ = get(t, a, "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://acme.test/sitemap.xml")
}

func TestInspect(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	seed(t, a)

	tags, err := a.Inspect("/page/about/")
	require.NoError(t, err)
	require.NotEmpty(t, tags)
	assert.Contains(t, tags, HeadTag{Property: "og:title", Content: "About"})

	_, err = a.Inspect("/blog/hello-world")
	assert.Error(t, err, "redirects are reported")
}

func TestCustomRoutesAndViews(t *testing.T) {
	var rendered bool
	vf := ViewFuncs{NotFound: func(p views.Page) templ.Component {
		rendered = true
		return views.NotFound(p)
	}}
	cfg := SiteConfig{Name: "Acme", URL: "https://acme.test", DatabasePath: filepath.Join(t.TempDir(), "site.db")}
	a := New(cfg, vf, WithCustomRoutes(func(a *App) {
		a.Echo.GET("/custom/", func(c echo.Context) error {
			page, _ := a.page("Custom", meta.HomeView{})
			return Render(c, a.Views.NotFound(page))
		})
	}))
	require.NoError(t, a.Init())
	t.Cleanup(func() { a.Close() })

	rec, doc := get(t, a, "/custom/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "website", ogTags(doc)["og:type"])
	assert.True(t, rendered)
}

func TestExcerptOnlyTypeHasNoBodyDescription(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	require.NoError(t, a.Store.SavePostType(PostType{Name: "quote", Base: "quote", Supports: []meta.Feature{meta.FeatureTitle, meta.FeatureExcerpt}}))
	p := Post{Type: "quote", Slug: "wise", Title: "Wise", Content: "Body text only", Published: true}
	require.NoError(t, a.Store.SavePost(&p))
	a.Cache.Invalidate()

	rec, doc := get(t, a, "/quote/wise/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, ogTags(doc), "og:description")
	assert.Empty(t, a.summary(p, ""))

	p.Excerpt = "Said *well*."
	require.NoError(t, a.Store.SavePost(&p))
	a.Cache.Invalidate()

	_, doc = get(t, a, "/quote/wise/")
	assert.Equal(t, "Said well.", ogTags(doc)["og:description"])
}
