package ogtags

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap lists the home page, every published post with a
// permalink, and every term and author archive.
func (a *App) renderSitemap(c echo.Context, posts []Post) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
	}
	if a.Config.FrontPage != "" {
		urls = append(urls, sitemapURL{Loc: a.HomeURL()})
	}
	seen := map[string]bool{BuildURL(base): true}
	for _, p := range posts {
		link := a.Permalink(p)
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		urls = append(urls, sitemapURL{Loc: link, LastMod: p.Date})
	}

	terms, err := a.Store.ListTerms("")
	if err != nil {
		return err
	}
	for _, t := range terms {
		if link, err := termURL(base, t.Taxonomy, t.Slug); err == nil {
			urls = append(urls, sitemapURL{Loc: link})
		}
	}
	authors, err := a.Store.ListAuthors()
	if err != nil {
		return err
	}
	for _, au := range authors {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "author", au.Slug)})
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
