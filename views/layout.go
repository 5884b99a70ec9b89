// Package views holds the default templ components for ogtags pages.
package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// html writes markup and remembers the first write error.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *html) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (h *html) render(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// Layout wraps body in the shared document shell. The page's Head
// component is written into <head> before the stylesheet.
func Layout(p Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{ctx: ctx, w: w}
		lang := p.Site.Lang
		if lang == "" {
			lang = "en"
		}
		title := p.Site.Name
		if p.Title != "" && p.Title != p.Site.Name {
			title = p.Title + " | " + p.Site.Name
		}

		h.raw("<!doctype html>\n<html")
		h.attr("lang", lang)
		h.raw(">\n<head>\n", `<meta charset="utf-8">`, "\n", `<meta name="viewport" content="width=device-width, initial-scale=1">`, "\n<title>")
		h.text(title)
		h.raw("</title>\n")
		if p.Site.Description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", p.Site.Description)
			h.raw(">\n")
		}
		h.render(p.Head)
		h.raw(`<link rel="stylesheet" href="/public/site.css">`, "\n")
		h.raw(`<link rel="alternate" type="application/rss+xml"`)
		h.attr("title", p.Site.Name)
		h.attr("href", strings.TrimSuffix(p.Site.URL, "/")+"/feed.xml")
		h.raw(">\n")
		if p.JSONLD != "" {
			h.raw(`<script type="application/ld+json">`, p.JSONLD, "</script>\n")
		}
		h.raw("</head>\n<body>\n<header class=\"site-header\"><a class=\"site-name\"")
		h.attr("href", p.Site.URL)
		h.raw(">")
		h.text(p.Site.Name)
		h.raw("</a>")
		if p.Site.HomeURL != "" && p.Site.HomeURL != p.Site.URL {
			h.raw(" <a")
			h.attr("href", p.Site.HomeURL)
			h.raw(">Blog</a>")
		}
		h.raw("</header>\n<main>\n")
		h.render(body)
		h.raw("\n</main>\n<footer class=\"site-footer\">")
		h.text(p.Site.Name)
		h.raw("</footer>\n</body>\n</html>\n")
		return h.err
	})
}
