package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Home renders the posts index.
func Home(p ListPage) templ.Component {
	return Layout(p.Page, listBody(p))
}

// Archive renders a category, tag or author archive.
func Archive(p ListPage) templ.Component {
	return Layout(p.Page, listBody(p))
}

func listBody(p ListPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{ctx: ctx, w: w}
		h.raw(`<section class="listing">`, "\n")
		if p.ImageURL != "" {
			h.raw(`<img class="archive-image" alt=""`)
			h.attr("src", p.ImageURL)
			h.raw(">\n")
		}
		if p.Heading != "" {
			h.raw("<h1>")
			h.text(p.Heading)
			h.raw("</h1>\n")
		}
		if p.Intro != "" {
			h.raw(`<p class="intro">`)
			h.text(p.Intro)
			h.raw("</p>\n")
		}
		if len(p.Terms) > 0 {
			h.raw(`<nav class="terms">`)
			links(h, p.Terms)
			h.raw("</nav>\n")
		}
		if len(p.Items) == 0 {
			h.raw(`<p class="empty">Nothing here yet.</p>`, "\n")
		}
		items(h, p.Items)
		h.raw("</section>")
		return h.err
	})
}

// Single renders a post, page or attachment.
func Single(p SinglePage) templ.Component {
	return Layout(p.Page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{ctx: ctx, w: w}
		h.raw(`<article class="single">`, "\n")
		if p.Heading != "" {
			h.raw("<h1>")
			h.text(p.Heading)
			h.raw("</h1>\n")
		}
		if p.Date != "" || p.Author.Name != "" {
			h.raw(`<p class="byline">`)
			if p.AvatarURL != "" {
				h.raw(`<img class="avatar" alt="" width="32" height="32"`)
				h.attr("src", p.AvatarURL)
				h.raw("> ")
			}
			if p.Author.Name != "" {
				h.raw("<a")
				h.attr("href", p.Author.URL)
				h.raw(">")
				h.text(p.Author.Name)
				h.raw("</a> ")
			}
			if p.Date != "" {
				h.raw("<time")
				h.attr("datetime", p.Date)
				h.raw(">")
				h.text(p.Date)
				h.raw("</time>")
			}
			h.raw("</p>\n")
		}
		if p.ImageURL != "" {
			h.raw(`<img class="featured" alt=""`)
			h.attr("src", p.ImageURL)
			h.raw(">\n")
		}
		h.raw(`<div class="content">`, p.BodyHTML, "</div>\n")
		if len(p.Categories) > 0 {
			h.raw(`<p class="categories">`)
			links(h, p.Categories)
			h.raw("</p>\n")
		}
		if len(p.Tags) > 0 {
			h.raw(`<p class="tags">`)
			links(h, p.Tags)
			h.raw("</p>\n")
		}
		h.raw("</article>")
		if len(p.Related) > 0 {
			h.raw("\n<section class=\"related\"><h2>Related</h2>\n")
			items(h, p.Related)
			h.raw("</section>")
		}
		return h.err
	}))
}

// NotFound renders the 404 page.
func NotFound(p Page) templ.Component {
	return Layout(p, message("Page not found", "The page you are looking for does not exist."))
}

// ServerError renders the 500 page.
func ServerError(p Page) templ.Component {
	return Layout(p, message("Something went wrong", "Please try again later."))
}

func message(heading, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{ctx: ctx, w: w}
		h.raw(`<section class="message"><h1>`)
		h.text(heading)
		h.raw("</h1><p>")
		h.text(body)
		h.raw("</p></section>")
		return h.err
	})
}

func links(h *html, ls []Link) {
	for i, l := range ls {
		if i > 0 {
			h.raw(", ")
		}
		h.raw("<a")
		h.attr("href", l.URL)
		h.raw(">")
		h.text(l.Name)
		h.raw("</a>")
	}
}

func items(h *html, its []Item) {
	if len(its) == 0 {
		return
	}
	h.raw("<ul class=\"items\">\n")
	for _, it := range its {
		h.raw("<li>")
		if it.ImageURL != "" {
			h.raw(`<img alt="" loading="lazy"`)
			h.attr("src", it.ImageURL)
			h.raw(">")
		}
		h.raw("<a")
		h.attr("href", it.URL)
		h.raw(">")
		h.text(it.Title)
		h.raw("</a>")
		if it.Date != "" {
			h.raw(" <time>")
			h.text(it.Date)
			h.raw("</time>")
		}
		if it.Summary != "" {
			h.raw("<p>")
			h.text(it.Summary)
			h.raw("</p>")
		}
		h.raw("</li>\n")
	}
	h.raw("</ul>\n")
}
