package ogtags

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/eringen/ogtags/meta"
)

const (
	excerptWords = 55
	excerptMore  = " […]"
)

// Text renders post bodies and excerpts from Markdown. It implements
// meta.Excerpter.
type Text struct {
	md goldmark.Markdown
}

// NewText returns a Text using GitHub flavored Markdown.
func NewText() *Text {
	return &Text{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// HTML renders Markdown source to HTML. Raw HTML in the source is omitted.
func (t *Text) HTML(src string) string {
	var buf bytes.Buffer
	if err := t.md.Convert([]byte(src), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// Title implements meta.Excerpter.
func (t *Text) Title(p meta.Post) string {
	return strings.TrimSpace(p.Title)
}

// Excerpt implements meta.Excerpter. A manual excerpt is rendered as is;
// otherwise, when fromBody is set, the first words of the body are used.
func (t *Text) Excerpt(p meta.Post, fromBody bool) string {
	if p.Excerpt != nil && strings.TrimSpace(*p.Excerpt) != "" {
		return strings.TrimSpace(t.HTML(*p.Excerpt))
	}
	if !fromBody {
		return ""
	}
	return t.AutoExcerpt(p.Content)
}

// AutoExcerpt returns the first words of a Markdown body as plain text.
func (t *Text) AutoExcerpt(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	words := strings.Fields(meta.StripTags(t.HTML(content)))
	if len(words) > excerptWords {
		return strings.Join(words[:excerptWords], " ") + excerptMore
	}
	return strings.Join(words, " ")
}
