package meta

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ImageExtractor pulls an image URL out of rendered markup.
type ImageExtractor func(markup string) (src string, ok bool)

// SingleImageSrc returns the src attribute of the only <img> element in
// markup. Markup with zero or several images yields no result.
func SingleImageSrc(markup string) (string, bool) {
	if strings.TrimSpace(markup) == "" {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", false
	}
	imgs := doc.Find("img")
	if imgs.Length() != 1 {
		return "", false
	}
	src, ok := imgs.Attr("src")
	if !ok || src == "" {
		return "", false
	}
	return src, true
}
