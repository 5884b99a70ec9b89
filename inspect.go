package ogtags

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/PuerkitoBio/goquery"
)

// HeadTag is one Open Graph property found in a rendered page.
type HeadTag struct {
	Property string
	Content  string
}

// Inspect renders path in-process and returns the og: and fb: meta tags of
// the resulting page in document order. The app must be initialized.
func (a *App) Inspect(path string) ([]HeadTag, error) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	if rec.Code >= 300 && rec.Code < 400 {
		return nil, fmt.Errorf("ogtags: %s redirects to %s", path, rec.Header().Get("Location"))
	}
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		return nil, fmt.Errorf("ogtags: parse %s: %w", path, err)
	}
	return HeadTags(doc), nil
}

// HeadTags collects the og: and fb: meta tags of doc.
func HeadTags(doc *goquery.Document) []HeadTag {
	var tags []HeadTag
	doc.Find(`head meta[property^="og:"], head meta[property^="fb:"]`).Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		content, _ := s.Attr("content")
		tags = append(tags, HeadTag{Property: prop, Content: content})
	})
	return tags
}
