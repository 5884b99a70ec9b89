package ogtags

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/ogtags/meta"
)

const testContent = `
post_types:
  - name: product
    supports: [title, thumbnail]
images:
  - file: card.png
    title: Card
authors:
  - display_name: Jane Doe
    email: jane@acme.test
terms:
  - taxonomy: category
    name: Company News
    image: card
  - taxonomy: tag
    slug: go
    name: Go
posts:
  - slug: hello
    title: Hello
    date: "2024-01-15"
    author: jane-doe
    categories: [company-news]
    tags: [go]
    thumbnail: card
    content: Hello **world**
  - type: page
    title: About Us
    content: About.
  - type: product
    slug: anvil
    title: Anvil
  - slug: later
    title: Later
    draft: true
`

func writeContent(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "card.png"), testPNG(t, 600, 300), 0o644))
	return path
}

func TestImport(t *testing.T) {
	a := newTestApp(t, SiteConfig{})

	stats, err := a.Import(writeContent(t, testContent))
	require.NoError(t, err)
	assert.Equal(t, ImportStats{PostTypes: 1, Images: 1, Authors: 1, Terms: 2, Posts: 4}, stats)

	pt, ok := a.Cache.PostType("product")
	require.True(t, ok)
	assert.Equal(t, "product", pt.Base)
	assert.True(t, pt.Has(meta.FeatureThumbnail))

	hello, err := a.Cache.GetPost("post", "hello")
	require.NoError(t, err)
	assert.NotZero(t, hello.AuthorID)
	assert.NotZero(t, hello.ThumbnailID)
	assert.Len(t, hello.Terms, 2)

	_, err = a.Cache.GetPost("page", "about-us")
	assert.NoError(t, err)
	_, err = a.Cache.GetPost("post", "later")
	assert.ErrorIs(t, err, ErrNotFound)

	news, err := a.Store.GetTermBySlug(TaxonomyCategory, "company-news")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.test/public/uploads/card.jpg", a.ArchiveImage(news.ID))

	rec, doc := get(t, a, "/blog/hello/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://acme.test/public/uploads/card-300x150.jpg", ogTags(doc)["og:image"])

	rec, _ = get(t, a, "/product/anvil/")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestImportIsRepeatable(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	path := writeContent(t, `
authors:
  - slug: jane
    display_name: Jane
posts:
  - slug: hello
    title: Hello
    author: jane
`)
	_, err := a.Import(path)
	require.NoError(t, err)
	_, err = a.Import(path)
	require.NoError(t, err)

	posts, err := a.Cache.ListPosts("post", nil)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestImportErrors(t *testing.T) {
	tests := map[string]string{
		"unknown post type": "posts:\n  - type: recipe\n    title: Soup\n",
		"unknown author":    "posts:\n  - title: Soup\n    author: nobody\n",
		"unknown term":      "posts:\n  - title: Soup\n    tags: [missing]\n",
		"unknown feature":   "post_types:\n  - name: recipe\n    supports: [comments]\n",
		"unknown taxonomy":  "terms:\n  - taxonomy: genre\n    name: Jazz\n",
		"missing thumbnail": "posts:\n  - title: Soup\n    thumbnail: nope\n",
		"bad yaml":          "posts: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			a := newTestApp(t, SiteConfig{})
			_, err := a.Import(writeContent(t, content))
			assert.Error(t, err)
		})
	}
}
