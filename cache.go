package ogtags

import (
	"database/sql"
	"sync"
	"time"

	"github.com/eringen/ogtags/meta"
)

// ErrNotFound is returned when a requested post, term or author does not exist.
var ErrNotFound = sql.ErrNoRows

// ContentCache is an in-memory cache of published posts and post types
// with TTL. It answers post type capability queries for the meta resolver.
type ContentCache struct {
	mu      sync.RWMutex
	posts   []Post
	types   map[string]PostType
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewContentCache creates a ContentCache backed by the given Store.
func NewContentCache(s *Store, ttl time.Duration) *ContentCache {
	return &ContentCache{store: s, ttl: ttl}
}

func (c *ContentCache) valid() bool {
	return c.types != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.types = nil
	c.mu.Unlock()
}

func (c *ContentCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPublished()
	if err != nil {
		return err
	}
	list, err := c.store.ListPostTypes()
	if err != nil {
		return err
	}
	types := make(map[string]PostType, len(list))
	for _, pt := range list {
		types[pt.Name] = pt
	}
	c.posts = posts
	c.types = types
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and types after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ContentCache) ensureLoaded() ([]Post, map[string]PostType, error) {
	c.mu.RLock()
	if c.valid() {
		posts, types := c.posts, c.types
		c.mu.RUnlock()
		return posts, types, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.types, nil
}

// ListPosts returns published posts of postType, newest first, keeping only
// those accepted by match (nil accepts all).
func (c *ContentCache) ListPosts(postType string, match func(Post) bool) ([]Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	var out []Post
	for _, p := range posts {
		if p.Type != postType {
			continue
		}
		if match == nil || match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListAll returns every published post of every type.
func (c *ContentCache) ListAll() ([]Post, error) {
	posts, _, err := c.ensureLoaded()
	return posts, err
}

// GetPost returns a single published post by type and slug from the cache.
func (c *ContentCache) GetPost(postType, slug string) (Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.Type == postType && p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// PostType returns a registered post type by name.
func (c *ContentCache) PostType(name string) (PostType, bool) {
	_, types, err := c.ensureLoaded()
	if err != nil {
		return PostType{}, false
	}
	pt, ok := types[name]
	return pt, ok
}

// PostTypes returns every registered post type.
func (c *ContentCache) PostTypes() ([]PostType, error) {
	_, types, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	out := make([]PostType, 0, len(types))
	for _, pt := range types {
		out = append(out, pt)
	}
	return out, nil
}

// Supports implements meta.TypeSupport. Unknown types and load failures
// support nothing.
func (c *ContentCache) Supports(postType string, f meta.Feature) bool {
	pt, ok := c.PostType(postType)
	return ok && pt.Has(f)
}

// TaggedWith matches posts linked to term.
func TaggedWith(termID int64) func(Post) bool {
	return func(p Post) bool {
		for _, t := range p.Terms {
			if t.ID == termID {
				return true
			}
		}
		return false
	}
}

// WrittenBy matches posts owned by author.
func WrittenBy(authorID int64) func(Post) bool {
	return func(p Post) bool {
		return p.AuthorID == authorID
	}
}
