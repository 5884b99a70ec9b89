package ogtags

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/eringen/ogtags/meta"
)

// Store wraps a SQLite database holding post types, posts, terms, authors
// and attachments.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets page renders read while an import writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS post_types (
    name TEXT PRIMARY KEY,
    base TEXT NOT NULL,
    supports TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS authors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS terms (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    taxonomy TEXT NOT NULL,
    slug TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    UNIQUE (taxonomy, slug)
);
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    excerpt TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    author_id INTEGER NOT NULL DEFAULT 0,
    thumbnail_id INTEGER NOT NULL DEFAULT 0,
    published INTEGER NOT NULL DEFAULT 1,
    UNIQUE (type, slug)
);
CREATE TABLE IF NOT EXISTS post_terms (
    post_id INTEGER NOT NULL REFERENCES posts(id),
    term_id INTEGER NOT NULL REFERENCES terms(id),
    PRIMARY KEY (post_id, term_id)
);
CREATE TABLE IF NOT EXISTS attachments (
    post_id INTEGER PRIMARY KEY REFERENCES posts(id),
    file TEXT NOT NULL UNIQUE,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    medium_file TEXT NOT NULL,
    medium_width INTEGER NOT NULL,
    medium_height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS term_images (
    term_id INTEGER PRIMARY KEY REFERENCES terms(id),
    attachment_id INTEGER NOT NULL REFERENCES posts(id)
);
`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	for _, pt := range defaultPostTypes {
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO post_types (name, base, supports) VALUES (?, ?, ?)`,
			pt.Name, pt.Base, joinFeatures(pt.Supports)); err != nil {
			return fmt.Errorf("seed post type %s: %w", pt.Name, err)
		}
	}
	return nil
}

// --- Post types ---

// SavePostType upserts a post type.
func (s *Store) SavePostType(pt PostType) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO post_types (name, base, supports) VALUES (?, ?, ?)`,
		pt.Name, pt.Base, joinFeatures(pt.Supports))
	return err
}

// ListPostTypes returns every registered post type ordered by name.
func (s *Store) ListPostTypes() ([]PostType, error) {
	rows, err := s.db.Query(`SELECT name, base, supports FROM post_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []PostType
	for rows.Next() {
		var pt PostType
		var supports string
		if err := rows.Scan(&pt.Name, &pt.Base, &supports); err != nil {
			return nil, err
		}
		pt.Supports = parseFeatures(supports)
		types = append(types, pt)
	}
	return types, rows.Err()
}

// --- Authors ---

// SaveAuthor upserts an author by slug and fills in its id.
func (s *Store) SaveAuthor(a *Author) error {
	return s.db.QueryRow(`
INSERT INTO authors (slug, display_name, description, email) VALUES (?, ?, ?, ?)
ON CONFLICT (slug) DO UPDATE SET display_name = excluded.display_name, description = excluded.description, email = excluded.email
RETURNING id`, a.Slug, a.DisplayName, a.Description, a.Email).Scan(&a.ID)
}

// GetAuthor returns an author by id.
func (s *Store) GetAuthor(id int64) (Author, error) {
	return scanAuthor(s.db.QueryRow(`SELECT id, slug, display_name, description, email FROM authors WHERE id = ?`, id))
}

// GetAuthorBySlug returns an author by slug.
func (s *Store) GetAuthorBySlug(slug string) (Author, error) {
	return scanAuthor(s.db.QueryRow(`SELECT id, slug, display_name, description, email FROM authors WHERE slug = ?`, slug))
}

// ListAuthors returns all authors ordered by slug.
func (s *Store) ListAuthors() ([]Author, error) {
	rows, err := s.db.Query(`SELECT id, slug, display_name, description, email FROM authors ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// --- Terms ---

// SaveTerm upserts a term by taxonomy and slug and fills in its id.
func (s *Store) SaveTerm(t *Term) error {
	if _, ok := taxonomyBases[t.Taxonomy]; !ok {
		return fmt.Errorf("unknown taxonomy %q", t.Taxonomy)
	}
	return s.db.QueryRow(`
INSERT INTO terms (taxonomy, slug, name, description) VALUES (?, ?, ?, ?)
ON CONFLICT (taxonomy, slug) DO UPDATE SET name = excluded.name, description = excluded.description
RETURNING id`, t.Taxonomy, t.Slug, t.Name, t.Description).Scan(&t.ID)
}

// GetTermBySlug returns a term of taxonomy by slug.
func (s *Store) GetTermBySlug(taxonomy, slug string) (Term, error) {
	return scanTerm(s.db.QueryRow(`SELECT id, taxonomy, slug, name, description FROM terms WHERE taxonomy = ? AND slug = ?`, taxonomy, slug))
}

// ListTerms returns every term of taxonomy ordered by name. An empty
// taxonomy lists all terms.
func (s *Store) ListTerms(taxonomy string) ([]Term, error) {
	rows, err := s.db.Query(`SELECT id, taxonomy, slug, name, description FROM terms WHERE ? = '' OR taxonomy = ? ORDER BY taxonomy, name`, taxonomy, taxonomy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []Term
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// SetTermImage links an attachment to a term's archive page.
func (s *Store) SetTermImage(termID, attachmentID int64) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO term_images (term_id, attachment_id) VALUES (?, ?)`, termID, attachmentID)
	return err
}

// TermImage returns the attachment id linked to a term.
func (s *Store) TermImage(termID int64) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT attachment_id FROM term_images WHERE term_id = ?`, termID).Scan(&id)
	return id, err
}

// --- Posts ---

const postColumns = `id, type, slug, title, date, excerpt, content, author_id, thumbnail_id, published`

// SavePost upserts a post by type and slug, replaces its term links and
// fills in its id.
func (s *Store) SavePost(p *Post) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	published := 0
	if p.Published {
		published = 1
	}
	err = tx.QueryRow(`
INSERT INTO posts (type, slug, title, date, excerpt, content, author_id, thumbnail_id, published)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (type, slug) DO UPDATE SET
    title = excluded.title, date = excluded.date, excerpt = excluded.excerpt, content = excluded.content,
    author_id = excluded.author_id, thumbnail_id = excluded.thumbnail_id, published = excluded.published
RETURNING id`,
		p.Type, p.Slug, p.Title, p.Date, p.Excerpt, p.Content, p.AuthorID, p.ThumbnailID, published).Scan(&p.ID)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM post_terms WHERE post_id = ?`, p.ID); err != nil {
		return err
	}
	for _, t := range p.Terms {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO post_terms (post_id, term_id) VALUES (?, ?)`, p.ID, t.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetPost returns a post by id regardless of published status.
func (s *Store) GetPost(id int64) (Post, error) {
	p, err := scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
	if err != nil {
		return Post{}, err
	}
	return s.withTerms(p)
}

// GetPostBySlug returns a published post of postType by slug.
func (s *Store) GetPostBySlug(postType, slug string) (Post, error) {
	p, err := scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE type = ? AND slug = ? AND published = 1`, postType, slug))
	if err != nil {
		return Post{}, err
	}
	return s.withTerms(p)
}

// ListPublished returns every published post of any type ordered by date
// descending, with their terms.
func (s *Store) ListPublished() ([]Post, error) {
	rows, err := s.db.Query(`SELECT ` + postColumns + ` FROM posts WHERE published = 1 ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	index := make(map[int64]int)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		index[p.ID] = len(posts)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	termRows, err := s.db.Query(`
SELECT pt.post_id, t.id, t.taxonomy, t.slug, t.name, t.description
FROM post_terms pt JOIN terms t ON t.id = pt.term_id
ORDER BY t.taxonomy, t.name`)
	if err != nil {
		return nil, err
	}
	defer termRows.Close()
	for termRows.Next() {
		var postID int64
		var t Term
		if err := termRows.Scan(&postID, &t.ID, &t.Taxonomy, &t.Slug, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		if i, ok := index[postID]; ok {
			posts[i].Terms = append(posts[i].Terms, t)
		}
	}
	return posts, termRows.Err()
}

// DeletePost removes a post by id together with its term links and
// attachment files record.
func (s *Store) DeletePost(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, q := range []string{
		`DELETE FROM post_terms WHERE post_id = ?`,
		`DELETE FROM attachments WHERE post_id = ?`,
		`DELETE FROM term_images WHERE attachment_id = ?`,
		`DELETE FROM posts WHERE id = ?`,
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) withTerms(p Post) (Post, error) {
	rows, err := s.db.Query(`
SELECT t.id, t.taxonomy, t.slug, t.name, t.description
FROM post_terms pt JOIN terms t ON t.id = pt.term_id
WHERE pt.post_id = ? ORDER BY t.taxonomy, t.name`, p.ID)
	if err != nil {
		return Post{}, err
	}
	defer rows.Close()
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return Post{}, err
		}
		p.Terms = append(p.Terms, t)
	}
	return p, rows.Err()
}

// --- Attachments ---

// SaveAttachment stores the file metadata of an attachment post.
func (s *Store) SaveAttachment(a Attachment) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO attachments (post_id, file, width, height, medium_file, medium_width, medium_height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.PostID, a.File, a.Width, a.Height, a.MediumFile, a.MediumWidth, a.MediumHeight, a.Size, a.UploadedAt)
	return err
}

// GetAttachment returns the files of an attachment post.
func (s *Store) GetAttachment(postID int64) (Attachment, error) {
	var a Attachment
	err := s.db.QueryRow(`SELECT post_id, file, width, height, medium_file, medium_width, medium_height, size, uploaded_at FROM attachments WHERE post_id = ?`, postID).
		Scan(&a.PostID, &a.File, &a.Width, &a.Height, &a.MediumFile, &a.MediumWidth, &a.MediumHeight, &a.Size, &a.UploadedAt)
	return a, err
}

// FileExists reports whether an attachment already uses filename.
func (s *Store) FileExists(filename string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM attachments WHERE file = ? OR medium_file = ?`, filename, filename).Scan(&n)
	return n > 0, err
}

// --- scanning ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var p Post
	var published int
	err := row.Scan(&p.ID, &p.Type, &p.Slug, &p.Title, &p.Date, &p.Excerpt, &p.Content, &p.AuthorID, &p.ThumbnailID, &published)
	p.Published = published == 1
	return p, err
}

func scanTerm(row rowScanner) (Term, error) {
	var t Term
	err := row.Scan(&t.ID, &t.Taxonomy, &t.Slug, &t.Name, &t.Description)
	return t, err
}

func scanAuthor(row rowScanner) (Author, error) {
	var a Author
	err := row.Scan(&a.ID, &a.Slug, &a.DisplayName, &a.Description, &a.Email)
	return a, err
}

func joinFeatures(fs []meta.Feature) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = string(f)
	}
	return "," + strings.Join(parts, ",") + ","
}

// parseFeatures splits a comma-delimited feature list (e.g. ",title,editor,").
func parseFeatures(s string) []meta.Feature {
	var out []meta.Feature
	for _, part := range FilterEmpty(strings.Split(s, ",")) {
		out = append(out, meta.Feature(part))
	}
	return out
}
