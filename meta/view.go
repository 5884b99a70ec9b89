package meta

// View describes what kind of page is being rendered and the entity it shows.
// It is one of HomeView, SingularView, TermView, AuthorView or OtherView.
type View interface {
	isView()
}

// HomeView is the posts index.
type HomeView struct{}

// SingularView is a page showing exactly one content item. FrontPage is set
// when the item is the configured static front page.
type SingularView struct {
	Post      Post
	FrontPage bool
}

// TermView is the archive listing of a category, tag or other taxonomy term.
type TermView struct {
	Term Term
}

// AuthorView is an author archive.
type AuthorView struct {
	Author Author
}

// OtherView is any page that has no dedicated rules (search, 404, ...).
type OtherView struct{}

func (HomeView) isView()     {}
func (SingularView) isView() {}
func (TermView) isView()     {}
func (AuthorView) isView()   {}
func (OtherView) isView()    {}

// Post is a single content item. Optional fields are nil when absent.
type Post struct {
	ID          int64
	Type        string
	Slug        string
	Permalink   string
	Title       string
	Excerpt     *string
	Content     string
	ThumbnailID *int64
}

// Term is a taxonomy classification value.
type Term struct {
	ID          int64
	Slug        string
	Name        *string
	Description *string
	Taxonomy    *string
}

// Author is a user that owns content.
type Author struct {
	ID          int64
	Slug        string
	DisplayName *string
	Description *string
	Email       *string
}

// Site carries the site-wide values the resolver needs.
type Site struct {
	Name           string
	Tagline        string
	URL            string
	Locale         string
	FacebookAdmins string
	FacebookAppID  string
}

// String returns a pointer to s, for filling optional fields.
func String(s string) *string { return &s }

// ID returns a pointer to id, for filling optional fields.
func ID(id int64) *int64 { return &id }

// AttachmentType is the post type of media attachments.
const AttachmentType = "attachment"
