package views

import "github.com/a-h/templ"

// Site holds the site-wide values every page template reads.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
	Lang        string // BCP 47 language for <html lang>, e.g. "fr-FR"
	HomeURL     string // posts index
}

// Page carries what the shared layout needs: the document title, the
// Open Graph tags for <head>, and an optional JSON-LD block.
type Page struct {
	Site   Site
	Title  string
	Head   templ.Component
	JSONLD string
}

// Link is a named URL.
type Link struct {
	Name string
	URL  string
}

// Item is one entry of a post listing.
type Item struct {
	Title    string
	URL      string
	Date     string
	Summary  string
	ImageURL string
}

// ListPage is the posts index or an archive listing.
type ListPage struct {
	Page
	Heading  string
	Intro    string
	ImageURL string
	Items    []Item
	Terms    []Link
}

// SinglePage is a post, page or attachment.
type SinglePage struct {
	Page
	Heading    string
	Date       string
	Author     Link
	AvatarURL  string
	ImageURL   string
	BodyHTML   string
	Categories []Link
	Tags       []Link
	Related    []Item
}
