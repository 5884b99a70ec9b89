// Package ogtags is a small content site engine built with Go, Echo, and
// templ. It serves posts, pages, attachments, category, tag and author
// archives, and writes Open Graph meta tags into the head of every page.
//
// Users may provide their own templ templates via the ViewFuncs struct and
// register meta filters on App.Hooks; ogtags handles the handlers,
// middleware, and database operations.
package ogtags

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/ogtags/meta"
	"github.com/eringen/ogtags/views"
)

// ViewFuncs holds the templ components the framework calls when rendering
// pages. Nil entries fall back to the components in package views.
type ViewFuncs struct {
	Home     func(page views.ListPage) templ.Component
	Single   func(page views.SinglePage) templ.Component
	Archive  func(page views.ListPage) templ.Component
	NotFound func(page views.Page) templ.Component
	Error    func(page views.Page) templ.Component
}

func (v *ViewFuncs) setDefaults() {
	if v.Home == nil {
		v.Home = views.Home
	}
	if v.Single == nil {
		v.Single = views.Single
	}
	if v.Archive == nil {
		v.Archive = views.Archive
	}
	if v.NotFound == nil {
		v.NotFound = views.NotFound
	}
	if v.Error == nil {
		v.Error = views.ServerError
	}
}

// App is the central ogtags application. It wires together the store,
// cache, meta resolver, handlers, middleware, and templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *ContentCache
	Views    ViewFuncs
	Hooks    *meta.Hooks
	Resolver *meta.Resolver
	Text     *Text

	customRoutes []func(*App)
	staticDir    string
}

// New creates a new ogtags App with the given configuration and view functions.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	v.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     v,
		Hooks:     &meta.Hooks{},
		Text:      NewText(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store, builds the cache and resolver, and registers
// middleware and routes. Start calls it; tools that only need the store
// or in-process rendering call it directly.
func (a *App) Init() error {
	if err := a.Config.validate(); err != nil {
		return err
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("ogtags: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewContentCache(a.Store, a.Config.cacheTTL)

	a.initResolver()
	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) initResolver() {
	a.Resolver = &meta.Resolver{
		Site: meta.Site{
			Name:           a.Config.Name,
			Tagline:        a.Config.Description,
			URL:            BuildURL(a.Config.URL),
			Locale:         a.Config.Locale,
			FacebookAdmins: a.Config.Facebook.Admins,
			FacebookAppID:  a.Config.Facebook.AppID,
		},
		Types:        a.Cache,
		Links:        a,
		Text:         a.Text,
		Hooks:        a.Hooks,
		Images:       a,
		Avatars:      Gravatar{},
		ExtractImage: meta.SingleImageSrc,
	}
	if !a.Config.DisableTermImages {
		a.Resolver.ArchiveImages = a
	}
	if a.Config.DefaultImage != "" {
		a.Hooks.AddDefaultImageID(a.defaultImageID)
	}
}

// defaultImageID resolves the configured default image slug on every call
// so a later import of that attachment is picked up.
func (a *App) defaultImageID(id int64, _ meta.Post) int64 {
	att, err := a.Store.GetPostBySlug(meta.AttachmentType, a.Config.DefaultImage)
	if err != nil {
		return id
	}
	return att.ID
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	if a.Config.FrontPage != "" {
		e.GET("/", a.handleFrontPage)
		e.GET("/blog/", a.handleHome)
	} else {
		e.GET("/", a.handleHome)
		e.GET("/blog", handleBlogRedirect)
		e.GET("/blog/", handleBlogRedirect)
	}
	e.GET("/blog/:slug/", a.handleSingular("post"))
	e.GET("/page/:slug/", a.handleSingular("page"))
	e.GET("/attachment/:slug/", a.handleSingular(meta.AttachmentType))
	e.GET("/category/:slug/", a.handleTerm(TaxonomyCategory))
	e.GET("/tag/:slug/", a.handleTerm(TaxonomyTag))
	e.GET("/author/:slug/", a.handleAuthor)
	e.GET("/:type/:slug/", a.handleCustomType)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("ogtags: required environment variable %s is not set", key)
	}
	return v
}
