package ogtags

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/eringen/ogtags/meta"
)

// SiteConfig holds all configuration for an ogtags site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Tagline for the home page, RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD
	Locale      string `yaml:"locale"`      // Site locale, e.g. "fr_FR" (default "en_US")

	// FrontPage is the slug of a page shown at "/". The posts index then
	// moves to /blog/.
	FrontPage string `yaml:"front_page"`

	// DefaultImage is the slug of an attachment used as og:image for
	// items that have no thumbnail.
	DefaultImage string `yaml:"default_image"`

	// DisableTermImages turns off archive images for category and tag pages.
	DisableTermImages bool `yaml:"disable_term_images"`

	Facebook FacebookConfig `yaml:"facebook"`

	Addr         string `yaml:"addr"`          // Listen address (default ":3000")
	DatabasePath string `yaml:"database_path"` // SQLite path (default "data/site.db")
	CacheTTL     string `yaml:"cache_ttl"`     // Content cache TTL (default "5m")

	cacheTTL time.Duration
}

// FacebookConfig holds the fb: properties emitted on every page.
type FacebookConfig struct {
	Admins string `yaml:"admins"`
	AppID  string `yaml:"app_id"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Locale == "" {
		c.Locale = meta.BaselineLocale
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.cacheTTL == 0 {
		c.cacheTTL = 5 * time.Minute
	}
}

// LoadConfig reads a YAML config file and applies environment overrides
// (SITE_NAME, SITE_URL, SITE_DESCRIPTION, SITE_AUTHOR, SITE_LOCALE,
// FRONT_PAGE, FB_ADMINS, FB_APP_ID, ADDR, DATABASE_PATH). A missing file is
// not an error.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("ogtags: read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("ogtags: parse config %s: %w", path, err)
			}
		}
	}

	cfg.Name = EnvOr("SITE_NAME", cfg.Name)
	cfg.URL = EnvOr("SITE_URL", cfg.URL)
	cfg.Description = EnvOr("SITE_DESCRIPTION", cfg.Description)
	cfg.Author = EnvOr("SITE_AUTHOR", cfg.Author)
	cfg.Locale = EnvOr("SITE_LOCALE", cfg.Locale)
	cfg.FrontPage = EnvOr("FRONT_PAGE", cfg.FrontPage)
	cfg.Facebook.Admins = EnvOr("FB_ADMINS", cfg.Facebook.Admins)
	cfg.Facebook.AppID = EnvOr("FB_APP_ID", cfg.Facebook.AppID)
	cfg.Addr = EnvOr("ADDR", cfg.Addr)
	cfg.DatabasePath = EnvOr("DATABASE_PATH", cfg.DatabasePath)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) validate() error {
	locale, err := NormalizeLocale(c.Locale)
	if err != nil {
		return err
	}
	c.Locale = locale
	if c.CacheTTL != "" {
		ttl, err := time.ParseDuration(c.CacheTTL)
		if err != nil {
			return fmt.Errorf("ogtags: cache_ttl: %w", err)
		}
		c.cacheTTL = ttl
	}
	return nil
}

// NormalizeLocale converts a language tag such as "fr-fr" or "pt_BR" into
// the language_TERRITORY form Open Graph expects. A missing territory is
// inferred from the language ("de" becomes "de_DE").
func NormalizeLocale(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("ogtags: invalid locale %q: %w", s, err)
	}
	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf == language.No || region.String() == "ZZ" {
		return base.String(), nil
	}
	return base.String() + "_" + region.String(), nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets and
// uploads (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithFilter registers a meta filter at the named extension point.
func WithFilter(point string, f meta.Filter) Option {
	return func(a *App) {
		a.Hooks.Add(point, f)
	}
}

// WithCacheTTL overrides the content cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(a *App) {
		a.Config.cacheTTL = ttl
	}
}
