package ogtags

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"en_US", "en_US"},
		{"fr-fr", "fr_FR"},
		{"pt_BR", "pt_BR"},
		{"de", "de_DE"},
		{" en-GB ", "en_GB"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeLocale(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeLocaleInvalid(t *testing.T) {
	_, err := NormalizeLocale("not a locale")
	assert.Error(t, err)
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Acme
url: https://acme.test/
description: Just another site
locale: fr-fr
front_page: home
default_image: card
facebook:
  admins: "123,456"
  app_id: "789"
cache_ttl: 30s
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme", cfg.Name)
	assert.Equal(t, "https://acme.test", cfg.URL)
	assert.Equal(t, "Just another site", cfg.Description)
	assert.Equal(t, "fr_FR", cfg.Locale)
	assert.Equal(t, "home", cfg.FrontPage)
	assert.Equal(t, "card", cfg.DefaultImage)
	assert.Equal(t, "123,456", cfg.Facebook.Admins)
	assert.Equal(t, "789", cfg.Facebook.AppID)
	assert.Equal(t, 30*time.Second, cfg.cacheTTL)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "data/site.db", cfg.DatabasePath)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Acme\nlocale: en_US\n"), 0o644))
	t.Setenv("SITE_NAME", "Override")
	t.Setenv("SITE_LOCALE", "de")
	t.Setenv("FB_APP_ID", "42")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Override", cfg.Name)
	assert.Equal(t, "de_DE", cfg.Locale)
	assert.Equal(t, "42", cfg.Facebook.AppID)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Blog", cfg.Name)
	assert.Equal(t, "en_US", cfg.Locale)
	assert.Equal(t, 5*time.Minute, cfg.cacheTTL)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: [unterminated"), 0o644))
	_, err := LoadConfig(bad)
	assert.Error(t, err)

	ttl := filepath.Join(dir, "ttl.yaml")
	require.NoError(t, os.WriteFile(ttl, []byte("cache_ttl: soon"), 0o644))
	_, err = LoadConfig(ttl)
	assert.Error(t, err)
}

func TestEnvOr(t *testing.T) {
	t.Setenv("OGTAGS_TEST_VALUE", "set")
	assert.Equal(t, "set", EnvOr("OGTAGS_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", EnvOr("OGTAGS_TEST_UNSET", "fallback"))
}
