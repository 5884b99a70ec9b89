package ogtags

import "embed"

// EmbeddedAssets contains static assets shipped with the engine: site.css
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
