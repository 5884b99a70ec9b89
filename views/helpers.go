package views

import (
	"encoding/json"
	"strings"
)

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block for the site.
func WebsiteJsonLD(site Site) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      site.URL,
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	return marshalJsonLD(data)
}

// ArticleJsonLD produces a Schema.org BlogPosting JSON-LD block for a
// single item.
func ArticleJsonLD(site Site, p SinglePage, url, description string) string {
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      p.Heading,
		"datePublished": p.Date,
		"url":           url,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   url,
		},
	}
	if description != "" {
		data["description"] = description
	}
	if p.ImageURL != "" {
		data["image"] = p.ImageURL
	}
	author := p.Author.Name
	if author == "" {
		author = site.Author
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if len(p.Tags) > 0 {
		names := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			names[i] = t.Name
		}
		data["keywords"] = strings.Join(names, ", ")
	}
	return marshalJsonLD(data)
}

// ProfileJsonLD produces a Schema.org ProfilePage JSON-LD block for an
// author archive.
func ProfileJsonLD(name, description, url, image string) string {
	person := map[string]string{
		"@type": "Person",
		"name":  name,
		"url":   url,
	}
	if description != "" {
		person["description"] = description
	}
	if image != "" {
		person["image"] = image
	}
	return marshalJsonLD(map[string]interface{}{
		"@context":   "https://schema.org",
		"@type":      "ProfilePage",
		"mainEntity": person,
	})
}

func marshalJsonLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
