// Package seo builds schema.org JSON-LD values for public pages. Builders are
// pure: they only shape the inputs they are given.
package seo

import (
	"strings"
	"time"
)

const Context = "https://schema.org"

// Site identifies the publisher of every structured-data object.
type Site struct {
	Name   string
	URL    string
	Logo   string
	SameAs []string
}

// Abs joins a site-relative path onto the site URL.
func (s Site) Abs(path string) string {
	if path == "" {
		return s.URL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(s.URL, "/") + "/" + strings.TrimLeft(path, "/")
}

type Organization struct {
	Context string   `json:"@context,omitempty"`
	Type    string   `json:"@type"`
	Name    string   `json:"name"`
	URL     string   `json:"url"`
	Logo    string   `json:"logo,omitempty"`
	SameAs  []string `json:"sameAs,omitempty"`
}

func NewOrganization(site Site) Organization {
	return Organization{
		Context: Context,
		Type:    "Organization",
		Name:    site.Name,
		URL:     site.URL,
		Logo:    site.Logo,
		SameAs:  site.SameAs,
	}
}

func publisher(site Site) *Organization {
	org := NewOrganization(site)
	org.Context = ""
	return &org
}

type WebSite struct {
	Context   string        `json:"@context,omitempty"`
	Type      string        `json:"@type"`
	Name      string        `json:"name"`
	URL       string        `json:"url"`
	Publisher *Organization `json:"publisher,omitempty"`
}

func NewWebSite(site Site) WebSite {
	return WebSite{Context: Context, Type: "WebSite", Name: site.Name, URL: site.URL, Publisher: publisher(site)}
}

type Person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type Article struct {
	Context          string        `json:"@context,omitempty"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	URL              string        `json:"url"`
	Image            string        `json:"image,omitempty"`
	Author           *Person       `json:"author,omitempty"`
	Publisher        *Organization `json:"publisher,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	ArticleSection   string        `json:"articleSection,omitempty"`
	Keywords         string        `json:"keywords,omitempty"`
	WordCount        int           `json:"wordCount,omitempty"`
	MainEntityOfPage string        `json:"mainEntityOfPage,omitempty"`
	About            []Thing       `json:"about,omitempty"`
}

type Thing struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type ArticleInput struct {
	Title       string
	Path        string
	Description string
	Author      string
	Published   time.Time
	Modified    time.Time
	Image       string
	Category    string
	Tags        []string
	WordCount   int
}

func NewBlogPosting(site Site, in ArticleInput) Article {
	a := Article{
		Context:          Context,
		Type:             "BlogPosting",
		Headline:         in.Title,
		Description:      in.Description,
		URL:              site.Abs(in.Path),
		MainEntityOfPage: site.Abs(in.Path),
		Publisher:        publisher(site),
		DatePublished:    isoDate(in.Published),
		DateModified:     isoDate(in.Modified),
		ArticleSection:   in.Category,
		Keywords:         strings.Join(in.Tags, ", "),
		WordCount:        in.WordCount,
	}
	if in.Image != "" {
		a.Image = site.Abs(in.Image)
	}
	if in.Author != "" {
		a.Author = &Person{Type: "Person", Name: in.Author}
	}
	return a
}

type CaseStudyInput struct {
	Title       string
	Path        string
	Description string
	Client      string
	Industry    string
	Services    []string
	Date        time.Time
	Image       string
}

// NewCaseStudy describes a case study as a CreativeWork about the client.
func NewCaseStudy(site Site, in CaseStudyInput) Article {
	a := Article{
		Context:          Context,
		Type:             "CreativeWork",
		Headline:         in.Title,
		Description:      in.Description,
		URL:              site.Abs(in.Path),
		MainEntityOfPage: site.Abs(in.Path),
		Publisher:        publisher(site),
		DatePublished:    isoDate(in.Date),
		ArticleSection:   in.Industry,
		Keywords:         strings.Join(in.Services, ", "),
	}
	if in.Image != "" {
		a.Image = site.Abs(in.Image)
	}
	if in.Client != "" {
		a.About = []Thing{{Type: "Organization", Name: in.Client}}
	}
	return a
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
