package content

import "strings"

type FAQ struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// Entry is one service or industry a landing page can be built for.
type Entry struct {
	Slug    string   `yaml:"slug" json:"slug"`
	Name    string   `yaml:"name" json:"name"`
	Summary string   `yaml:"summary" json:"summary"`
	Bullets []string `yaml:"bullets" json:"bullets"`
	FAQs    []FAQ    `yaml:"faqs" json:"faqs,omitempty"`
}

type Catalog struct {
	Services   []Entry `yaml:"services" json:"services"`
	Industries []Entry `yaml:"industries" json:"industries"`
}

func (c Catalog) Service(slug string) (Entry, bool) {
	return find(c.Services, slug)
}

func (c Catalog) Industry(slug string) (Entry, bool) {
	return find(c.Industries, slug)
}

func find(entries []Entry, slug string) (Entry, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, e := range entries {
		if e.Slug == slug {
			return e, true
		}
	}
	return Entry{}, false
}
