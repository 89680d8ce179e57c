// Package repurpose turns a published blog post or case study into social
// formats: a LinkedIn post, a carousel and a short video script.
package repurpose

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"agency-backend/internal/blog"
	"agency-backend/internal/casestudies"
	"agency-backend/internal/markdown"
	"github.com/PuerkitoBio/goquery"
)

var (
	ErrUnknownType    = errors.New("unknown source type")
	ErrSourceNotFound = errors.New("source not found")
)

const (
	KindBlog      = "blog"
	KindCaseStudy = "case-study"
)

type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Source is the common shape of anything that can be repurposed.
type Source struct {
	Kind     string    `json:"kind"`
	ID       string    `json:"id"`
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	Path     string    `json:"path"`
	Tags     []string  `json:"tags"`
	Stats    []Stat    `json:"stats,omitempty"`
	Sections []Section `json:"-"`
}

// Section is one heading of the source with the text beneath it.
type Section struct {
	Heading    string
	Paragraphs []string
	Bullets    []string
	Callouts   []string
	Lead       string
}

type PostGetter interface {
	Get(ctx context.Context, idOrSlug string) (blog.Post, error)
}

type CaseStudyGetter interface {
	Get(ctx context.Context, idOrSlug string) (casestudies.CaseStudy, error)
}

type Loader struct {
	posts PostGetter
	cases CaseStudyGetter
}

func NewLoader(posts PostGetter, cases CaseStudyGetter) *Loader {
	return &Loader{posts: posts, cases: cases}
}

// Load resolves kind and id to a Source. Kind accepts "case-study" and
// "case-studies" interchangeably.
func (l *Loader) Load(ctx context.Context, kind, id string) (Source, error) {
	switch normalizeKind(kind) {
	case KindBlog:
		post, err := l.posts.Get(ctx, id)
		if err != nil {
			if errors.Is(err, blog.ErrNotFound) {
				return Source{}, ErrSourceNotFound
			}
			return Source{}, err
		}
		return FromPost(post)
	case KindCaseStudy:
		cs, err := l.cases.Get(ctx, id)
		if err != nil {
			if errors.Is(err, casestudies.ErrNotFound) {
				return Source{}, ErrSourceNotFound
			}
			return Source{}, err
		}
		return FromCaseStudy(cs)
	default:
		return Source{}, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
}

func normalizeKind(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "blog", "post", "blog-post":
		return KindBlog
	case "case-study", "case-studies", "casestudy", "casestudies":
		return KindCaseStudy
	}
	return ""
}

func FromPost(post blog.Post) (Source, error) {
	sections, err := Extract(post.Content)
	if err != nil {
		return Source{}, err
	}
	summary := post.Excerpt
	if summary == "" {
		summary = markdown.FirstParagraph(markdown.Render(post.Content))
	}
	return Source{
		Kind:     KindBlog,
		ID:       post.ID,
		Slug:     post.Slug,
		Title:    post.Title,
		Summary:  summary,
		Path:     blog.Path(post.Slug),
		Tags:     post.Tags,
		Sections: sections,
	}, nil
}

func FromCaseStudy(cs casestudies.CaseStudy) (Source, error) {
	var b strings.Builder
	for _, part := range []struct{ heading, body string }{
		{"The Challenge", cs.Challenge},
		{"Our Solution", cs.Solution},
		{"The Results", cs.Results},
	} {
		if strings.TrimSpace(part.body) == "" {
			continue
		}
		b.WriteString("## " + part.heading + "\n" + part.body + "\n\n")
	}
	sections, err := Extract(b.String())
	if err != nil {
		return Source{}, err
	}

	keys := make([]string, 0, len(cs.Stats))
	for k := range cs.Stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	stats := make([]Stat, 0, len(keys))
	for _, k := range keys {
		stats = append(stats, Stat{Label: k, Value: cs.Stats[k]})
	}

	tags := append([]string{}, cs.Services...)
	if cs.Industry != "" {
		tags = append(tags, cs.Industry)
	}
	return Source{
		Kind:     KindCaseStudy,
		ID:       cs.ID,
		Slug:     cs.Slug,
		Title:    cs.Title,
		Summary:  cs.Summary,
		Path:     casestudies.Path(cs.Slug),
		Tags:     tags,
		Stats:    stats,
		Sections: sections,
	}, nil
}

// Extract renders src and walks the resulting HTML, grouping text under the
// nearest preceding heading. Text before the first heading lands in a
// section with an empty heading.
func Extract(src string) ([]Section, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markdown.HTML(markdown.Render(src))))
	if err != nil {
		return nil, fmt.Errorf("parse rendered markdown: %w", err)
	}

	sections := make([]Section, 0)
	current := Section{}
	flush := func() {
		if current.Heading != "" || len(current.Paragraphs) > 0 || len(current.Bullets) > 0 {
			sections = append(sections, current)
		}
		current = Section{}
	}

	doc.Find("h2, h3, p, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		switch goquery.NodeName(s) {
		case "h2", "h3":
			flush()
			current.Heading = text
		case "li":
			current.Bullets = append(current.Bullets, text)
		case "p":
			current.Paragraphs = append(current.Paragraphs, text)
			if s.HasClass("callout") {
				current.Callouts = append(current.Callouts, text)
			}
			if s.HasClass("lead") && current.Lead == "" {
				current.Lead = text
			}
		}
	})
	flush()
	return sections, nil
}

// KeyPoints lists headline takeaways: bullets first, then section headings
// with their first paragraph.
func (s Source) KeyPoints(limit int) []Point {
	points := make([]Point, 0, limit)
	for _, sec := range s.Sections {
		for _, b := range sec.Bullets {
			if len(points) == limit {
				return points
			}
			points = append(points, Point{Heading: sec.Heading, Text: b})
		}
	}
	for _, sec := range s.Sections {
		if len(points) == limit {
			break
		}
		if sec.Heading == "" || len(sec.Paragraphs) == 0 {
			continue
		}
		points = append(points, Point{Heading: sec.Heading, Text: sec.Paragraphs[0]})
	}
	return points
}

// Quote picks the most quotable line: a lead paragraph, then a callout.
func (s Source) Quote() string {
	for _, sec := range s.Sections {
		if sec.Lead != "" {
			return sec.Lead
		}
	}
	for _, sec := range s.Sections {
		if len(sec.Callouts) > 0 {
			return sec.Callouts[0]
		}
	}
	return ""
}

type Point struct {
	Heading string `json:"heading,omitempty"`
	Text    string `json:"text"`
}
