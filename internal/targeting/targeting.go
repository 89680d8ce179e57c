// Package targeting builds local landing pages for a service or an industry,
// optionally scoped to a city.
package targeting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agency-backend/internal/casestudies"
	"agency-backend/internal/content"
	"agency-backend/internal/seo"
	"agency-backend/internal/utils"
)

var (
	ErrUnknownType = errors.New("unknown landing type")
	ErrNotFound    = errors.New("landing page not found")
)

const (
	TypeService  = "service"
	TypeIndustry = "industry"

	maxRelated     = 3
	metaDescLength = 160
)

type CaseStudyLister interface {
	ListReal(ctx context.Context) ([]casestudies.CaseStudy, error)
}

type Request struct {
	Type  string
	Slug  string
	City  string
	State string
}

type Related struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Client  string `json:"client"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

type Landing struct {
	Title              string    `json:"title"`
	MetaDescription    string    `json:"metaDescription"`
	Headline           string    `json:"headline"`
	Intro              string    `json:"intro"`
	Bullets            []string  `json:"bullets"`
	RelatedCaseStudies []Related `json:"relatedCaseStudies"`
	JSONLD             seo.Graph `json:"jsonLd"`
}

type Service struct {
	catalog content.Catalog
	cases   CaseStudyLister
	site    seo.Site
}

func NewService(catalog content.Catalog, cases CaseStudyLister, site seo.Site) *Service {
	return &Service{catalog: catalog, cases: cases, site: site}
}

func (s *Service) Landing(ctx context.Context, req Request) (Landing, error) {
	kind := strings.ToLower(strings.TrimSpace(req.Type))
	var (
		entry content.Entry
		ok    bool
	)
	switch kind {
	case TypeService:
		entry, ok = s.catalog.Service(req.Slug)
	case TypeIndustry:
		entry, ok = s.catalog.Industry(req.Slug)
	default:
		return Landing{}, fmt.Errorf("%w: %q", ErrUnknownType, req.Type)
	}
	if !ok {
		return Landing{}, ErrNotFound
	}

	items, err := s.cases.ListReal(ctx)
	if err != nil {
		return Landing{}, err
	}

	city := strings.TrimSpace(req.City)
	state := strings.ToUpper(strings.TrimSpace(req.State))
	place := placeName(city, state)
	path := landingPath(kind, entry.Slug, city, state)

	subject := entry.Name
	if kind == TypeIndustry {
		subject = entry.Name + " Marketing"
	}
	headline := subject
	if place != "" {
		headline = subject + " in " + place
	}

	intro := entry.Summary
	if city != "" {
		intro = fmt.Sprintf("%s Serving brands in %s and the surrounding area.", strings.TrimSpace(entry.Summary), city)
	}

	landing := Landing{
		Title:              headline + " | " + s.site.Name,
		MetaDescription:    utils.Truncate(intro, metaDescLength),
		Headline:           headline,
		Intro:              intro,
		Bullets:            append([]string{}, entry.Bullets...),
		RelatedCaseStudies: s.related(kind, entry, items),
	}

	svc := seo.NewService(s.site, seo.ServiceInput{
		Name:        headline,
		ServiceType: subject,
		Description: entry.Summary,
		Path:        path,
		City:        city,
		State:       state,
	})
	svc.Context = ""
	trail := []seo.Crumb{
		{Name: "Home", Path: "/"},
		{Name: entry.Name, Path: landingPath(kind, entry.Slug, "", "")},
	}
	if place != "" {
		trail = append(trail, seo.Crumb{Name: place, Path: path})
	}
	crumbs := seo.NewBreadcrumbs(s.site, trail...)
	crumbs.Context = ""
	graph := []interface{}{svc, crumbs}
	if len(entry.FAQs) > 0 {
		faqs := make([]seo.FAQ, 0, len(entry.FAQs))
		for _, f := range entry.FAQs {
			faqs = append(faqs, seo.FAQ{Question: f.Question, Answer: f.Answer})
		}
		page := seo.NewFAQPage(faqs)
		page.Context = ""
		graph = append(graph, page)
	}
	landing.JSONLD = seo.NewGraph(graph...)
	return landing, nil
}

// related picks published case studies that used the service or belong to
// the industry, newest first.
func (s *Service) related(kind string, entry content.Entry, items []casestudies.CaseStudy) []Related {
	out := make([]Related, 0, maxRelated)
	for _, cs := range items {
		if len(out) == maxRelated {
			break
		}
		if !matches(kind, entry, cs) {
			continue
		}
		out = append(out, Related{
			Title:   cs.Title,
			Slug:    cs.Slug,
			Client:  cs.Client,
			Summary: cs.Summary,
			URL:     s.site.Abs(casestudies.Path(cs.Slug)),
		})
	}
	return out
}

func matches(kind string, entry content.Entry, cs casestudies.CaseStudy) bool {
	if kind == TypeIndustry {
		return utils.Slugify(cs.Industry) == entry.Slug
	}
	for _, svc := range cs.Services {
		if utils.Slugify(svc) == entry.Slug {
			return true
		}
	}
	return false
}

func placeName(city, state string) string {
	switch {
	case city != "" && state != "":
		return city + ", " + state
	default:
		return city
	}
}

func landingPath(kind, slug, city, state string) string {
	base := "/services/" + slug
	if kind == TypeIndustry {
		base = "/industries/" + slug
	}
	if city == "" {
		return base
	}
	return base + "/" + utils.Slugify(strings.TrimSpace(city+" "+strings.ToLower(state)))
}
