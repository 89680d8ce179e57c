package seo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSite = Site{Name: "Agency", URL: "https://agency.example", Logo: "https://agency.example/logo.png"}

func toMap(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestSiteAbs(t *testing.T) {
	assert.Equal(t, "https://agency.example/blog/a", testSite.Abs("/blog/a"))
	assert.Equal(t, "https://agency.example/blog/a", testSite.Abs("blog/a"))
	assert.Equal(t, "https://cdn.example/x.jpg", testSite.Abs("https://cdn.example/x.jpg"))
	assert.Equal(t, "https://agency.example", testSite.Abs(""))
}

func TestBlogPosting(t *testing.T) {
	published := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	m := toMap(t, NewBlogPosting(testSite, ArticleInput{
		Title:     "Local SEO",
		Path:      "/blog/local-seo",
		Author:    "Dana",
		Published: published,
		Tags:      []string{"seo", "local"},
		WordCount: 900,
	}))

	assert.Equal(t, Context, m["@context"])
	assert.Equal(t, "BlogPosting", m["@type"])
	assert.Equal(t, "https://agency.example/blog/local-seo", m["url"])
	assert.Equal(t, "seo, local", m["keywords"])
	assert.Equal(t, "2026-01-05T12:00:00Z", m["datePublished"])
	assert.NotContains(t, m, "dateModified")
	author := m["author"].(map[string]interface{})
	assert.Equal(t, "Dana", author["name"])
	pub := m["publisher"].(map[string]interface{})
	assert.NotContains(t, pub, "@context")
}

func TestCaseStudyAbout(t *testing.T) {
	m := toMap(t, NewCaseStudy(testSite, CaseStudyInput{Title: "Launch", Path: "/case-studies/launch", Client: "Acme"}))
	about := m["about"].([]interface{})
	require.Len(t, about, 1)
	assert.Equal(t, "Acme", about[0].(map[string]interface{})["name"])
}

func TestJobPosting(t *testing.T) {
	m := toMap(t, NewJobPosting(testSite, JobInput{Title: "Brand Ambassador", Type: "Part Time", City: "Austin", State: "TX", PayRange: "$20-$25/hr"}))
	assert.Equal(t, "PART_TIME", m["employmentType"])
	loc := m["jobLocation"].(map[string]interface{})
	addr := loc["address"].(map[string]interface{})
	assert.Equal(t, "Austin", addr["addressLocality"])
	assert.Contains(t, m, "baseSalary")
	assert.Equal(t, "OTHER", EmploymentType("gig"))
	assert.Equal(t, "CONTRACTOR", EmploymentType("Contract"))
}

func TestEventWithoutLocation(t *testing.T) {
	m := toMap(t, NewEvent(testSite, EventInput{Name: "Expo", Path: "/events/expo"}))
	assert.NotContains(t, m, "location")
	assert.Equal(t, "https://schema.org/EventScheduled", m["eventStatus"])
}

func TestServiceAreaServed(t *testing.T) {
	m := toMap(t, NewService(testSite, ServiceInput{Name: "Event Staffing", City: "Dallas", State: "TX"}))
	area := m["areaServed"].(map[string]interface{})
	assert.Equal(t, "Dallas, TX", area["name"])

	m = toMap(t, NewService(testSite, ServiceInput{Name: "Event Staffing"}))
	assert.NotContains(t, m, "areaServed")
}

func TestCourseDuration(t *testing.T) {
	assert.Equal(t, "PT1H30M", NewCourse(testSite, "c", "", 90, nil).TimeRequired)
	assert.Equal(t, "PT2H", NewCourse(testSite, "c", "", 120, nil).TimeRequired)
	assert.Equal(t, "PT45M", NewCourse(testSite, "c", "", 45, []string{"intro"}).TimeRequired)
	assert.Equal(t, "", NewCourse(testSite, "c", "", 0, nil).TimeRequired)
}

func TestBreadcrumbsPositions(t *testing.T) {
	list := NewBreadcrumbs(testSite, Crumb{Name: "Home", Path: "/"}, Crumb{Name: "Blog", Path: "/blog"})
	require.Len(t, list.ItemListElement, 2)
	assert.Equal(t, 1, list.ItemListElement[0].Position)
	assert.Equal(t, 2, list.ItemListElement[1].Position)
	assert.Equal(t, "https://agency.example/blog", list.ItemListElement[1].Item)
}

func TestFAQAndGraph(t *testing.T) {
	g := NewGraph(NewOrganization(testSite), NewFAQPage([]FAQ{{Question: "Q?", Answer: "A."}}))
	m := toMap(t, g)
	assert.Equal(t, Context, m["@context"])
	assert.Len(t, m["@graph"], 2)
}
