package targeting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agency-backend/internal/cache"
	"agency-backend/internal/casestudies"
	"agency-backend/internal/content"
	"agency-backend/internal/logging"
	"agency-backend/internal/seo"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSite = seo.Site{Name: "Agency", URL: "https://agency.example"}

type caseList struct {
	items []casestudies.CaseStudy
	err   error
	calls int
}

func (c *caseList) ListReal(ctx context.Context) ([]casestudies.CaseStudy, error) {
	c.calls++
	return c.items, c.err
}

func catalog() content.Catalog {
	return content.Catalog{
		Services: []content.Entry{{
			Slug:    "event-staffing",
			Name:    "Event Staffing",
			Summary: "Trained ambassadors for activations.",
			Bullets: []string{"Vetted staff", "Same-day reports"},
			FAQs:    []content.FAQ{{Question: "Notice?", Answer: "One week."}},
		}},
		Industries: []content.Entry{{Slug: "beverage", Name: "Beverage", Summary: "Sampling for drinks brands."}},
	}
}

func cases() *caseList {
	return &caseList{items: []casestudies.CaseStudy{
		{Title: "Festival", Slug: "festival", Industry: "Beverage", Services: []string{"Event Staffing", "Sampling"}},
		{Title: "Opening", Slug: "opening", Industry: "Retail", Services: []string{"Street Teams"}},
		{Title: "Tour", Slug: "tour", Industry: "Beverage", Services: []string{"Event Staffing"}},
		{Title: "Expo", Slug: "expo", Industry: "Healthcare", Services: []string{"event staffing"}},
		{Title: "Older", Slug: "older", Industry: "Beverage", Services: []string{"Event Staffing"}},
	}}
}

func TestServiceLandingWithCity(t *testing.T) {
	svc := NewService(catalog(), cases(), testSite)
	l, err := svc.Landing(context.Background(), Request{Type: "service", Slug: "event-staffing", City: "Austin", State: "tx"})
	require.NoError(t, err)

	assert.Equal(t, "Event Staffing in Austin, TX", l.Headline)
	assert.Equal(t, "Event Staffing in Austin, TX | Agency", l.Title)
	assert.Contains(t, l.Intro, "Serving brands in Austin")
	assert.LessOrEqual(t, len([]rune(l.MetaDescription)), 160)
	assert.Equal(t, []string{"Vetted staff", "Same-day reports"}, l.Bullets)

	require.Len(t, l.RelatedCaseStudies, 3)
	assert.Equal(t, []string{"festival", "tour", "expo"}, []string{l.RelatedCaseStudies[0].Slug, l.RelatedCaseStudies[1].Slug, l.RelatedCaseStudies[2].Slug})
	assert.Equal(t, "https://agency.example/case-studies/festival", l.RelatedCaseStudies[0].URL)

	require.Len(t, l.JSONLD.Graph, 3)
	service := l.JSONLD.Graph[0].(seo.Service)
	assert.Equal(t, "https://agency.example/services/event-staffing/austin-tx", service.URL)
	require.NotNil(t, service.AreaServed)
	crumbs := l.JSONLD.Graph[1].(seo.BreadcrumbList)
	require.Len(t, crumbs.ItemListElement, 3)
	assert.Equal(t, 3, crumbs.ItemListElement[2].Position)
}

func TestIndustryLandingWithoutCity(t *testing.T) {
	svc := NewService(catalog(), cases(), testSite)
	l, err := svc.Landing(context.Background(), Request{Type: "Industry", Slug: "beverage"})
	require.NoError(t, err)
	assert.Equal(t, "Beverage Marketing", l.Headline)
	assert.Equal(t, "Sampling for drinks brands.", l.Intro)
	require.Len(t, l.RelatedCaseStudies, 3)
	assert.Equal(t, "older", l.RelatedCaseStudies[2].Slug)
	assert.Len(t, l.JSONLD.Graph, 2)
	assert.Nil(t, l.JSONLD.Graph[0].(seo.Service).AreaServed)
}

func TestLandingErrors(t *testing.T) {
	svc := NewService(catalog(), cases(), testSite)
	_, err := svc.Landing(context.Background(), Request{Type: "city", Slug: "austin"})
	assert.ErrorIs(t, err, ErrUnknownType)
	_, err = svc.Landing(context.Background(), Request{Type: "service", Slug: "skywriting"})
	assert.ErrorIs(t, err, ErrNotFound)

	failing := NewService(catalog(), &caseList{err: errors.New("boom")}, testSite)
	_, err = failing.Landing(context.Background(), Request{Type: "service", Slug: "event-staffing"})
	assert.EqualError(t, err, "boom")
}

func TestHandlerCachesUnderCaseStudyPrefix(t *testing.T) {
	list := cases()
	c := cache.NewMemory()
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewHandler(NewService(catalog(), list, testSite), c, time.Minute, logging.Discard()).Routes(r)
	})
	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/api/targeting/service/event-staffing?city=Austin&state=TX")
	require.Equal(t, http.StatusOK, rec.Code)
	var l Landing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &l))
	assert.Equal(t, "Event Staffing in Austin, TX", l.Headline)
	assert.Equal(t, "HIT", get("/api/targeting/service/event-staffing?state=TX&city=Austin").Header().Get("X-Cache"))
	for i := 0; i < 200; i++ {
		rec := get(fmt.Sprintf("/api/targeting/service/event-staffing?city=Austin&state=TX&gclid=%d", i))
		assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 1, list.calls)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.DeletePrefix(context.Background(), casestudies.CachePrefix+":"))
	assert.Equal(t, "MISS", get("/api/targeting/service/event-staffing?city=Austin&state=TX").Header().Get("X-Cache"))

	assert.Equal(t, http.StatusNotFound, get("/api/targeting/service/nope").Code)
	assert.Equal(t, http.StatusNotFound, get("/api/targeting/planet/event-staffing").Code)
}
