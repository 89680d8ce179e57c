package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agency-backend/internal/cache"
	"agency-backend/internal/logging"
	"agency-backend/internal/seo"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type staticRepo struct {
	events []Event
	venues []Venue
}

func (s staticRepo) ListEvents(ctx context.Context, filter ListFilter) ([]Event, error) {
	out := make([]Event, 0)
	for _, ev := range s.events {
		if !ev.IsPublished {
			continue
		}
		if filter.City != "" && !strings.EqualFold(ev.City, filter.City) {
			continue
		}
		if filter.Upcoming && ev.EndDate.Before(filter.Now) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s staticRepo) GetEvent(ctx context.Context, slug string) (Event, error) {
	for _, ev := range s.events {
		if ev.Slug == slug && ev.IsPublished {
			return ev, nil
		}
	}
	return Event{}, mongo.ErrNoDocuments
}

func (s staticRepo) ListVenues(ctx context.Context) ([]Venue, error) { return s.venues, nil }

func (s staticRepo) GetVenue(ctx context.Context, slug string) (Venue, error) {
	for _, v := range s.venues {
		if v.Slug == slug {
			return v, nil
		}
	}
	return Venue{}, mongo.ErrNoDocuments
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixture() staticRepo {
	return staticRepo{
		events: []Event{
			{
				Slug: "sxsw-2026", Name: "SXSW 2026", City: "Austin", State: "TX", VenueName: "Convention Center",
				StartDate: fixedNow.AddDate(0, 0, 10), EndDate: fixedNow.AddDate(0, 0, 14),
				Services: []string{"Event Staffing", "Brand Ambassadors"}, IsPublished: true,
			},
			{
				Slug: "fall-expo", Name: "Fall Expo", City: "Dallas", State: "TX",
				StartDate: fixedNow.AddDate(0, -5, 0), EndDate: fixedNow.AddDate(0, -5, 2),
				Services: []string{"Sampling"}, IsPublished: true,
			},
			{Slug: "hidden", Name: "Hidden", IsPublished: false},
		},
		venues: []Venue{
			{Slug: "moody-center", Name: "Moody Center", City: "Austin", State: "TX", Capacity: 15000, Services: []string{"Event Staffing"}},
		},
	}
}

func setup(t *testing.T) *chi.Mux {
	t.Helper()
	svc := NewService(fixture(), seo.Site{Name: "Agency", URL: "https://agency.example"}, time.UTC)
	svc.now = func() time.Time { return fixedNow }
	h := NewHandler(svc, cache.NewMemory(), time.Minute, logging.Discard())
	r := chi.NewRouter()
	r.Route("/api", h.Routes)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestListUpcomingAndCity(t *testing.T) {
	r := setup(t)
	var body struct {
		Items []Event `json:"items"`
	}

	require.NoError(t, json.Unmarshal(get(r, "/api/events").Body.Bytes(), &body))
	assert.Len(t, body.Items, 2)

	require.NoError(t, json.Unmarshal(get(r, "/api/events?upcoming=true").Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "sxsw-2026", body.Items[0].Slug)

	require.NoError(t, json.Unmarshal(get(r, "/api/events?city=dallas").Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "fall-expo", body.Items[0].Slug)
}

func TestGetEvent(t *testing.T) {
	r := setup(t)
	rec := get(r, "/api/events/sxsw-2026")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"@type":"Event"`)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/events/hidden").Code)
}

func TestEventServiceLanding(t *testing.T) {
	r := setup(t)
	rec := get(r, "/api/events/sxsw-2026/service/event-staffing")
	require.Equal(t, http.StatusOK, rec.Code)

	var landing Landing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &landing))
	assert.Equal(t, "Event Staffing", landing.Service)
	assert.Equal(t, "Event Staffing for SXSW 2026", landing.Headline)
	assert.Contains(t, landing.Body, "Convention Center, Austin, TX")
	assert.Len(t, landing.JSONLD.Graph, 2)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/events/sxsw-2026/service/catering").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/events/missing/service/event-staffing").Code)
}

func TestVenueServiceLanding(t *testing.T) {
	r := setup(t)
	rec := get(r, "/api/venues/moody-center/service/event-staffing")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "up to 15000")

	assert.Equal(t, http.StatusNotFound, get(r, "/api/venues/moody-center/service/sampling").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/venues/nowhere/service/sampling").Code)
}

func TestMatchService(t *testing.T) {
	name, ok := matchService([]string{"Brand Ambassadors", "Event Staffing"}, "Brand-Ambassadors")
	assert.True(t, ok)
	assert.Equal(t, "Brand Ambassadors", name)

	_, ok = matchService([]string{"Sampling"}, "")
	assert.False(t, ok)
}
