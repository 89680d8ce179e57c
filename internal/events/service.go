package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agency-backend/internal/seo"
	"agency-backend/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrVenueNotFound   = errors.New("venue not found")
	ErrServiceNotFound = errors.New("service not offered")
)

type Service struct {
	repo     Repository
	site     seo.Site
	location *time.Location
	now      func() time.Time
}

func NewService(repo Repository, site seo.Site, location *time.Location) *Service {
	return &Service{repo: repo, site: site, location: location, now: time.Now}
}

func (s *Service) List(ctx context.Context, city string, upcoming bool) ([]Event, error) {
	return s.repo.ListEvents(ctx, ListFilter{
		City:     strings.TrimSpace(city),
		Upcoming: upcoming,
		Now:      s.now().In(s.location),
	})
}

func (s *Service) ListVenues(ctx context.Context) ([]Venue, error) {
	return s.repo.ListVenues(ctx)
}

func (s *Service) Get(ctx context.Context, slug string) (Detail, error) {
	ev, err := s.event(ctx, slug)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Event: ev, JSONLD: s.eventLD(ev)}, nil
}

// ServiceLanding builds the page for one of the services offered at an event.
func (s *Service) ServiceLanding(ctx context.Context, eventSlug, serviceSlug string) (Landing, error) {
	ev, err := s.event(ctx, eventSlug)
	if err != nil {
		return Landing{}, err
	}
	name, ok := matchService(ev.Services, serviceSlug)
	if !ok {
		return Landing{}, ErrServiceNotFound
	}

	svc := s.serviceLD(name, "/events/"+ev.Slug+"/service/"+serviceSlug, ev.City, ev.State)
	ld := s.eventLD(ev)
	ld.Context = ""
	return Landing{
		Event:    &ev,
		Service:  name,
		Headline: fmt.Sprintf("%s for %s", name, ev.Name),
		Body: fmt.Sprintf("We provide %s at %s%s. Our team handles planning, staffing and on-site execution so your brand shows up ready.",
			strings.ToLower(name), ev.Name, place(ev.VenueName, ev.City, ev.State)),
		JSONLD: seo.NewGraph(ld, svc),
	}, nil
}

// VenueServiceLanding builds the page for a service offered at a venue.
func (s *Service) VenueServiceLanding(ctx context.Context, venueSlug, serviceSlug string) (Landing, error) {
	venue, err := s.repo.GetVenue(ctx, strings.TrimSpace(venueSlug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Landing{}, ErrVenueNotFound
		}
		return Landing{}, err
	}
	name, ok := matchService(venue.Services, serviceSlug)
	if !ok {
		return Landing{}, ErrServiceNotFound
	}

	svc := s.serviceLD(name, "/venues/"+venue.Slug+"/service/"+serviceSlug, venue.City, venue.State)
	body := fmt.Sprintf("Planning an activation at %s%s? We provide %s sized for the venue",
		venue.Name, place("", venue.City, venue.State), strings.ToLower(name))
	if venue.Capacity > 0 {
		body += fmt.Sprintf(" and crowds of up to %d", venue.Capacity)
	}
	return Landing{
		Venue:    &venue,
		Service:  name,
		Headline: fmt.Sprintf("%s at %s", name, venue.Name),
		Body:     body + ".",
		JSONLD:   seo.NewGraph(svc),
	}, nil
}

func (s *Service) event(ctx context.Context, slug string) (Event, error) {
	ev, err := s.repo.GetEvent(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, err
	}
	return ev, nil
}

func (s *Service) eventLD(ev Event) seo.Event {
	return seo.NewEvent(s.site, seo.EventInput{
		Name:        ev.Name,
		Description: ev.Description,
		Start:       ev.StartDate,
		End:         ev.EndDate,
		Path:        "/events/" + ev.Slug,
		VenueName:   ev.VenueName,
		City:        ev.City,
		State:       ev.State,
	})
}

func (s *Service) serviceLD(name, path, city, state string) seo.Service {
	svc := seo.NewService(s.site, seo.ServiceInput{
		Name:        name,
		ServiceType: name,
		Path:        path,
		City:        city,
		State:       state,
	})
	svc.Context = ""
	return svc
}

// matchService finds the offered service whose slug equals serviceSlug.
func matchService(offered []string, serviceSlug string) (string, bool) {
	want := utils.Slugify(serviceSlug)
	if want == "" {
		return "", false
	}
	for _, name := range offered {
		if utils.Slugify(name) == want {
			return name, true
		}
	}
	return "", false
}

func place(venue, city, state string) string {
	parts := make([]string, 0, 2)
	if venue != "" {
		parts = append(parts, venue)
	}
	if loc := strings.Trim(city+", "+state, ", "); loc != "" {
		parts = append(parts, loc)
	}
	if len(parts) == 0 {
		return ""
	}
	return " in " + strings.Join(parts, ", ")
}
