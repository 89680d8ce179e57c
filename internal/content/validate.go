package content

import (
	"errors"
	"fmt"

	"agency-backend/internal/schedule"
	"agency-backend/internal/utils"
	"agency-backend/internal/validation"
)

// Validate checks every payload the way the admin API would, plus the
// cross references between events, venues, clients and courses.
func (b *Bundle) Validate(v *validation.Validator) error {
	var errs []error
	for i, p := range b.Posts {
		if err := v.Struct(p); err != nil {
			errs = append(errs, fmt.Errorf("post %d (%s): %w", i, p.Title, err))
		}
	}
	for i, c := range b.CaseStudies {
		if err := v.Struct(c); err != nil {
			errs = append(errs, fmt.Errorf("case study %d (%s): %w", i, c.Title, err))
		}
	}
	for i, j := range b.Jobs {
		if err := v.Struct(j); err != nil {
			errs = append(errs, fmt.Errorf("job %d (%s): %w", i, j.Title, err))
		}
	}

	venues := map[string]bool{}
	for _, ven := range b.Venues {
		if !utils.SlugPattern.MatchString(ven.Slug) {
			errs = append(errs, fmt.Errorf("venue %q: invalid slug", ven.Slug))
		}
		venues[ven.Slug] = true
	}
	for _, ev := range b.Events {
		if !utils.SlugPattern.MatchString(ev.Slug) {
			errs = append(errs, fmt.Errorf("event %q: invalid slug", ev.Slug))
		}
		if ev.VenueSlug != "" && !venues[ev.VenueSlug] {
			errs = append(errs, fmt.Errorf("event %q: unknown venue %q", ev.Slug, ev.VenueSlug))
		}
		if ev.EndDate.Before(ev.StartDate) {
			errs = append(errs, fmt.Errorf("event %q: ends before it starts", ev.Slug))
		}
	}

	courses := map[string]bool{}
	for _, c := range b.Courses {
		courses[c.ID] = true
		for _, m := range c.Modules {
			if err := m.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("course %q module %q: %w", c.ID, m.ID, err))
			}
		}
	}
	for _, cl := range b.Clients {
		for _, id := range cl.CourseIDs {
			if !courses[id] {
				errs = append(errs, fmt.Errorf("client %q: unknown course %q", cl.Slug, id))
			}
		}
	}

	for name, ch := range b.Schedule {
		if err := ch.Check(); err != nil {
			errs = append(errs, fmt.Errorf("schedule %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// ScheduleChannel returns the configured channel or a disabled one.
func (b *Bundle) ScheduleChannel(name string) schedule.Channel {
	return b.Schedule[name]
}
