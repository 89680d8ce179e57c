package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"agency-backend/internal/notifications"
	"agency-backend/internal/schedule"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEventNotFound   = errors.New("calendar event not found")
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrNoRecipient     = errors.New("no reminder recipient configured")
)

const (
	HorizonDays      = 30
	overdueLookback  = 30
	reminderDueStamp = "Mon Jan 2, 2006 3:04 PM MST"
)

type Mailer interface {
	Send(ctx context.Context, msg notifications.Message) (string, error)
}

type Options struct {
	Recipient     string
	DashboardLink string
	Feed          Feed
}

type Service struct {
	repo     Repository
	mailer   Mailer
	drafts   *Drafter
	opts     Options
	location *time.Location
	now      func() time.Time
}

func NewService(repo Repository, mailer Mailer, drafts *Drafter, opts Options, location *time.Location) *Service {
	return &Service{repo: repo, mailer: mailer, drafts: drafts, opts: opts, location: location, now: time.Now}
}

// Schedule returns the stored schedule, or the default one when none has
// been saved yet.
func (s *Service) Schedule(ctx context.Context) (ContentSchedule, error) {
	sched, err := s.repo.GetSchedule(ctx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return DefaultSchedule(), nil
	}
	if err != nil {
		return ContentSchedule{}, err
	}
	return sched, nil
}

// UpdateSchedule replaces the schedule, drops future pending events that the
// old rules produced and materializes the new horizon.
func (s *Service) UpdateSchedule(ctx context.Context, req ScheduleRequest) (ContentSchedule, error) {
	raw := ContentSchedule{LinkedIn: req.LinkedIn, Blog: req.Blog, CaseStudies: req.CaseStudies, ClientContact: req.ClientContact}
	for _, ch := range raw.channels() {
		if err := ch.channel.Check(); err != nil {
			return ContentSchedule{}, fmt.Errorf("%w: %s: %v", ErrInvalidSchedule, ch.name, err)
		}
	}
	sched := ContentSchedule{
		ID:            scheduleID,
		LinkedIn:      normalizeChannel(req.LinkedIn),
		Blog:          normalizeChannel(req.Blog),
		CaseStudies:   normalizeChannel(req.CaseStudies),
		ClientContact: normalizeChannel(req.ClientContact),
	}

	now := s.now().In(s.location)
	sched.UpdatedAt = now
	if err := s.repo.SaveSchedule(ctx, sched); err != nil {
		return ContentSchedule{}, err
	}
	if _, err := s.repo.DeleteFuturePending(ctx, now); err != nil {
		return ContentSchedule{}, err
	}
	if err := s.materialize(ctx, sched, now); err != nil {
		return ContentSchedule{}, err
	}
	return sched, nil
}

func normalizeChannel(c schedule.Channel) schedule.Channel {
	c.Days = schedule.SortWeekdays(c.Days)
	if c.Frequency != schedule.Monthly {
		c.DayOfMonth = 0
	}
	return c
}

// Upcoming materializes the next HorizonDays of occurrences and returns
// them together with still pending overdue events.
func (s *Service) Upcoming(ctx context.Context) ([]EventView, error) {
	sched, err := s.Schedule(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.location)
	if err := s.materialize(ctx, sched, now); err != nil {
		return nil, err
	}

	from := startOfDay(now)
	events, err := s.repo.ListEvents(ctx, from.AddDate(0, 0, -overdueLookback), from, from.AddDate(0, 0, HorizonDays))
	if err != nil {
		return nil, err
	}

	views := make([]EventView, 0, len(events))
	for _, ev := range events {
		days, overdue, soon := schedule.Classify(ev.DueDate, now)
		views = append(views, EventView{CalendarEvent: ev, DaysUntil: days, Overdue: overdue, DueSoon: soon})
	}
	return views, nil
}

// materialize upserts one event per occurrence from the start of today to
// the horizon, one goroutine per channel.
func (s *Service) materialize(ctx context.Context, sched ContentSchedule, now time.Time) error {
	from := startOfDay(now)
	until := from.AddDate(0, 0, HorizonDays)

	g, gctx := errgroup.WithContext(ctx)
	for _, ch := range sched.channels() {
		ch := ch
		g.Go(func() error {
			for _, due := range schedule.Occurrences(ch.channel, from, until, s.location) {
				if err := s.repo.UpsertOccurrence(gctx, occurrence(ch.name, due, now)); err != nil {
					return fmt.Errorf("materialize %s: %w", ch.name, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func occurrence(channel string, due, now time.Time) CalendarEvent {
	title, description := channelCopy(channel)
	return CalendarEvent{
		ID:          EventID(channel, due),
		Type:        channel,
		Title:       title,
		Description: description,
		DueDate:     due.UTC(),
		Status:      StatusPending,
		CreatedAt:   now.UTC(),
	}
}

// EventID is the channel plus the UTC due minute, so the same occurrence
// always maps to the same document.
func EventID(channel string, due time.Time) string {
	return channel + "-" + due.UTC().Format("20060102T1504Z")
}

func channelCopy(channel string) (string, string) {
	switch channel {
	case ChannelLinkedIn:
		return "LinkedIn post", "Publish a LinkedIn post. Generate a draft from the latest blog post or case study."
	case ChannelBlog:
		return "Blog post", "Write and publish a new blog post."
	case ChannelCaseStudies:
		return "Case study", "Write up a recent client project as a case study."
	case ChannelClientContact:
		return "Client check-in", "Reach out to active clients with a check-in email."
	}
	return channel, ""
}

func ChannelLabel(channel string) string {
	title, _ := channelCopy(channel)
	return title
}

func (s *Service) SendReminder(ctx context.Context, req ReminderRequest) (CalendarEvent, error) {
	ev, err := s.repo.GetEvent(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CalendarEvent{}, ErrEventNotFound
		}
		return CalendarEvent{}, err
	}

	to := req.Email
	if to == "" {
		to = s.opts.Recipient
	}
	if to == "" {
		return CalendarEvent{}, ErrNoRecipient
	}

	now := s.now().In(s.location)
	msg, err := notifications.BuildReminder(to, notifications.ReminderData{
		Title:       ev.Title,
		Description: ev.Description,
		Channel:     ChannelLabel(ev.Type),
		Due:         ev.DueDate.In(s.location).Format(reminderDueStamp),
		DaysUntil:   schedule.DaysUntil(ev.DueDate, now),
		Link:        s.opts.DashboardLink,
	})
	if err != nil {
		return CalendarEvent{}, err
	}
	if _, err := s.mailer.Send(ctx, msg); err != nil {
		return CalendarEvent{}, err
	}

	if err := s.repo.MarkReminderSent(ctx, ev.ID, now.UTC()); err != nil {
		return CalendarEvent{}, err
	}
	sent := now.UTC()
	ev.ReminderSent = true
	ev.ReminderSentAt = &sent
	return ev, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (CalendarEvent, error) {
	ev, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CalendarEvent{}, ErrEventNotFound
		}
		return CalendarEvent{}, err
	}
	return ev, nil
}

func (s *Service) GenerateDraft(ctx context.Context, kind string) (Draft, error) {
	return s.drafts.Generate(ctx, kind)
}

// Export writes the upcoming events as an iCalendar feed.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	views, err := s.Upcoming(ctx)
	if err != nil {
		return err
	}
	events := make([]CalendarEvent, 0, len(views))
	for _, v := range views {
		events = append(events, v.CalendarEvent)
	}
	return WriteICS(w, s.opts.Feed, events, s.now())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
