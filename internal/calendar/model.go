package calendar

import (
	"time"

	"agency-backend/internal/schedule"
)

// Channel names double as calendar event types.
const (
	ChannelLinkedIn      = "linkedIn"
	ChannelBlog          = "blog"
	ChannelCaseStudies   = "caseStudies"
	ChannelClientContact = "clientContact"
)

const scheduleID = "content_schedule"

type ContentSchedule struct {
	ID            string           `bson:"_id" json:"-"`
	LinkedIn      schedule.Channel `bson:"linkedIn" json:"linkedIn"`
	Blog          schedule.Channel `bson:"blog" json:"blog"`
	CaseStudies   schedule.Channel `bson:"caseStudies" json:"caseStudies"`
	ClientContact schedule.Channel `bson:"clientContact" json:"clientContact"`
	UpdatedAt     time.Time        `bson:"updatedAt" json:"updatedAt"`
}

type namedChannel struct {
	name    string
	channel schedule.Channel
}

func (s ContentSchedule) channels() []namedChannel {
	return []namedChannel{
		{ChannelLinkedIn, s.LinkedIn},
		{ChannelBlog, s.Blog},
		{ChannelCaseStudies, s.CaseStudies},
		{ChannelClientContact, s.ClientContact},
	}
}

// Set replaces the named channel. It reports false for unknown names.
func (s *ContentSchedule) Set(name string, ch schedule.Channel) bool {
	switch name {
	case ChannelLinkedIn:
		s.LinkedIn = ch
	case ChannelBlog:
		s.Blog = ch
	case ChannelCaseStudies:
		s.CaseStudies = ch
	case ChannelClientContact:
		s.ClientContact = ch
	default:
		return false
	}
	return true
}

// DefaultSchedule is served until an admin saves a schedule.
func DefaultSchedule() ContentSchedule {
	return ContentSchedule{
		ID:            scheduleID,
		LinkedIn:      schedule.Channel{Enabled: true, Frequency: schedule.Weekly, Days: []string{"tuesday", "thursday"}, Time: "09:00"},
		Blog:          schedule.Channel{Enabled: true, Frequency: schedule.Biweekly, Days: []string{"monday"}, Time: "10:00"},
		CaseStudies:   schedule.Channel{Enabled: true, Frequency: schedule.Monthly, DayOfMonth: 15, Time: "10:00"},
		ClientContact: schedule.Channel{Enabled: false, Frequency: schedule.Monthly, DayOfMonth: 1, Time: "09:00"},
	}
}

type ScheduleRequest struct {
	LinkedIn      schedule.Channel `json:"linkedIn"`
	Blog          schedule.Channel `json:"blog"`
	CaseStudies   schedule.Channel `json:"caseStudies"`
	ClientContact schedule.Channel `json:"clientContact"`
}

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
)

type CalendarEvent struct {
	ID             string     `bson:"_id" json:"id"`
	Type           string     `bson:"type" json:"type"`
	Title          string     `bson:"title" json:"title"`
	Description    string     `bson:"description" json:"description"`
	DueDate        time.Time  `bson:"dueDate" json:"dueDate"`
	Status         Status     `bson:"status" json:"status"`
	ReminderSent   bool       `bson:"reminderSent" json:"reminderSent"`
	ReminderSentAt *time.Time `bson:"reminderSentAt,omitempty" json:"reminderSentAt,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
}

// EventView adds the due-date classification the dashboard shows.
type EventView struct {
	CalendarEvent `bson:",inline"`
	DaysUntil     int  `json:"daysUntil"`
	Overdue       bool `json:"overdue"`
	DueSoon       bool `json:"dueSoon"`
}

type ReminderRequest struct {
	EventID string `json:"eventId"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
}

type StatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=pending done skipped"`
}

type Draft struct {
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Hashtags []string `json:"hashtags,omitempty"`
	Source   string   `json:"source,omitempty"`
}
