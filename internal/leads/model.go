package leads

import "time"

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusWon       = "won"
	StatusLost      = "lost"

	SourceWebsite = "website"
	SourceLanding = "landing"
	SourceManual  = "manual"
)

var validStatuses = map[string]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusQualified: {},
	StatusWon:       {},
	StatusLost:      {},
}

var validSources = map[string]struct{}{
	SourceWebsite: {},
	SourceLanding: {},
	SourceManual:  {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

func IsValidSource(value string) bool {
	_, ok := validSources[value]
	return ok
}

// Lead is a proposal request from the website or a targeted landing page.
type Lead struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Company     string    `bson:"company" json:"company"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email" json:"email"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Service     string    `bson:"service,omitempty" json:"service,omitempty"`
	Industry    string    `bson:"industry,omitempty" json:"industry,omitempty"`
	City        string    `bson:"city,omitempty" json:"city,omitempty"`
	State       string    `bson:"state,omitempty" json:"state,omitempty"`
	EventDate   string    `bson:"eventDate,omitempty" json:"eventDate,omitempty"`
	Budget      string    `bson:"budget,omitempty" json:"budget,omitempty"`
	Message     string    `bson:"message" json:"message"`
	LandingPath string    `bson:"landingPath,omitempty" json:"landingPath,omitempty"`
	Status      string    `bson:"status" json:"status"`
	Source      string    `bson:"source" json:"source"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`

	// History is omitted from list responses.
	History []StatusChange `bson:"history,omitempty" json:"history,omitempty"`
}

// StatusChange records one move through the pipeline, oldest first.
type StatusChange struct {
	Status string    `bson:"status" json:"status"`
	Note   string    `bson:"note,omitempty" json:"note,omitempty"`
	At     time.Time `bson:"at" json:"at"`
}

type CreateRequest struct {
	Company     string `json:"company" validate:"required,max=200"`
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,max=40"`
	Service     string `json:"service" validate:"omitempty,slug"`
	Industry    string `json:"industry" validate:"omitempty,slug"`
	City        string `json:"city" validate:"max=80"`
	State       string `json:"state" validate:"omitempty,len=2,alpha"`
	EventDate   string `json:"eventDate" validate:"omitempty,date"`
	Budget      string `json:"budget" validate:"max=80"`
	Message     string `json:"message" validate:"required,max=5000"`
	LandingPath string `json:"landingPath" validate:"omitempty,startswith=/,max=200"`
	Source      string `json:"source" validate:"omitempty,oneof=website landing manual"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified won lost"`
	Note   string `json:"note" validate:"max=2000"`
}

type ListFilter struct {
	Status  string
	Source  string
	Service string
	// Search matches company, contact name or email, case-insensitively.
	Search string
	Since  time.Time
}

// Summary counts leads per status for the admin pipeline view. Every status
// is present, zero or not.
type Summary struct {
	Since  *time.Time       `json:"since,omitempty"`
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
	Open   int64            `json:"open"`
}

// Closed reports whether a lead has left the pipeline.
func Closed(status string) bool {
	return status == StatusWon || status == StatusLost
}
