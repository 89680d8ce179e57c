package events

import (
	"time"

	"agency-backend/internal/seo"
)

type Event struct {
	ID          string    `bson:"_id,omitempty" json:"id" yaml:"id"`
	Slug        string    `bson:"slug" json:"slug" yaml:"slug"`
	Name        string    `bson:"name" json:"name" yaml:"name"`
	Description string    `bson:"description" json:"description" yaml:"description"`
	City        string    `bson:"city" json:"city" yaml:"city"`
	State       string    `bson:"state" json:"state" yaml:"state"`
	VenueSlug   string    `bson:"venueSlug" json:"venueSlug" yaml:"venueSlug"`
	VenueName   string    `bson:"venueName" json:"venueName" yaml:"venueName"`
	StartDate   time.Time `bson:"startDate" json:"startDate" yaml:"startDate"`
	EndDate     time.Time `bson:"endDate" json:"endDate" yaml:"endDate"`
	Services    []string  `bson:"services" json:"services" yaml:"services"`
	URL         string    `bson:"url" json:"url" yaml:"url"`
	IsPublished bool      `bson:"isPublished" json:"isPublished" yaml:"isPublished"`
}

type Venue struct {
	ID       string   `bson:"_id,omitempty" json:"id" yaml:"id"`
	Slug     string   `bson:"slug" json:"slug" yaml:"slug"`
	Name     string   `bson:"name" json:"name" yaml:"name"`
	City     string   `bson:"city" json:"city" yaml:"city"`
	State    string   `bson:"state" json:"state" yaml:"state"`
	Address  string   `bson:"address" json:"address" yaml:"address"`
	Capacity int      `bson:"capacity" json:"capacity" yaml:"capacity"`
	Services []string `bson:"services" json:"services" yaml:"services"`
}

type ListFilter struct {
	City     string
	Upcoming bool
	Now      time.Time
}

// Landing is the payload of a service-at-event or service-at-venue page.
type Landing struct {
	Event    *Event    `json:"event,omitempty"`
	Venue    *Venue    `json:"venue,omitempty"`
	Service  string    `json:"service"`
	Headline string    `json:"headline"`
	Body     string    `json:"body"`
	JSONLD   seo.Graph `json:"jsonLd"`
}

type Detail struct {
	Event
	JSONLD seo.Event `json:"jsonLd"`
}
