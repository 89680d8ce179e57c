package seo

import (
	"strconv"
	"strings"
	"time"
)

type PostalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	AddressCountry  string `json:"addressCountry,omitempty"`
}

func address(street, city, state string) *PostalAddress {
	if city == "" && state == "" && street == "" {
		return nil
	}
	return &PostalAddress{Type: "PostalAddress", StreetAddress: street, AddressLocality: city, AddressRegion: state, AddressCountry: "US"}
}

type Place struct {
	Type    string         `json:"@type"`
	Name    string         `json:"name,omitempty"`
	Address *PostalAddress `json:"address,omitempty"`
}

type JobPosting struct {
	Context            string        `json:"@context,omitempty"`
	Type               string        `json:"@type"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	DatePosted         string        `json:"datePosted,omitempty"`
	EmploymentType     string        `json:"employmentType,omitempty"`
	HiringOrganization *Organization `json:"hiringOrganization"`
	JobLocation        *Place        `json:"jobLocation,omitempty"`
	BaseSalary         *Salary       `json:"baseSalary,omitempty"`
	Industry           string        `json:"industry,omitempty"`
}

type Salary struct {
	Type     string `json:"@type"`
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type JobInput struct {
	Title       string
	Description string
	Posted      time.Time
	Type        string
	Category    string
	City        string
	State       string
	PayRange    string
}

var employmentTypes = map[string]string{
	"full-time":  "FULL_TIME",
	"part-time":  "PART_TIME",
	"contract":   "CONTRACTOR",
	"temporary":  "TEMPORARY",
	"freelance":  "CONTRACTOR",
	"internship": "INTERN",
	"event":      "TEMPORARY",
}

// EmploymentType maps the admin form's job type onto schema.org values.
func EmploymentType(t string) string {
	key := strings.ToLower(strings.TrimSpace(t))
	key = strings.ReplaceAll(key, " ", "-")
	if v, ok := employmentTypes[key]; ok {
		return v
	}
	return "OTHER"
}

func NewJobPosting(site Site, in JobInput) JobPosting {
	jp := JobPosting{
		Context:            Context,
		Type:               "JobPosting",
		Title:              in.Title,
		Description:        in.Description,
		DatePosted:         isoDate(in.Posted),
		EmploymentType:     EmploymentType(in.Type),
		HiringOrganization: publisher(site),
		Industry:           in.Category,
	}
	if addr := address("", in.City, in.State); addr != nil {
		jp.JobLocation = &Place{Type: "Place", Address: addr}
	}
	if in.PayRange != "" {
		jp.BaseSalary = &Salary{Type: "MonetaryAmount", Currency: "USD", Value: in.PayRange}
	}
	return jp
}

type Event struct {
	Context     string        `json:"@context,omitempty"`
	Type        string        `json:"@type"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	StartDate   string        `json:"startDate,omitempty"`
	EndDate     string        `json:"endDate,omitempty"`
	URL         string        `json:"url,omitempty"`
	Location    *Place        `json:"location,omitempty"`
	Organizer   *Organization `json:"organizer,omitempty"`
	EventStatus string        `json:"eventStatus"`
}

type EventInput struct {
	Name        string
	Description string
	Start       time.Time
	End         time.Time
	Path        string
	VenueName   string
	Street      string
	City        string
	State       string
}

func NewEvent(site Site, in EventInput) Event {
	ev := Event{
		Context:     Context,
		Type:        "Event",
		Name:        in.Name,
		Description: in.Description,
		StartDate:   isoDate(in.Start),
		EndDate:     isoDate(in.End),
		URL:         site.Abs(in.Path),
		EventStatus: "https://schema.org/EventScheduled",
	}
	if in.VenueName != "" || in.City != "" {
		ev.Location = &Place{Type: "Place", Name: in.VenueName, Address: address(in.Street, in.City, in.State)}
	}
	return ev
}

type Service struct {
	Context     string        `json:"@context,omitempty"`
	Type        string        `json:"@type"`
	Name        string        `json:"name"`
	ServiceType string        `json:"serviceType,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
	Provider    *Organization `json:"provider,omitempty"`
	AreaServed  *Place        `json:"areaServed,omitempty"`
}

type ServiceInput struct {
	Name        string
	ServiceType string
	Description string
	Path        string
	City        string
	State       string
}

func NewService(site Site, in ServiceInput) Service {
	svc := Service{
		Context:     Context,
		Type:        "Service",
		Name:        in.Name,
		ServiceType: in.ServiceType,
		Description: in.Description,
		URL:         site.Abs(in.Path),
		Provider:    publisher(site),
	}
	if in.City != "" || in.State != "" {
		svc.AreaServed = &Place{Type: "City", Name: strings.TrimSpace(strings.Trim(in.City+", "+in.State, ", ")), Address: address("", in.City, in.State)}
	}
	return svc
}

type Course struct {
	Context      string        `json:"@context,omitempty"`
	Type         string        `json:"@type"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Provider     *Organization `json:"provider,omitempty"`
	TimeRequired string        `json:"timeRequired,omitempty"`
	HasPart      []Thing       `json:"hasPart,omitempty"`
}

// NewCourse describes a training course; minutes is the summed module length.
func NewCourse(site Site, name, description string, minutes int, modules []string) Course {
	c := Course{
		Context:     Context,
		Type:        "Course",
		Name:        name,
		Description: description,
		Provider:    publisher(site),
	}
	if minutes > 0 {
		c.TimeRequired = isoDuration(minutes)
	}
	for _, m := range modules {
		c.HasPart = append(c.HasPart, Thing{Type: "LearningResource", Name: m})
	}
	return c
}

func isoDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	var b strings.Builder
	b.WriteString("PT")
	if h > 0 {
		b.WriteString(strconv.Itoa(h) + "H")
	}
	if m > 0 {
		b.WriteString(strconv.Itoa(m) + "M")
	}
	return b.String()
}

type BreadcrumbList struct {
	Context         string     `json:"@context,omitempty"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

type Crumb struct {
	Name string
	Path string
}

func NewBreadcrumbs(site Site, crumbs ...Crumb) BreadcrumbList {
	list := BreadcrumbList{Context: Context, Type: "BreadcrumbList", ItemListElement: make([]ListItem, 0, len(crumbs))}
	for i, c := range crumbs {
		list.ItemListElement = append(list.ItemListElement, ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     c.Name,
			Item:     site.Abs(c.Path),
		})
	}
	return list
}

type FAQ struct {
	Question string
	Answer   string
}

type FAQPage struct {
	Context    string     `json:"@context,omitempty"`
	Type       string     `json:"@type"`
	MainEntity []Question `json:"mainEntity"`
}

type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

func NewFAQPage(faqs []FAQ) FAQPage {
	page := FAQPage{Context: Context, Type: "FAQPage", MainEntity: make([]Question, 0, len(faqs))}
	for _, f := range faqs {
		page.MainEntity = append(page.MainEntity, Question{
			Type:           "Question",
			Name:           f.Question,
			AcceptedAnswer: Answer{Type: "Answer", Text: f.Answer},
		})
	}
	return page
}

// Graph bundles several objects under one @context.
type Graph struct {
	Context string        `json:"@context"`
	Graph   []interface{} `json:"@graph"`
}

func NewGraph(items ...interface{}) Graph {
	return Graph{Context: Context, Graph: items}
}
