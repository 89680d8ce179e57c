package leads

import (
	"context"
	"errors"
	"strings"
	"time"

	"agency-backend/internal/content"
	"agency-backend/internal/notifications"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalidSource   = errors.New("invalid source")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrUnknownService  = errors.New("unknown service")
	ErrUnknownIndustry = errors.New("unknown industry")
	ErrNotFound        = errors.New("lead not found")

	// ErrReopenAsNew is returned when moving a lead back to "new"; leads only
	// start there.
	ErrReopenAsNew = errors.New("lead cannot return to new")
)

type Mailer interface {
	Send(ctx context.Context, msg notifications.Message) (string, error)
}

type Options struct {
	// Inbox receives new-lead alerts; empty disables them.
	Inbox string
	// DashboardURL is linked from alerts as DashboardURL + "/" + lead ID.
	DashboardURL string
	SiteName     string
	// Confirm sends the prospect an acknowledgement.
	Confirm bool
}

type Service struct {
	repo     Repository
	catalog  content.Catalog
	mailer   Mailer
	opts     Options
	location *time.Location
}

func NewService(repo Repository, catalog content.Catalog, mailer Mailer, opts Options, location *time.Location) *Service {
	return &Service{repo: repo, catalog: catalog, mailer: mailer, opts: opts, location: location}
}

// Create stores a new lead. Service and industry slugs must name catalog
// entries so leads can be grouped by the landing page that produced them.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Lead, error) {
	source := strings.ToLower(strings.TrimSpace(req.Source))
	if source == "" {
		source = SourceWebsite
	}
	if !IsValidSource(source) {
		return Lead{}, ErrInvalidSource
	}

	service := strings.TrimSpace(req.Service)
	if service != "" {
		if _, ok := s.catalog.Service(service); !ok {
			return Lead{}, ErrUnknownService
		}
	}
	industry := strings.TrimSpace(req.Industry)
	if industry != "" {
		if _, ok := s.catalog.Industry(industry); !ok {
			return Lead{}, ErrUnknownIndustry
		}
	}

	now := time.Now().In(s.location)
	lead := Lead{
		ID:          primitive.NewObjectID().Hex(),
		Company:     strings.TrimSpace(req.Company),
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       strings.TrimSpace(req.Phone),
		Service:     service,
		Industry:    industry,
		City:        strings.TrimSpace(req.City),
		State:       strings.ToUpper(strings.TrimSpace(req.State)),
		EventDate:   strings.TrimSpace(req.EventDate),
		Budget:      strings.TrimSpace(req.Budget),
		Message:     strings.TrimSpace(req.Message),
		LandingPath: strings.TrimSpace(req.LandingPath),
		Status:      StatusNew,
		Source:      source,
		CreatedAt:   now,
		UpdatedAt:   now,
		History:     []StatusChange{{Status: StatusNew, Note: "received via " + source, At: now}},
	}

	if err := s.repo.Insert(ctx, lead); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (s *Service) ListAdmin(ctx context.Context, filter ListFilter, limit, offset int64) ([]Lead, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	filter.Source = strings.ToLower(strings.TrimSpace(filter.Source))
	filter.Service = strings.TrimSpace(filter.Service)
	filter.Search = strings.TrimSpace(filter.Search)

	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	if filter.Source != "" && !IsValidSource(filter.Source) {
		return nil, 0, ErrInvalidSource
	}

	return s.repo.Find(ctx, filter, limit, offset)
}

// Summary counts leads created since the given time, or all leads when since
// is zero.
func (s *Service) Summary(ctx context.Context, since time.Time) (Summary, error) {
	counts, err := s.repo.CountByStatus(ctx, since)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Counts: make(map[string]int64, len(validStatuses))}
	if !since.IsZero() {
		sum.Since = &since
	}
	for status := range validStatuses {
		n := counts[status]
		sum.Counts[status] = n
		sum.Total += n
		if !Closed(status) {
			sum.Open += n
		}
	}
	return sum, nil
}

func (s *Service) Get(ctx context.Context, id string) (Lead, error) {
	lead, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

// UpdateStatus moves a lead through the pipeline and records the change
// with an optional note.
func (s *Service) UpdateStatus(ctx context.Context, id string, req StatusRequest) (Lead, error) {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !IsValidStatus(status) {
		return Lead{}, ErrInvalidStatus
	}
	if status == StatusNew {
		return Lead{}, ErrReopenAsNew
	}

	change := StatusChange{Status: status, Note: strings.TrimSpace(req.Note), At: time.Now().In(s.location)}
	updated, err := s.repo.Transition(ctx, strings.TrimSpace(id), change)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return updated, nil
}

// Notify sends the internal alert and, when enabled, the prospect's
// acknowledgement. Both are attempted; the errors are joined.
func (s *Service) Notify(ctx context.Context, lead Lead) error {
	if s.mailer == nil {
		return nil
	}
	data := s.emailData(lead)

	var errs []error
	if s.opts.Inbox != "" {
		msg, err := notifications.BuildLeadNotification(s.opts.Inbox, data)
		if err == nil {
			_, err = s.mailer.Send(ctx, msg)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if s.opts.Confirm && lead.Email != "" {
		msg, err := notifications.BuildLeadConfirmation(data)
		if err == nil {
			_, err = s.mailer.Send(ctx, msg)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) emailData(lead Lead) notifications.LeadData {
	data := notifications.LeadData{
		ID:          lead.ID,
		Company:     lead.Company,
		Name:        lead.Name,
		Email:       lead.Email,
		Phone:       lead.Phone,
		EventDate:   lead.EventDate,
		Budget:      lead.Budget,
		Message:     lead.Message,
		Source:      lead.Source,
		LandingPath: lead.LandingPath,
		SiteName:    s.opts.SiteName,
		Location:    strings.Trim(lead.City+", "+lead.State, ", "),
	}
	if entry, ok := s.catalog.Service(lead.Service); ok {
		data.Service = entry.Name
	}
	if s.opts.DashboardURL != "" {
		data.Link = strings.TrimRight(s.opts.DashboardURL, "/") + "/" + lead.ID
	}
	return data
}
