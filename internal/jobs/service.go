package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"agency-backend/internal/seo"
	"agency-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("job not found")

type Service struct {
	repo     Repository
	site     seo.Site
	location *time.Location
}

func NewService(repo Repository, site seo.Site, location *time.Location) *Service {
	return &Service{repo: repo, site: site, location: location}
}

// ListActive returns open postings, featured ones first.
func (s *Service) ListActive(ctx context.Context) ([]Job, error) {
	return s.repo.List(ctx, true)
}

func (s *Service) ListAll(ctx context.Context) ([]Job, error) {
	return s.repo.List(ctx, false)
}

// Get returns an active posting with its JobPosting structured data.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	job, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return View{}, ErrNotFound
		}
		return View{}, err
	}
	if !job.IsActive {
		return View{}, ErrNotFound
	}
	return View{Job: job, JSONLD: s.posting(job)}, nil
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Job, error) {
	job := NewJob(req, time.Now().In(s.location))
	if err := s.repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// NewJob builds a new posting from an admin request. Jobs are active and
// not featured unless the request says otherwise.
func NewJob(req UpsertRequest, now time.Time) Job {
	job := fromRequest(req)
	job.ID = primitive.NewObjectID().Hex()
	job.IsActive = req.IsActive == nil || *req.IsActive
	job.Featured = req.Featured != nil && *req.Featured
	job.CreatedAt = now
	job.UpdatedAt = now
	return job
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Job, error) {
	job := fromRequest(req)
	set := bson.M{
		"title":        job.Title,
		"location":     job.Location,
		"city":         job.City,
		"state":        job.State,
		"type":         job.Type,
		"category":     job.Category,
		"description":  job.Description,
		"requirements": job.Requirements,
		"payRange":     job.PayRange,
		"updatedAt":    time.Now().In(s.location),
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	if req.Featured != nil {
		set["featured"] = *req.Featured
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) posting(job Job) seo.JobPosting {
	return seo.NewJobPosting(s.site, seo.JobInput{
		Title:       job.Title,
		Description: job.Description,
		Posted:      job.CreatedAt,
		Type:        job.Type,
		Category:    job.Category,
		City:        job.City,
		State:       job.State,
		PayRange:    job.PayRange,
	})
}

func fromRequest(req UpsertRequest) Job {
	city := strings.TrimSpace(req.City)
	state := strings.ToUpper(strings.TrimSpace(req.State))
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = city + ", " + state
	}
	return Job{
		Title:        strings.TrimSpace(req.Title),
		Location:     location,
		City:         city,
		State:        state,
		Type:         strings.TrimSpace(req.Type),
		Category:     strings.TrimSpace(req.Category),
		Description:  strings.TrimSpace(req.Description),
		Requirements: utils.CleanList(req.Requirements),
		PayRange:     strings.TrimSpace(req.PayRange),
	}
}
