package casestudies

import (
	"context"
	"errors"
	"strings"
	"time"

	"agency-backend/internal/schedule"
	"agency-backend/internal/seo"
	"agency-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotFound    = errors.New("case study not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrInvalidSlug = errors.New("invalid slug")
)

type Service struct {
	repo     Repository
	site     seo.Site
	location *time.Location
}

func NewService(repo Repository, site seo.Site, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		site:     site,
		location: location,
	}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (CaseStudy, error) {
	item, err := NewCaseStudy(req, time.Now().In(s.location))
	if err != nil {
		return CaseStudy{}, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return CaseStudy{}, ErrSlugExists
		}
		return CaseStudy{}, err
	}
	return item, nil
}

// NewCaseStudy builds a new case study document from an admin request.
// Unset publish flags default to a hidden draft at sort order zero.
func NewCaseStudy(req UpsertRequest, now time.Time) (CaseStudy, error) {
	slug := utils.NormalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return CaseStudy{}, ErrInvalidSlug
	}
	item := fromRequest(req)
	item.ID = primitive.NewObjectID().Hex()
	item.Slug = slug
	item.IsPublished = req.IsPublished != nil && *req.IsPublished
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (CaseStudy, error) {
	id = strings.TrimSpace(id)
	slug := utils.NormalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return CaseStudy{}, ErrInvalidSlug
	}

	item := fromRequest(req)
	set := bson.M{
		"slug":      slug,
		"name":      item.Name,
		"title":     item.Title,
		"client":    item.Client,
		"industry":  item.Industry,
		"category":  item.Category,
		"services":  item.Services,
		"markets":   item.Markets,
		"date":      item.Date,
		"stats":     item.Stats,
		"summary":   item.Summary,
		"challenge": item.Challenge,
		"solution":  item.Solution,
		"results":   item.Results,
		"heroImage": item.HeroImage,
		"images":    item.Images,
		"updatedAt": time.Now().In(s.location),
	}
	if req.IsPublished != nil {
		set["isPublished"] = *req.IsPublished
	}
	if req.SortOrder != nil {
		set["sortOrder"] = *req.SortOrder
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CaseStudy{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return CaseStudy{}, ErrSlugExists
		}
		return CaseStudy{}, err
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

func (s *Service) ListPublic(ctx context.Context, filter PublicListFilter) ([]CaseStudy, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Industry = strings.TrimSpace(filter.Industry)
	return s.repo.ListPublic(ctx, filter)
}

// ListReal returns published case studies, newest first.
func (s *Service) ListReal(ctx context.Context) ([]CaseStudy, error) {
	return s.repo.ListPublic(ctx, PublicListFilter{ByDate: true})
}

// ListEnhanced loads the published list and its facets in parallel and
// attaches structured data to every item.
func (s *Service) ListEnhanced(ctx context.Context, filter PublicListFilter) (EnhancedList, error) {
	var (
		items  []CaseStudy
		facets Facets
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.ListPublic(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		facets.Industries, err = s.repo.DistinctPublished(gctx, "industry")
		return err
	})
	g.Go(func() error {
		var err error
		facets.Services, err = s.repo.DistinctPublished(gctx, "services")
		return err
	})
	if err := g.Wait(); err != nil {
		return EnhancedList{}, err
	}

	out := EnhancedList{Items: make([]EnhancedItem, 0, len(items)), Facets: facets}
	for _, item := range items {
		out.Items = append(out.Items, EnhancedItem{CaseStudy: item, JSONLD: s.article(item)})
	}
	return out, nil
}

func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Detail, error) {
	item, err := s.repo.GetPublishedBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}
	return s.detail(item), nil
}

// Get resolves a published case study by id or slug.
func (s *Service) Get(ctx context.Context, idOrSlug string) (CaseStudy, error) {
	item, err := s.repo.GetPublishedByID(ctx, strings.TrimSpace(idOrSlug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CaseStudy{}, ErrNotFound
		}
		return CaseStudy{}, err
	}
	return item, nil
}

func (s *Service) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]CaseStudy, int64, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	items, err := s.repo.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountAdmin(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) detail(item CaseStudy) Detail {
	return Detail{
		CaseStudy: item,
		JSONLD: seo.NewGraph(
			s.article(item),
			seo.NewBreadcrumbs(s.site,
				seo.Crumb{Name: "Home", Path: "/"},
				seo.Crumb{Name: "Case Studies", Path: "/case-studies"},
				seo.Crumb{Name: item.Title, Path: Path(item.Slug)},
			),
		),
	}
}

func (s *Service) article(item CaseStudy) seo.Article {
	a := seo.NewCaseStudy(s.site, seo.CaseStudyInput{
		Title:       item.Title,
		Path:        Path(item.Slug),
		Description: item.Summary,
		Client:      item.Client,
		Industry:    item.Industry,
		Services:    item.Services,
		Date:        parseDate(item.Date, s.location),
		Image:       item.HeroImage,
	})
	// Items inside a list or graph inherit the outer @context.
	a.Context = ""
	return a
}

// Path is the public page of a case study.
func Path(slug string) string {
	return "/case-studies/" + slug
}

func fromRequest(req UpsertRequest) CaseStudy {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.TrimSpace(req.Title)
	}
	stats := make(map[string]string, len(req.Stats))
	for k, v := range req.Stats {
		stats[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return CaseStudy{
		Name:      name,
		Title:     strings.TrimSpace(req.Title),
		Client:    strings.TrimSpace(req.Client),
		Industry:  strings.TrimSpace(req.Industry),
		Category:  strings.TrimSpace(req.Category),
		Services:  utils.CleanList(req.Services),
		Markets:   utils.CleanList(req.Markets),
		Date:      strings.TrimSpace(req.Date),
		Stats:     stats,
		Summary:   strings.TrimSpace(req.Summary),
		Challenge: strings.TrimSpace(req.Challenge),
		Solution:  strings.TrimSpace(req.Solution),
		Results:   strings.TrimSpace(req.Results),
		HeroImage: strings.TrimSpace(req.HeroImage),
		Images:    utils.CleanList(req.Images),
	}
}

func parseDate(value string, loc *time.Location) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := schedule.ParseDate(value, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
