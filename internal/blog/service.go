package blog

import (
	"context"
	"errors"
	"strings"
	"time"

	"agency-backend/internal/markdown"
	"agency-backend/internal/schedule"
	"agency-backend/internal/seo"
	"agency-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound    = errors.New("blog post not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrInvalidSlug = errors.New("invalid slug")
)

const excerptLength = 160

type Service struct {
	repo     Repository
	site     seo.Site
	location *time.Location
}

func NewService(repo Repository, site seo.Site, location *time.Location) *Service {
	return &Service{repo: repo, site: site, location: location}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Post, error) {
	post, err := NewPost(req, time.Now().In(s.location))
	if err != nil {
		return Post{}, err
	}

	if err := s.repo.Create(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Post{}, ErrSlugExists
		}
		return Post{}, err
	}
	return post, nil
}

// NewPost builds a new post document from an admin request, filling the
// derived excerpt, read time and date.
func NewPost(req UpsertRequest, now time.Time) (Post, error) {
	slug := utils.NormalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return Post{}, ErrInvalidSlug
	}
	post := fromRequest(req, now)
	post.ID = primitive.NewObjectID().Hex()
	post.Slug = slug
	post.IsPublished = req.IsPublished != nil && *req.IsPublished
	post.CreatedAt = now
	post.UpdatedAt = now
	return post, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Post, error) {
	slug := utils.NormalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return Post{}, ErrInvalidSlug
	}

	now := time.Now().In(s.location)
	post := fromRequest(req, now)
	set := bson.M{
		"title":     post.Title,
		"slug":      slug,
		"content":   post.Content,
		"excerpt":   post.Excerpt,
		"author":    post.Author,
		"category":  post.Category,
		"tags":      post.Tags,
		"date":      post.Date,
		"readTime":  post.ReadTime,
		"heroImage": post.HeroImage,
		"updatedAt": now,
	}
	if req.IsPublished != nil {
		set["isPublished"] = *req.IsPublished
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return Post{}, ErrSlugExists
		}
		return Post{}, err
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

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Post, int64, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Tag = strings.TrimSpace(filter.Tag)
	posts, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Latest returns the newest published post.
func (s *Service) Latest(ctx context.Context) (Post, error) {
	posts, err := s.repo.List(ctx, ListFilter{}, 1, 0)
	if err != nil {
		return Post{}, err
	}
	if len(posts) == 0 {
		return Post{}, ErrNotFound
	}
	return posts[0], nil
}

// Get returns a published post by id or slug.
func (s *Service) Get(ctx context.Context, idOrSlug string) (Post, error) {
	post, err := s.repo.Find(ctx, strings.TrimSpace(idOrSlug), true)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return post, nil
}

// View renders a published post with its structured data.
func (s *Service) View(ctx context.Context, idOrSlug string) (View, error) {
	post, err := s.Get(ctx, idOrSlug)
	if err != nil {
		return View{}, err
	}
	return s.render(post), nil
}

func (s *Service) render(post Post) View {
	blocks := markdown.Render(post.Content)
	posting := seo.NewBlogPosting(s.site, seo.ArticleInput{
		Title:       post.Title,
		Path:        Path(post.Slug),
		Description: post.Excerpt,
		Author:      post.Author,
		Published:   s.parseDate(post.Date, post.CreatedAt),
		Modified:    post.UpdatedAt,
		Image:       post.HeroImage,
		Category:    post.Category,
		Tags:        post.Tags,
		WordCount:   markdown.WordCount(post.Content),
	})
	posting.Context = ""
	crumbs := seo.NewBreadcrumbs(s.site,
		seo.Crumb{Name: "Home", Path: "/"},
		seo.Crumb{Name: "Blog", Path: "/blog"},
		seo.Crumb{Name: post.Title, Path: Path(post.Slug)},
	)
	crumbs.Context = ""

	return View{
		Post:   post,
		Blocks: blocks,
		HTML:   markdown.HTML(blocks),
		JSONLD: seo.NewGraph(posting, crumbs),
	}
}

// Path is the public page of a post.
func Path(slug string) string {
	return "/blog/" + slug
}

func fromRequest(req UpsertRequest, now time.Time) Post {
	content := strings.TrimSpace(req.Content)
	excerpt := strings.TrimSpace(req.Excerpt)
	if excerpt == "" {
		excerpt = utils.Truncate(markdown.FirstParagraph(markdown.Render(content)), excerptLength)
	}
	readTime := strings.TrimSpace(req.ReadTime)
	if readTime == "" {
		readTime = markdown.ReadTime(content)
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = now.Format("2006-01-02")
	}
	return Post{
		Title:     strings.TrimSpace(req.Title),
		Content:   content,
		Excerpt:   excerpt,
		Author:    strings.TrimSpace(req.Author),
		Category:  strings.TrimSpace(req.Category),
		Tags:      utils.CleanList(req.Tags),
		Date:      date,
		ReadTime:  readTime,
		HeroImage: strings.TrimSpace(req.HeroImage),
	}
}

func (s *Service) parseDate(value string, fallback time.Time) time.Time {
	t, err := schedule.ParseDate(value, s.location)
	if err != nil {
		return fallback
	}
	return t
}
