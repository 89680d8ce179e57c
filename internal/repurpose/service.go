package repurpose

import (
	"context"

	"agency-backend/internal/seo"
)

type Service struct {
	loader *Loader
	site   seo.Site
}

func NewService(loader *Loader, site seo.Site) *Service {
	return &Service{loader: loader, site: site}
}

func (s *Service) LinkedIn(ctx context.Context, kind, id string) (LinkedInPost, error) {
	src, err := s.loader.Load(ctx, kind, id)
	if err != nil {
		return LinkedInPost{}, err
	}
	return LinkedIn(src, s.site), nil
}

func (s *Service) Carousel(ctx context.Context, kind, id string) (Carousel, error) {
	src, err := s.loader.Load(ctx, kind, id)
	if err != nil {
		return Carousel{}, err
	}
	return BuildCarousel(src, s.site), nil
}

func (s *Service) Video(ctx context.Context, kind, id string) (VideoScript, error) {
	src, err := s.loader.Load(ctx, kind, id)
	if err != nil {
		return VideoScript{}, err
	}
	return Video(src, s.site), nil
}
