package training

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"agency-backend/internal/seo"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrModuleNotFound = errors.New("module not found")
)

type Service struct {
	repo     Repository
	site     seo.Site
	location *time.Location
}

func NewService(repo Repository, site seo.Site, location *time.Location) *Service {
	return &Service{repo: repo, site: site, location: location}
}

func (s *Service) ListClients(ctx context.Context) ([]Client, error) {
	return s.repo.ListClients(ctx)
}

// GetCourse loads a course with its modules in order. When clientRef is set
// the client and its progress load alongside the course, and the course must
// be assigned to that client.
func (s *Service) GetCourse(ctx context.Context, courseID, clientRef string) (CourseView, error) {
	courseID = strings.TrimSpace(courseID)
	clientRef = strings.TrimSpace(clientRef)

	var (
		course   Course
		client   Client
		progress *Progress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		course, err = s.course(gctx, courseID)
		return err
	})
	if clientRef != "" {
		g.Go(func() error {
			var err error
			client, err = s.repo.GetClient(gctx, clientRef)
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrClientNotFound
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return CourseView{}, err
	}

	if clientRef != "" {
		if !assigned(client, course.ID) {
			return CourseView{}, ErrCourseNotFound
		}
		p, err := s.repo.GetProgress(ctx, client.ID, course.ID)
		switch {
		case err == nil:
			p.Percentage = Percentage(course.Modules, p.CompletedModules)
			progress = &p
		case errors.Is(err, mongo.ErrNoDocuments):
			progress = &Progress{ClientID: client.ID, CourseID: course.ID, CompletedModules: []string{}}
		default:
			return CourseView{}, err
		}
	}

	sortModules(course.Modules)
	return CourseView{
		Course:       course,
		TotalMinutes: totalMinutes(course.Modules),
		Progress:     progress,
		JSONLD:       s.courseLD(course),
	}, nil
}

// CompleteModule marks a module done (or not done) for a client and returns
// the recomputed progress.
func (s *Service) CompleteModule(ctx context.Context, req ModuleProgressRequest) (Progress, error) {
	course, err := s.course(ctx, strings.TrimSpace(req.CourseID))
	if err != nil {
		return Progress{}, err
	}
	moduleID := strings.TrimSpace(req.ModuleID)
	if !hasModule(course.Modules, moduleID) {
		return Progress{}, ErrModuleNotFound
	}
	client, err := s.repo.GetClient(ctx, strings.TrimSpace(req.ClientID))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Progress{}, ErrClientNotFound
		}
		return Progress{}, err
	}
	if !assigned(client, course.ID) {
		return Progress{}, ErrCourseNotFound
	}

	completed := req.Completed == nil || *req.Completed
	p, err := s.repo.SetModule(ctx, client.ID, course.ID, moduleID, completed, time.Now().In(s.location))
	if err != nil {
		return Progress{}, err
	}
	if p.CompletedModules == nil {
		p.CompletedModules = []string{}
	}
	p.Percentage = Percentage(course.Modules, p.CompletedModules)
	if err := s.repo.SetPercentage(ctx, client.ID, course.ID, p.Percentage); err != nil {
		return Progress{}, err
	}
	return p, nil
}

// Percentage is the rounded share of required modules completed. A course
// with no required modules counts every module.
func Percentage(modules []Module, completed []string) int {
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}

	required := 0
	for _, m := range modules {
		if m.IsRequired {
			required++
		}
	}

	total, finished := 0, 0
	for _, m := range modules {
		if required > 0 && !m.IsRequired {
			continue
		}
		total++
		if done[m.ID] {
			finished++
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(finished) / float64(total)))
}

func (s *Service) course(ctx context.Context, id string) (Course, error) {
	course, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Course{}, ErrCourseNotFound
		}
		return Course{}, err
	}
	return course, nil
}

func (s *Service) courseLD(course Course) seo.Course {
	names := make([]string, 0, len(course.Modules))
	for _, m := range course.Modules {
		names = append(names, m.Title)
	}
	return seo.NewCourse(s.site, course.Title, course.Description, totalMinutes(course.Modules), names)
}

func assigned(client Client, courseID string) bool {
	for _, id := range client.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

func hasModule(modules []Module, id string) bool {
	for _, m := range modules {
		if m.ID == id {
			return true
		}
	}
	return false
}

func sortModules(modules []Module) {
	sort.SliceStable(modules, func(i, j int) bool { return modules[i].SortOrder < modules[j].SortOrder })
}

func totalMinutes(modules []Module) int {
	total := 0
	for _, m := range modules {
		total += m.Duration
	}
	return total
}
