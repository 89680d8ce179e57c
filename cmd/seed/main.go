package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"agency-backend/internal/blog"
	"agency-backend/internal/calendar"
	"agency-backend/internal/casestudies"
	"agency-backend/internal/config"
	"agency-backend/internal/content"
	"agency-backend/internal/db"
	"agency-backend/internal/jobs"
	"agency-backend/internal/logging"
	"agency-backend/internal/utils"
	"agency-backend/internal/validation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seed inserts the embedded content into an empty or partially seeded
// database. Existing documents are never modified, so admin edits survive
// a re-run.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, closer := logging.New(cfg)
	defer closer.Close()

	bundle, err := content.Load()
	if err != nil {
		logger.Error("seed: load content", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := bundle.Validate(validation.New()); err != nil {
		logger.Error("seed: invalid content", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("seed: mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("seed: index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	s := seeder{ctx: ctx, log: logger, now: time.Now().In(cfg.Timezone)}
	if err := s.run(bundle, cols); err != nil {
		logger.Error("seed: failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("seed: completed")
}

type seeder struct {
	ctx context.Context
	log *slog.Logger
	now time.Time
}

func (s seeder) run(bundle *content.Bundle, cols *db.Collections) error {
	for _, req := range bundle.Posts {
		post, err := blog.NewPost(req, s.now)
		if err != nil {
			return err
		}
		if err := s.insertMissing(cols.BlogPosts, "post", bson.M{"slug": post.Slug}, post); err != nil {
			return err
		}
	}

	for _, req := range bundle.CaseStudies {
		item, err := casestudies.NewCaseStudy(req, s.now)
		if err != nil {
			return err
		}
		if err := s.insertMissing(cols.CaseStudies, "case study", bson.M{"slug": item.Slug}, item); err != nil {
			return err
		}
	}

	for _, req := range bundle.Jobs {
		job := jobs.NewJob(req, s.now)
		job.ID = utils.Slugify(job.Title + " " + job.City)
		if err := s.insertMissing(cols.Jobs, "job", bson.M{"_id": job.ID}, job); err != nil {
			return err
		}
	}

	for _, venue := range bundle.Venues {
		if venue.ID == "" {
			venue.ID = primitive.NewObjectID().Hex()
		}
		if err := s.insertMissing(cols.Venues, "venue", bson.M{"slug": venue.Slug}, venue); err != nil {
			return err
		}
	}

	for _, ev := range bundle.Events {
		if ev.ID == "" {
			ev.ID = primitive.NewObjectID().Hex()
		}
		if err := s.insertMissing(cols.Events, "event", bson.M{"slug": ev.Slug}, ev); err != nil {
			return err
		}
	}

	for _, c := range bundle.Clients {
		if c.ID == "" {
			c.ID = primitive.NewObjectID().Hex()
		}
		if err := s.insertMissing(cols.TrainingClients, "training client", bson.M{"slug": c.Slug}, c); err != nil {
			return err
		}
	}

	for _, course := range bundle.Courses {
		if err := s.insertMissing(cols.Courses, "course", bson.M{"_id": course.ID}, course); err != nil {
			return err
		}
	}

	return s.seedSchedule(bundle, calendar.NewRepository(cols.Settings, cols.CalendarEvents))
}

// insertMissing upserts doc with $setOnInsert so a matching document is
// left as it is.
func (s seeder) insertMissing(col *mongo.Collection, kind string, filter bson.M, doc interface{}) error {
	res, err := col.UpdateOne(s.ctx, filter, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	if res.UpsertedCount > 0 {
		s.log.Info("seed: inserted", slog.String("kind", kind), slog.Any("filter", filter))
	} else {
		s.log.Debug("seed: exists", slog.String("kind", kind), slog.Any("filter", filter))
	}
	return nil
}

func (s seeder) seedSchedule(bundle *content.Bundle, repo *calendar.MongoRepository) error {
	_, err := repo.GetSchedule(s.ctx)
	if err == nil {
		s.log.Debug("seed: content schedule exists")
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	sched := calendar.DefaultSchedule()
	for name, ch := range bundle.Schedule {
		if !sched.Set(name, ch) {
			s.log.Warn("seed: unknown schedule channel", slog.String("channel", name))
		}
	}
	sched.UpdatedAt = s.now
	if err := repo.SaveSchedule(s.ctx, sched); err != nil {
		return err
	}
	s.log.Info("seed: content schedule saved")
	return nil
}
