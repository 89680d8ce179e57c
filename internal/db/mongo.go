package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	BlogPosts       *mongo.Collection
	CaseStudies     *mongo.Collection
	Jobs            *mongo.Collection
	Events          *mongo.Collection
	Venues          *mongo.Collection
	TrainingClients *mongo.Collection
	Courses         *mongo.Collection
	CourseProgress  *mongo.Collection
	Settings        *mongo.Collection
	CalendarEvents  *mongo.Collection
	Leads           *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		BlogPosts:       db.Collection("blog_posts"),
		CaseStudies:     db.Collection("case_studies"),
		Jobs:            db.Collection("jobs"),
		Events:          db.Collection("events"),
		Venues:          db.Collection("venues"),
		TrainingClients: db.Collection("training_clients"),
		Courses:         db.Collection("courses"),
		CourseProgress:  db.Collection("course_progress"),
		Settings:        db.Collection("settings"),
		CalendarEvents:  db.Collection("calendar_events"),
		Leads:           db.Collection("leads"),
	}

	return client, cols, nil
}

type indexSpec struct {
	col    *mongo.Collection
	models []mongo.IndexModel
}

func uniqueOn(keys ...string) mongo.IndexModel {
	doc := bson.D{}
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: 1})
	}
	return mongo.IndexModel{Keys: doc, Options: options.Index().SetUnique(true)}
}

func indexOn(keys ...string) mongo.IndexModel {
	doc := bson.D{}
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: 1})
	}
	return mongo.IndexModel{Keys: doc}
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	specs := []indexSpec{
		{cols.BlogPosts, []mongo.IndexModel{uniqueOn("slug"), indexOn("isPublished", "date")}},
		{cols.CaseStudies, []mongo.IndexModel{uniqueOn("slug"), indexOn("isPublished", "sortOrder")}},
		{cols.Jobs, []mongo.IndexModel{indexOn("isActive", "featured")}},
		{cols.Events, []mongo.IndexModel{uniqueOn("slug"), indexOn("startDate")}},
		{cols.Venues, []mongo.IndexModel{uniqueOn("slug")}},
		{cols.TrainingClients, []mongo.IndexModel{uniqueOn("slug")}},
		{cols.CourseProgress, []mongo.IndexModel{uniqueOn("clientId", "courseId")}},
		{cols.CalendarEvents, []mongo.IndexModel{indexOn("dueDate"), indexOn("status")}},
		{cols.Leads, []mongo.IndexModel{indexOn("status", "createdAt"), indexOn("source"), indexOn("service")}},
	}

	for _, spec := range specs {
		if _, err := spec.col.Indexes().CreateMany(indexTimeout, spec.models); err != nil {
			return err
		}
	}
	return nil
}
