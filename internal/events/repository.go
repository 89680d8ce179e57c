package events

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	ListEvents(ctx context.Context, filter ListFilter) ([]Event, error)
	GetEvent(ctx context.Context, slug string) (Event, error)
	ListVenues(ctx context.Context) ([]Venue, error)
	GetVenue(ctx context.Context, slug string) (Venue, error)
}

type MongoRepository struct {
	events *mongo.Collection
	venues *mongo.Collection
}

func NewRepository(events, venues *mongo.Collection) *MongoRepository {
	return &MongoRepository{events: events, venues: venues}
}

func (r *MongoRepository) ListEvents(ctx context.Context, filter ListFilter) ([]Event, error) {
	query := bson.M{"isPublished": true}
	if filter.City != "" {
		query["city"] = bson.M{"$regex": "^" + regexp.QuoteMeta(filter.City) + "$", "$options": "i"}
	}
	if filter.Upcoming {
		query["endDate"] = bson.M{"$gte": filter.Now}
	}

	cursor, err := r.events.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Event, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) GetEvent(ctx context.Context, slug string) (Event, error) {
	var ev Event
	if err := r.events.FindOne(ctx, bson.M{"slug": slug, "isPublished": true}).Decode(&ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func (r *MongoRepository) ListVenues(ctx context.Context) ([]Venue, error) {
	cursor, err := r.venues.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Venue, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) GetVenue(ctx context.Context, slug string) (Venue, error) {
	var v Venue
	if err := r.venues.FindOne(ctx, bson.M{"slug": slug}).Decode(&v); err != nil {
		return Venue{}, err
	}
	return v, nil
}
