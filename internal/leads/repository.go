package leads

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, lead Lead) error
	Find(ctx context.Context, filter ListFilter, limit, offset int64) ([]Lead, int64, error)
	Get(ctx context.Context, id string) (Lead, error)
	// Transition sets the status and appends the change to the lead's history.
	Transition(ctx context.Context, id string, change StatusChange) (Lead, error)
	CountByStatus(ctx context.Context, since time.Time) (map[string]int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, lead Lead) error {
	_, err := r.col.InsertOne(ctx, lead)
	return err
}

func (r *MongoRepository) Find(ctx context.Context, filter ListFilter, limit, offset int64) ([]Lead, int64, error) {
	query := filter.query()
	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"history": 0}).
		SetLimit(limit).
		SetSkip(offset)
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	items := make([]Lead, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (Lead, error) {
	var lead Lead
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	return lead, err
}

func (r *MongoRepository) Transition(ctx context.Context, id string, change StatusChange) (Lead, error) {
	update := bson.M{
		"$set":  bson.M{"status": change.Status, "updatedAt": change.At},
		"$push": bson.M{"history": change},
	}
	var lead Lead
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&lead)
	return lead, err
}

func (r *MongoRepository) CountByStatus(ctx context.Context, since time.Time) (map[string]int64, error) {
	match := bson.M{}
	if !since.IsZero() {
		match["createdAt"] = bson.M{"$gte": since}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$status"}, {Key: "n", Value: bson.M{"$sum": 1}}}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Status string `bson:"_id"`
		N      int64  `bson:"n"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	for key, value := range map[string]string{"status": f.Status, "source": f.Source, "service": f.Service} {
		if value != "" {
			q[key] = value
		}
	}
	if !f.Since.IsZero() {
		q["createdAt"] = bson.M{"$gte": f.Since}
	}
	if f.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		q["$or"] = bson.A{bson.M{"company": pattern}, bson.M{"name": pattern}, bson.M{"email": pattern}}
	}
	return q
}
