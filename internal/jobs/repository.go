package jobs

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, job Job) error
	Update(ctx context.Context, id string, set bson.M) (Job, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, activeOnly bool) ([]Job, error)
	Get(ctx context.Context, id string) (Job, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, job Job) error {
	_, err := r.col.InsertOne(ctx, job)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Job, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Job
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Job{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) List(ctx context.Context, activeOnly bool) ([]Job, error) {
	query := bson.M{}
	if activeOnly {
		query["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}})

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	jobs := make([]Job, 0)
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (Job, error) {
	var job Job
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&job); err != nil {
		return Job{}, err
	}
	return job, nil
}
