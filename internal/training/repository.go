package training

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	ListClients(ctx context.Context) ([]Client, error)
	GetClient(ctx context.Context, idOrSlug string) (Client, error)
	GetCourse(ctx context.Context, id string) (Course, error)
	GetProgress(ctx context.Context, clientID, courseID string) (Progress, error)
	// SetModule adds or removes moduleID from the completion set atomically
	// and returns the stored progress.
	SetModule(ctx context.Context, clientID, courseID, moduleID string, completed bool, at time.Time) (Progress, error)
	SetPercentage(ctx context.Context, clientID, courseID string, percentage int) error
}

type MongoRepository struct {
	clients  *mongo.Collection
	courses  *mongo.Collection
	progress *mongo.Collection
}

func NewRepository(clients, courses, progress *mongo.Collection) *MongoRepository {
	return &MongoRepository{clients: clients, courses: courses, progress: progress}
}

func (r *MongoRepository) ListClients(ctx context.Context) ([]Client, error) {
	cursor, err := r.clients.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Client, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) GetClient(ctx context.Context, idOrSlug string) (Client, error) {
	var c Client
	query := bson.M{"$or": bson.A{bson.M{"_id": idOrSlug}, bson.M{"slug": idOrSlug}}}
	if err := r.clients.FindOne(ctx, query).Decode(&c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (r *MongoRepository) GetCourse(ctx context.Context, id string) (Course, error) {
	var c Course
	if err := r.courses.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return Course{}, err
	}
	return c, nil
}

func (r *MongoRepository) GetProgress(ctx context.Context, clientID, courseID string) (Progress, error) {
	var p Progress
	if err := r.progress.FindOne(ctx, bson.M{"clientId": clientID, "courseId": courseID}).Decode(&p); err != nil {
		return Progress{}, err
	}
	return p, nil
}

func (r *MongoRepository) SetModule(ctx context.Context, clientID, courseID, moduleID string, completed bool, at time.Time) (Progress, error) {
	op := "$pull"
	if completed {
		op = "$addToSet"
	}
	update := bson.M{
		op:     bson.M{"completedModules": moduleID},
		"$set": bson.M{"updatedAt": at},
		"$setOnInsert": bson.M{
			"_id":      clientID + ":" + courseID,
			"clientId": clientID,
			"courseId": courseID,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var p Progress
	filter := bson.M{"clientId": clientID, "courseId": courseID}
	if err := r.progress.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p); err != nil {
		return Progress{}, err
	}
	return p, nil
}

func (r *MongoRepository) SetPercentage(ctx context.Context, clientID, courseID string, percentage int) error {
	_, err := r.progress.UpdateOne(ctx,
		bson.M{"clientId": clientID, "courseId": courseID},
		bson.M{"$set": bson.M{"percentage": percentage}},
	)
	return err
}
