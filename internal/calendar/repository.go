package calendar

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	GetSchedule(ctx context.Context) (ContentSchedule, error)
	SaveSchedule(ctx context.Context, s ContentSchedule) error
	// UpsertOccurrence writes the schedule-derived fields of ev and leaves
	// status and reminder state of an existing event untouched.
	UpsertOccurrence(ctx context.Context, ev CalendarEvent) error
	// ListEvents returns events due in [from, until) plus pending events
	// due in [overdueSince, from), ordered by due date.
	ListEvents(ctx context.Context, overdueSince, from, until time.Time) ([]CalendarEvent, error)
	GetEvent(ctx context.Context, id string) (CalendarEvent, error)
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
	UpdateStatus(ctx context.Context, id string, status Status) (CalendarEvent, error)
	DeleteFuturePending(ctx context.Context, from time.Time) (int64, error)
}

type MongoRepository struct {
	settings *mongo.Collection
	events   *mongo.Collection
}

func NewRepository(settings, events *mongo.Collection) *MongoRepository {
	return &MongoRepository{settings: settings, events: events}
}

func (r *MongoRepository) GetSchedule(ctx context.Context) (ContentSchedule, error) {
	var s ContentSchedule
	if err := r.settings.FindOne(ctx, bson.M{"_id": scheduleID}).Decode(&s); err != nil {
		return ContentSchedule{}, err
	}
	return s, nil
}

func (r *MongoRepository) SaveSchedule(ctx context.Context, s ContentSchedule) error {
	s.ID = scheduleID
	_, err := r.settings.ReplaceOne(ctx, bson.M{"_id": scheduleID}, s, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoRepository) UpsertOccurrence(ctx context.Context, ev CalendarEvent) error {
	update := bson.M{
		"$set": bson.M{
			"type":        ev.Type,
			"title":       ev.Title,
			"description": ev.Description,
			"dueDate":     ev.DueDate,
		},
		"$setOnInsert": bson.M{
			"status":       StatusPending,
			"reminderSent": false,
			"createdAt":    ev.CreatedAt,
		},
	}
	_, err := r.events.UpdateOne(ctx, bson.M{"_id": ev.ID}, update, options.Update().SetUpsert(true))
	return err
}

func (r *MongoRepository) ListEvents(ctx context.Context, overdueSince, from, until time.Time) ([]CalendarEvent, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"dueDate": bson.M{"$gte": from, "$lt": until}},
		bson.M{"status": StatusPending, "dueDate": bson.M{"$gte": overdueSince, "$lt": from}},
	}}
	cursor, err := r.events.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]CalendarEvent, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) GetEvent(ctx context.Context, id string) (CalendarEvent, error) {
	var ev CalendarEvent
	if err := r.events.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		return CalendarEvent{}, err
	}
	return ev, nil
}

func (r *MongoRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	res, err := r.events.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"reminderSent": true, "reminderSentAt": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, status Status) (CalendarEvent, error) {
	var ev CalendarEvent
	err := r.events.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ev)
	if err != nil {
		return CalendarEvent{}, err
	}
	return ev, nil
}

func (r *MongoRepository) DeleteFuturePending(ctx context.Context, from time.Time) (int64, error) {
	res, err := r.events.DeleteMany(ctx, bson.M{"status": StatusPending, "dueDate": bson.M{"$gte": from}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
