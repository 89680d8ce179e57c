package casestudies

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item CaseStudy) error
	Update(ctx context.Context, id string, set bson.M) (CaseStudy, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListPublic(ctx context.Context, filter PublicListFilter) ([]CaseStudy, error)
	GetPublishedBySlug(ctx context.Context, slug string) (CaseStudy, error)
	GetPublishedByID(ctx context.Context, id string) (CaseStudy, error)
	ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]CaseStudy, error)
	CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error)
	DistinctPublished(ctx context.Context, field string) ([]string, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item CaseStudy) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (CaseStudy, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated CaseStudy
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return CaseStudy{}, err
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

func (r *MongoRepository) ListPublic(ctx context.Context, filter PublicListFilter) ([]CaseStudy, error) {
	query := bson.M{"isPublished": true}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Industry != "" {
		query["industry"] = filter.Industry
	}

	sortSpec := bson.D{{Key: "sortOrder", Value: 1}, {Key: "createdAt", Value: -1}}
	if filter.ByDate {
		sortSpec = bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}
	}
	return r.find(ctx, query, options.Find().SetSort(sortSpec))
}

func (r *MongoRepository) GetPublishedBySlug(ctx context.Context, slug string) (CaseStudy, error) {
	var item CaseStudy
	if err := r.col.FindOne(ctx, bson.M{"slug": slug, "isPublished": true}).Decode(&item); err != nil {
		return CaseStudy{}, err
	}
	return item, nil
}

func (r *MongoRepository) GetPublishedByID(ctx context.Context, id string) (CaseStudy, error) {
	var item CaseStudy
	query := bson.M{"isPublished": true, "$or": bson.A{bson.M{"_id": id}, bson.M{"slug": id}}}
	if err := r.col.FindOne(ctx, query).Decode(&item); err != nil {
		return CaseStudy{}, err
	}
	return item, nil
}

func (r *MongoRepository) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]CaseStudy, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
	return r.find(ctx, adminQuery(filter), opts)
}

func (r *MongoRepository) CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, adminQuery(filter))
}

func (r *MongoRepository) DistinctPublished(ctx context.Context, field string) ([]string, error) {
	raw, err := r.col.Distinct(ctx, field, bson.M{"isPublished": true})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func adminQuery(filter AdminListFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	return query
}

func (r *MongoRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]CaseStudy, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]CaseStudy, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
