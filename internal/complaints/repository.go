package complaints

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, complaint Complaint) error
	GetByID(ctx context.Context, id string) (Complaint, error)
	List(ctx context.Context, query bson.M, limit, offset int64) ([]Complaint, error)
	Count(ctx context.Context, query bson.M) (int64, error)
	UpdateStatus(ctx context.Context, id string, status Status, resolution string, now time.Time) (Complaint, error)
	Delete(ctx context.Context, id string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, complaint Complaint) error {
	_, err := r.col.InsertOne(ctx, complaint)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Complaint, error) {
	var complaint Complaint
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&complaint); err != nil {
		return Complaint{}, err
	}
	return complaint, nil
}

func (r *MongoRepository) List(ctx context.Context, query bson.M, limit, offset int64) ([]Complaint, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Complaint, 0)
	for cursor.Next(ctx) {
		var complaint Complaint
		if err := cursor.Decode(&complaint); err != nil {
			return nil, err
		}
		items = append(items, complaint)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, query bson.M) (int64, error) {
	return r.col.CountDocuments(ctx, query)
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, status Status, resolution string, now time.Time) (Complaint, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	set := bson.M{
		"status":    status,
		"updatedAt": now,
	}
	if resolution != "" {
		set["resolution"] = resolution
	}

	var updated Complaint
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Complaint{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
