package doctors

import (
	"context"
	"time"

	"aura-backend/internal/schedule"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, doctor Doctor) error
	GetByID(ctx context.Context, id string) (Doctor, error)
	GetByUserID(ctx context.Context, userID string) (Doctor, error)
	List(ctx context.Context, limit, offset int64) ([]Doctor, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (Doctor, error)
	SetAvailability(ctx context.Context, id string, windows []schedule.AvailabilityWindow, now time.Time) (Doctor, error)
	Delete(ctx context.Context, id string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, doctor Doctor) error {
	_, err := r.col.InsertOne(ctx, doctor)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Doctor, error) {
	var doctor Doctor
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doctor); err != nil {
		return Doctor{}, err
	}
	return doctor, nil
}

func (r *MongoRepository) GetByUserID(ctx context.Context, userID string) (Doctor, error) {
	var doctor Doctor
	if err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&doctor); err != nil {
		return Doctor{}, err
	}
	return doctor, nil
}

func (r *MongoRepository) List(ctx context.Context, limit, offset int64) ([]Doctor, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Doctor, 0)
	for cursor.Next(ctx) {
		var doctor Doctor
		if err := cursor.Decode(&doctor); err != nil {
			return nil, err
		}
		items = append(items, doctor)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *MongoRepository) Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (Doctor, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	set := bson.M{
		"firstName":      req.FirstName,
		"lastName":       req.LastName,
		"specialization": req.Specialization,
		"contactPhone":   req.ContactPhone,
		"isAvailable":    req.IsAvailable,
		"updatedAt":      now,
	}
	if req.DefaultSlotDuration > 0 {
		set["defaultSlotDuration"] = req.DefaultSlotDuration
	}

	var updated Doctor
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Doctor{}, err
	}
	return updated, nil
}

func (r *MongoRepository) SetAvailability(ctx context.Context, id string, windows []schedule.AvailabilityWindow, now time.Time) (Doctor, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"availability": windows,
			"updatedAt":    now,
		},
	}

	var updated Doctor
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Doctor{}, err
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
