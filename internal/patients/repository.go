package patients

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, patient Patient) error
	GetByID(ctx context.Context, id string) (Patient, error)
	GetByUserID(ctx context.Context, userID string) (Patient, error)
	List(ctx context.Context, limit, offset int64) ([]Patient, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (Patient, error)
	Delete(ctx context.Context, id string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, patient Patient) error {
	_, err := r.col.InsertOne(ctx, patient)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Patient, error) {
	var patient Patient
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&patient); err != nil {
		return Patient{}, err
	}
	return patient, nil
}

func (r *MongoRepository) GetByUserID(ctx context.Context, userID string) (Patient, error) {
	var patient Patient
	if err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&patient); err != nil {
		return Patient{}, err
	}
	return patient, nil
}

func (r *MongoRepository) List(ctx context.Context, limit, offset int64) ([]Patient, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Patient, 0)
	for cursor.Next(ctx) {
		var patient Patient
		if err := cursor.Decode(&patient); err != nil {
			return nil, err
		}
		items = append(items, patient)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *MongoRepository) Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (Patient, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"firstName":        req.FirstName,
			"lastName":         req.LastName,
			"contactPhone":     req.ContactPhone,
			"dateOfBirth":      req.DateOfBirth,
			"gender":           req.Gender,
			"address":          req.Address,
			"emergencyContact": req.EmergencyContact,
			"updatedAt":        now,
		},
	}

	var updated Patient
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Patient{}, err
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
