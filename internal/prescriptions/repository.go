package prescriptions

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, presc Prescription) error
	GetByID(ctx context.Context, id string) (Prescription, error)
	List(ctx context.Context, query bson.M, limit, offset int64) ([]Prescription, error)
	Count(ctx context.Context, query bson.M) (int64, error)
	Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (Prescription, error)
	Delete(ctx context.Context, id string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, presc Prescription) error {
	_, err := r.col.InsertOne(ctx, presc)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Prescription, error) {
	var presc Prescription
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&presc); err != nil {
		return Prescription{}, err
	}
	return presc, nil
}

func (r *MongoRepository) List(ctx context.Context, query bson.M, limit, offset int64) ([]Prescription, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Prescription, 0)
	for cursor.Next(ctx) {
		var presc Prescription
		if err := cursor.Decode(&presc); err != nil {
			return nil, err
		}
		items = append(items, presc)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, query bson.M) (int64, error) {
	return r.col.CountDocuments(ctx, query)
}

func (r *MongoRepository) Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (Prescription, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"medications": req.Medications,
			"totalAmount": req.TotalAmount,
			"issueDate":   req.IssueDate,
			"expiryDate":  req.ExpiryDate,
			"notes":       req.Notes,
			"updatedAt":   now,
		},
	}

	var updated Prescription
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Prescription{}, err
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
