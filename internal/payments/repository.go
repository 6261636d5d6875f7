package payments

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, payment Payment) error
	GetByID(ctx context.Context, id string) (Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (Payment, error)
	List(ctx context.Context, query bson.M, limit, offset int64) ([]Payment, error)
	Count(ctx context.Context, query bson.M) (int64, error)
	SetTransactionID(ctx context.Context, id, transactionID string, now time.Time) error
	UpdateStatus(ctx context.Context, id string, status Status, now time.Time) (Payment, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, payment Payment) error {
	_, err := r.col.InsertOne(ctx, payment)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Payment, error) {
	var payment Payment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&payment); err != nil {
		return Payment{}, err
	}
	return payment, nil
}

func (r *MongoRepository) GetByTransactionID(ctx context.Context, transactionID string) (Payment, error) {
	var payment Payment
	if err := r.col.FindOne(ctx, bson.M{"transactionId": transactionID}).Decode(&payment); err != nil {
		return Payment{}, err
	}
	return payment, nil
}

func (r *MongoRepository) List(ctx context.Context, query bson.M, limit, offset int64) ([]Payment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Payment, 0)
	for cursor.Next(ctx) {
		var payment Payment
		if err := cursor.Decode(&payment); err != nil {
			return nil, err
		}
		items = append(items, payment)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, query bson.M) (int64, error) {
	return r.col.CountDocuments(ctx, query)
}

func (r *MongoRepository) SetTransactionID(ctx context.Context, id, transactionID string, now time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"transactionId": transactionID,
			"updatedAt":     now,
		},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, status Status, now time.Time) (Payment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": now,
		},
	}

	var updated Payment
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Payment{}, err
	}
	return updated, nil
}
