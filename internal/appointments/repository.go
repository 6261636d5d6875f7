package appointments

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, appt Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Appointment, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	BookedStartTimes(ctx context.Context, doctorID, date string) (map[string]bool, error)
	UpdateStatus(ctx context.Context, id string, status Status, now time.Time) (Appointment, error)
	Reschedule(ctx context.Context, id, date, startTime, endTime string, fee float64, now time.Time) (Appointment, error)
	Delete(ctx context.Context, id string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, appt Appointment) error {
	_, err := r.col.InsertOne(ctx, appt)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Appointment, error) {
	var appt Appointment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&appt); err != nil {
		return Appointment{}, err
	}
	return appt, nil
}

func filterQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.DoctorID != "" {
		query["doctorId"] = filter.DoctorID
	}
	if filter.PatientID != "" {
		query["patientId"] = filter.PatientID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Date != "" {
		query["appointmentDate"] = filter.Date
	}
	return query
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Appointment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "appointmentDate", Value: -1}, {Key: "startTime", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, filterQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Appointment, 0)
	for cursor.Next(ctx) {
		var appt Appointment
		if err := cursor.Decode(&appt); err != nil {
			return nil, err
		}
		items = append(items, appt)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, filterQuery(filter))
}

// BookedStartTimes returns the start times already taken for a doctor on one
// date. Canceled appointments do not hold their slot.
func (r *MongoRepository) BookedStartTimes(ctx context.Context, doctorID, date string) (map[string]bool, error) {
	query := bson.M{
		"doctorId":        doctorID,
		"appointmentDate": date,
		"status":          bson.M{"$ne": string(StatusCanceled)},
	}
	opts := options.Find().SetProjection(bson.M{"startTime": 1})

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reserved := make(map[string]bool)
	for cursor.Next(ctx) {
		var row struct {
			StartTime string `bson:"startTime"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		reserved[row.StartTime] = true
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return reserved, nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, status Status, now time.Time) (Appointment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": now,
		},
	}

	var updated Appointment
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Appointment{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Reschedule(ctx context.Context, id, date, startTime, endTime string, fee float64, now time.Time) (Appointment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"appointmentDate": date,
			"startTime":       startTime,
			"endTime":         endTime,
			"fee":             fee,
			"status":          StatusRescheduled,
			"updatedAt":       now,
		},
	}

	var updated Appointment
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Appointment{}, err
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
