package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Users         *mongo.Collection
	Doctors       *mongo.Collection
	Patients      *mongo.Collection
	Appointments  *mongo.Collection
	Prescriptions *mongo.Collection
	Payments      *mongo.Collection
	Complaints    *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		Users:         db.Collection("users"),
		Doctors:       db.Collection("doctors"),
		Patients:      db.Collection("patients"),
		Appointments:  db.Collection("appointments"),
		Prescriptions: db.Collection("prescriptions"),
		Payments:      db.Collection("payments"),
		Complaints:    db.Collection("complaints"),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Users.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Doctors.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "specialization", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Patients.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	// The unique triple turns a double-submitted booking into a duplicate-key
	// conflict instead of a second appointment. Canceled appointments are
	// excluded so their slot can be booked again (requires MongoDB 6.0+ for
	// $in in partial filters).
	_, err = cols.Appointments.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "doctorId", Value: 1},
				{Key: "appointmentDate", Value: 1},
				{Key: "startTime", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{
					{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{
						"pending", "confirmed", "completed", "rescheduled",
					}}}},
				}),
		},
		{
			Keys: bson.D{{Key: "patientId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "appointmentDate", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Prescriptions.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "patientId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "doctorId", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Payments.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "appointmentId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "patientId", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "transactionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Complaints.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	return nil
}
