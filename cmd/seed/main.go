package main

import (
	"context"
	"log"
	"os"
	"time"

	"aura-backend/internal/auth"
	"aura-backend/internal/config"
	"aura-backend/internal/db"
	"aura-backend/internal/schedule"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedDoctor struct {
	Email          string
	FirstName      string
	LastName       string
	Specialization string
	ContactPhone   string
	Availability   []schedule.AvailabilityWindow
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	adminEmail := envOrDefault("ADMIN_EMAIL", "")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" {
		if err := seedUser(ctx, cols, adminEmail, adminPassword, "Admin", "Aura", auth.RoleAdmin, cfg.Timezone); err != nil {
			log.Fatalf("seed admin error: %v", err)
		}
	} else {
		log.Println("seed admin: ADMIN_EMAIL or ADMIN_PASSWORD missing, skipping")
	}

	doctorPassword := os.Getenv("SEED_DOCTOR_PASSWORD")
	if doctorPassword == "" {
		log.Println("seed doctors: SEED_DOCTOR_PASSWORD missing, skipping")
		log.Println("seed completed")
		return
	}

	seedDoctors := []seedDoctor{
		{
			Email:          "a.mwangi@aurahealth.example",
			FirstName:      "Achieng",
			LastName:       "Mwangi",
			Specialization: "General Practice",
			ContactPhone:   "+254700000001",
			Availability: []schedule.AvailabilityWindow{
				{Weekday: "Monday", StartTime: "09:00", EndTime: "13:00", Fee: 500},
				{Weekday: "Wednesday", StartTime: "09:00", EndTime: "13:00", Fee: 500},
				{Weekday: "Friday", StartTime: "14:00", EndTime: "17:00", Fee: 500},
			},
		},
		{
			Email:          "j.odhiambo@aurahealth.example",
			FirstName:      "Juma",
			LastName:       "Odhiambo",
			Specialization: "Pediatrics",
			ContactPhone:   "+254700000002",
			Availability: []schedule.AvailabilityWindow{
				{Weekday: "Tuesday", StartTime: "08:00", EndTime: "12:00", Fee: 800},
				{Weekday: "Thursday", StartTime: "08:00", EndTime: "12:00", Fee: 800},
			},
		},
		{
			Email:          "w.kamau@aurahealth.example",
			FirstName:      "Wanjiru",
			LastName:       "Kamau",
			Specialization: "Dermatology",
			ContactPhone:   "+254700000003",
			Availability: []schedule.AvailabilityWindow{
				{Weekday: "Saturday", StartTime: "10:00", EndTime: "14:00", Fee: 1200},
			},
		},
	}

	for _, doc := range seedDoctors {
		if err := seedOneDoctor(ctx, cols, doc, doctorPassword, cfg.Timezone); err != nil {
			log.Fatalf("seed doctor error for %s: %v", doc.Email, err)
		}
	}

	log.Println("seed completed")
}

// seedUser upserts an account by email so reruns refresh the password
// without duplicating the user. Returns the user id.
func seedUser(ctx context.Context, cols *db.Collections, email, password, firstName, lastName string, role auth.Role, loc *time.Location) error {
	_, err := seedUserID(ctx, cols, email, password, firstName, lastName, role, loc)
	return err
}

func seedUserID(ctx context.Context, cols *db.Collections, email, password, firstName, lastName string, role auth.Role, loc *time.Location) (string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	now := time.Now().In(loc)
	id := primitive.NewObjectID().Hex()

	filter := bson.M{"email": email}
	update := bson.M{
		"$set": bson.M{
			"passwordHash": hash,
			"role":         role,
			"updatedAt":    now,
		},
		"$setOnInsert": bson.M{
			"_id":       id,
			"email":     email,
			"firstName": firstName,
			"lastName":  lastName,
			"createdAt": now,
		},
	}
	if _, err := cols.Users.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return "", err
	}

	var user struct {
		ID string `bson:"_id"`
	}
	if err := cols.Users.FindOne(ctx, filter).Decode(&user); err != nil {
		return "", err
	}
	return user.ID, nil
}

func seedOneDoctor(ctx context.Context, cols *db.Collections, doc seedDoctor, password string, loc *time.Location) error {
	userID, err := seedUserID(ctx, cols, doc.Email, password, doc.FirstName, doc.LastName, auth.RoleDoctor, loc)
	if err != nil {
		return err
	}

	now := time.Now().In(loc)
	filter := bson.M{"userId": userID}
	update := bson.M{
		"$set": bson.M{
			"firstName":      doc.FirstName,
			"lastName":       doc.LastName,
			"specialization": doc.Specialization,
			"contactPhone":   doc.ContactPhone,
			"isAvailable":    true,
			"availability":   doc.Availability,
			"updatedAt":      now,
		},
		"$setOnInsert": bson.M{
			"_id":                 primitive.NewObjectID().Hex(),
			"userId":              userID,
			"defaultSlotDuration": schedule.DefaultSlotMinutes,
			"createdAt":           now,
		},
	}
	_, err = cols.Doctors.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
