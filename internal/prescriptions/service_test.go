package prescriptions

import (
	"context"
	"testing"
	"time"

	"aura-backend/internal/validation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items map[string]Prescription
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Prescription)}
}

func (f *fakeRepo) Create(ctx context.Context, presc Prescription) error {
	f.items[presc.ID] = presc
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Prescription, error) {
	presc, ok := f.items[id]
	if !ok {
		return Prescription{}, mongo.ErrNoDocuments
	}
	return presc, nil
}

func (f *fakeRepo) List(ctx context.Context, query bson.M, limit, offset int64) ([]Prescription, error) {
	out := make([]Prescription, 0, len(f.items))
	for _, presc := range f.items {
		out = append(out, presc)
	}
	return out, nil
}

func (f *fakeRepo) Count(ctx context.Context, query bson.M) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (Prescription, error) {
	presc, ok := f.items[id]
	if !ok {
		return Prescription{}, mongo.ErrNoDocuments
	}
	presc.Medications = req.Medications
	presc.TotalAmount = req.TotalAmount
	presc.IssueDate = req.IssueDate
	presc.ExpiryDate = req.ExpiryDate
	presc.Notes = req.Notes
	presc.UpdatedAt = now
	f.items[id] = presc
	return presc, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.items, id)
	return nil
}

func sampleCreate() CreateRequest {
	return CreateRequest{
		DoctorID:  "doc-1",
		PatientID: "pat-1",
		Medications: []Medication{
			{Name: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", DurationDays: 7},
		},
		TotalAmount: 1200,
		IssueDate:   "2025-07-30",
		ExpiryDate:  "2025-08-29",
		Notes:       "Take with food.",
	}
}

func TestCreateCarriesBillingAndDates(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)

	presc, err := svc.Create(context.Background(), sampleCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if presc.TotalAmount != 1200 {
		t.Fatalf("totalAmount = %v, want 1200", presc.TotalAmount)
	}
	if presc.IssueDate != "2025-07-30" || presc.ExpiryDate != "2025-08-29" {
		t.Fatalf("dates = %s/%s, want 2025-07-30/2025-08-29", presc.IssueDate, presc.ExpiryDate)
	}

	stored, err := repo.GetByID(context.Background(), presc.ID)
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if stored.IssueDate != presc.IssueDate || stored.TotalAmount != presc.TotalAmount {
		t.Fatalf("stored = %+v, want fields from %+v", stored, presc)
	}
}

func TestCreateRequestRejectsBadDates(t *testing.T) {
	val := validation.New()

	req := sampleCreate()
	if err := val.Struct(req); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	req.IssueDate = "30-07-2025"
	if err := val.Struct(req); err == nil {
		t.Fatal("issueDate 30-07-2025 accepted, want validation error")
	}

	req = sampleCreate()
	req.ExpiryDate = ""
	if err := val.Struct(req); err == nil {
		t.Fatal("empty expiryDate accepted, want validation error")
	}
}
