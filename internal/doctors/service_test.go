package doctors

import (
	"context"
	"errors"
	"testing"
	"time"

	"aura-backend/internal/schedule"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items map[string]Doctor
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Doctor)}
}

func (f *fakeRepo) Create(ctx context.Context, doctor Doctor) error {
	f.items[doctor.ID] = doctor
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Doctor, error) {
	doctor, ok := f.items[id]
	if !ok {
		return Doctor{}, mongo.ErrNoDocuments
	}
	return doctor, nil
}

func (f *fakeRepo) GetByUserID(ctx context.Context, userID string) (Doctor, error) {
	for _, doctor := range f.items {
		if doctor.UserID == userID {
			return doctor, nil
		}
	}
	return Doctor{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) List(ctx context.Context, limit, offset int64) ([]Doctor, error) {
	out := make([]Doctor, 0, len(f.items))
	for _, doctor := range f.items {
		out = append(out, doctor)
	}
	return out, nil
}

func (f *fakeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (Doctor, error) {
	doctor, ok := f.items[id]
	if !ok {
		return Doctor{}, mongo.ErrNoDocuments
	}
	doctor.FirstName = req.FirstName
	doctor.LastName = req.LastName
	doctor.UpdatedAt = now
	f.items[id] = doctor
	return doctor, nil
}

func (f *fakeRepo) SetAvailability(ctx context.Context, id string, windows []schedule.AvailabilityWindow, now time.Time) (Doctor, error) {
	doctor, ok := f.items[id]
	if !ok {
		return Doctor{}, mongo.ErrNoDocuments
	}
	doctor.Availability = windows
	doctor.UpdatedAt = now
	f.items[id] = doctor
	return doctor, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.items, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	repo := newFakeRepo()
	repo.items["doc-1"] = Doctor{ID: "doc-1", UserID: "user-1", FirstName: "A", LastName: "B"}
	return NewService(repo, loc), repo
}

func TestSetAvailabilityAcceptsValidWindows(t *testing.T) {
	svc, _ := newTestService(t)

	windows := []schedule.AvailabilityWindow{
		{Weekday: "Monday", StartTime: "09:00", EndTime: "12:00", Fee: 500},
		{Weekday: "Wednesday", StartTime: "14:00", EndTime: "17:00", Fee: 500},
	}
	doctor, err := svc.SetAvailability(context.Background(), "doc-1", windows)
	if err != nil {
		t.Fatalf("set availability: %v", err)
	}
	if len(doctor.Availability) != 2 {
		t.Fatalf("len(availability) = %d, want 2", len(doctor.Availability))
	}
}

func TestSetAvailabilityRejectsReversedWindow(t *testing.T) {
	svc, repo := newTestService(t)

	windows := []schedule.AvailabilityWindow{
		{Weekday: "Monday", StartTime: "12:00", EndTime: "09:00", Fee: 500},
	}
	_, err := svc.SetAvailability(context.Background(), "doc-1", windows)
	if !errors.Is(err, schedule.ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
	if len(repo.items["doc-1"].Availability) != 0 {
		t.Fatalf("availability must stay unchanged after a rejected update")
	}
}

func TestSetAvailabilityRejectsDuplicateWeekday(t *testing.T) {
	svc, _ := newTestService(t)

	windows := []schedule.AvailabilityWindow{
		{Weekday: "Monday", StartTime: "09:00", EndTime: "12:00", Fee: 500},
		{Weekday: "Monday", StartTime: "14:00", EndTime: "17:00", Fee: 500},
	}
	_, err := svc.SetAvailability(context.Background(), "doc-1", windows)
	if !errors.Is(err, ErrDuplicateWeekday) {
		t.Fatalf("err = %v, want ErrDuplicateWeekday", err)
	}
}

func TestSetAvailabilityUnknownDoctor(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SetAvailability(context.Background(), "missing", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
