package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"aura-backend/internal/cache"
	"aura-backend/internal/doctors"
	"aura-backend/internal/schedule"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items         map[string]Appointment
	rescheduleErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Appointment)}
}

func (f *fakeRepo) Create(ctx context.Context, appt Appointment) error {
	for _, existing := range f.items {
		if existing.DoctorID == appt.DoctorID &&
			existing.AppointmentDate == appt.AppointmentDate &&
			existing.StartTime == appt.StartTime {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
	}
	f.items[appt.ID] = appt
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Appointment, error) {
	appt, ok := f.items[id]
	if !ok {
		return Appointment{}, mongo.ErrNoDocuments
	}
	return appt, nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Appointment, error) {
	out := make([]Appointment, 0)
	for _, appt := range f.items {
		if filter.DoctorID != "" && appt.DoctorID != filter.DoctorID {
			continue
		}
		if filter.PatientID != "" && appt.PatientID != filter.PatientID {
			continue
		}
		if filter.Status != "" && string(appt.Status) != filter.Status {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}

func (f *fakeRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	items, _ := f.List(ctx, filter, 0, 0)
	return int64(len(items)), nil
}

func (f *fakeRepo) BookedStartTimes(ctx context.Context, doctorID, date string) (map[string]bool, error) {
	reserved := make(map[string]bool)
	for _, appt := range f.items {
		if appt.DoctorID == doctorID && appt.AppointmentDate == date && appt.Status != StatusCanceled {
			reserved[appt.StartTime] = true
		}
	}
	return reserved, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id string, status Status, now time.Time) (Appointment, error) {
	appt, ok := f.items[id]
	if !ok {
		return Appointment{}, mongo.ErrNoDocuments
	}
	appt.Status = status
	appt.UpdatedAt = now
	f.items[id] = appt
	return appt, nil
}

func (f *fakeRepo) Reschedule(ctx context.Context, id, date, startTime, endTime string, fee float64, now time.Time) (Appointment, error) {
	if f.rescheduleErr != nil {
		return Appointment{}, f.rescheduleErr
	}
	appt, ok := f.items[id]
	if !ok {
		return Appointment{}, mongo.ErrNoDocuments
	}
	appt.AppointmentDate = date
	appt.StartTime = startTime
	appt.EndTime = endTime
	appt.Fee = fee
	appt.Status = StatusRescheduled
	appt.UpdatedAt = now
	f.items[id] = appt
	return appt, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.items, id)
	return nil
}

type fakeDirectory struct {
	doctor doctors.Doctor
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (doctors.Doctor, error) {
	if id != f.doctor.ID {
		return doctors.Doctor{}, doctors.ErrNotFound
	}
	return f.doctor, nil
}

func mustLoadLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

// testDoctor offers Wednesdays 09:00 to 10:00 at fee 500 with 30 minute slots.
func testDoctor() doctors.Doctor {
	return doctors.Doctor{
		ID:                  "doc-1",
		UserID:              "user-doc-1",
		IsAvailable:         true,
		DefaultSlotDuration: 30,
		Availability: []schedule.AvailabilityWindow{
			{Weekday: "Wednesday", StartTime: "09:00", EndTime: "10:00", Fee: 500},
		},
	}
}

func newTestService(t *testing.T, repo *fakeRepo, doctor doctors.Doctor) *Service {
	t.Helper()
	loc := mustLoadLoc(t)
	svc := NewService(repo, &fakeDirectory{doctor: doctor}, cache.NewNoop(), nil, loc, time.Minute)
	svc.now = func() time.Time {
		return time.Date(2025, 7, 1, 12, 0, 0, 0, loc)
	}
	return svc
}

func TestCreateBooksPendingSlot(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, testDoctor())

	appt, err := svc.Create(context.Background(), CreateRequest{
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		AppointmentDate: "2025-07-30",
		StartTime:       "09:30",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if appt.Status != StatusPending {
		t.Fatalf("status = %q, want %q", appt.Status, StatusPending)
	}
	if appt.EndTime != "10:00" {
		t.Fatalf("endTime = %q, want 10:00", appt.EndTime)
	}
	if appt.Fee != 500 {
		t.Fatalf("fee = %v, want 500", appt.Fee)
	}
}

func TestCreateRejectsUnofferedTime(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), testDoctor())

	_, err := svc.Create(context.Background(), CreateRequest{
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		AppointmentDate: "2025-07-30",
		StartTime:       "09:15",
	})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("err = %v, want ErrSlotUnavailable", err)
	}
}

func TestCreateRejectsNonBookableDay(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), testDoctor())

	// 2025-07-31 is a Thursday; the doctor only works Wednesdays.
	_, err := svc.Create(context.Background(), CreateRequest{
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		AppointmentDate: "2025-07-31",
		StartTime:       "09:00",
	})
	if !errors.Is(err, ErrDateNotBookable) {
		t.Fatalf("err = %v, want ErrDateNotBookable", err)
	}
}

func TestCreateRejectsPastDate(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), testDoctor())

	_, err := svc.Create(context.Background(), CreateRequest{
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		AppointmentDate: "2025-06-25",
		StartTime:       "09:00",
	})
	if !errors.Is(err, ErrDateInPast) {
		t.Fatalf("err = %v, want ErrDateInPast", err)
	}
}

func TestCreateRejectsTakenSlot(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, testDoctor())

	first := CreateRequest{
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		AppointmentDate: "2025-07-30",
		StartTime:       "09:00",
	}
	if _, err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := first
	second.PatientID = "pat-2"
	_, err := svc.Create(context.Background(), second)
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
}

func TestCreateRejectsUnavailableDoctor(t *testing.T) {
	doctor := testDoctor()
	doctor.IsAvailable = false
	svc := newTestService(t, newFakeRepo(), doctor)

	_, err := svc.Create(context.Background(), CreateRequest{
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		AppointmentDate: "2025-07-30",
		StartTime:       "09:00",
	})
	if !errors.Is(err, ErrDoctorUnavailable) {
		t.Fatalf("err = %v, want ErrDoctorUnavailable", err)
	}
}

func TestAvailableSlotsFiltersReserved(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, testDoctor())

	if _, err := svc.Create(context.Background(), CreateRequest{
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		AppointmentDate: "2025-07-30",
		StartTime:       "09:00",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	slots, err := svc.AvailableSlots(context.Background(), "doc-1", "2025-07-30")
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("len(slots) = %d, want 1", len(slots))
	}
	if slots[0].StartTime != "09:30" {
		t.Fatalf("remaining slot = %q, want 09:30", slots[0].StartTime)
	}
}

func TestAvailableSlotsEmptyForOffDay(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), testDoctor())

	slots, err := svc.AvailableSlots(context.Background(), "doc-1", "2025-07-31")
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if slots == nil || len(slots) != 0 {
		t.Fatalf("slots = %v, want empty non-nil", slots)
	}
}

func TestCanceledSlotBecomesBookableAgain(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, testDoctor())

	appt, err := svc.Create(context.Background(), CreateRequest{
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		AppointmentDate: "2025-07-30",
		StartTime:       "09:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), appt.ID, "canceled"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	slots, err := svc.AvailableSlots(context.Background(), "doc-1", "2025-07-30")
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("len(slots) = %d, want 2 after cancel", len(slots))
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), testDoctor())

	_, err := svc.UpdateStatus(context.Background(), "any", "Scheduled")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestRescheduleRevalidatesAndMarks(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, testDoctor())

	appt, err := svc.Create(context.Background(), CreateRequest{
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		AppointmentDate: "2025-07-30",
		StartTime:       "09:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	moved, err := svc.Reschedule(context.Background(), appt.ID, RescheduleRequest{
		AppointmentDate: "2025-08-06",
		StartTime:       "09:30",
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if moved.Status != StatusRescheduled {
		t.Fatalf("status = %q, want %q", moved.Status, StatusRescheduled)
	}
	if moved.AppointmentDate != "2025-08-06" || moved.StartTime != "09:30" {
		t.Fatalf("moved to %s %s, want 2025-08-06 09:30", moved.AppointmentDate, moved.StartTime)
	}

	// Rescheduling onto a non-working day fails and leaves the record alone.
	if _, err := svc.Reschedule(context.Background(), appt.ID, RescheduleRequest{
		AppointmentDate: "2025-08-07",
		StartTime:       "09:00",
	}); !errors.Is(err, ErrDateNotBookable) {
		t.Fatalf("err = %v, want ErrDateNotBookable", err)
	}
}

// A competing booking can take the target slot after the availability check
// passes; the unique index then rejects the update and the caller must see a
// slot conflict, not an internal error.
func TestRescheduleMapsDuplicateKeyToSlotTaken(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, testDoctor())

	appt, err := svc.Create(context.Background(), CreateRequest{
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		AppointmentDate: "2025-07-30",
		StartTime:       "09:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	repo.rescheduleErr = mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	_, err = svc.Reschedule(context.Background(), appt.ID, RescheduleRequest{
		AppointmentDate: "2025-08-06",
		StartTime:       "09:30",
	})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
}

func TestBadgeForUnknownStatus(t *testing.T) {
	badge := BadgeFor(Status("archived"))
	if badge.Label != "Unknown" || badge.Color != "gray" {
		t.Fatalf("badge = %+v, want Unknown/gray", badge)
	}
}

func TestBadgeForKnownStatuses(t *testing.T) {
	cases := map[Status]string{
		StatusPending:     "Pending",
		StatusConfirmed:   "Confirmed",
		StatusCompleted:   "Completed",
		StatusCanceled:    "Canceled",
		StatusRescheduled: "Rescheduled",
	}
	for status, label := range cases {
		if got := BadgeFor(status).Label; got != label {
			t.Errorf("BadgeFor(%q).Label = %q, want %q", status, got, label)
		}
	}
}
