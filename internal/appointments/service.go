package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"aura-backend/internal/cache"
	"aura-backend/internal/doctors"
	"aura-backend/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound          = errors.New("appointment not found")
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrDoctorUnavailable = errors.New("doctor is not accepting appointments")
	ErrDateInPast        = errors.New("appointment date is in the past")
	ErrDateNotBookable   = errors.New("doctor has no availability on that day")
	ErrSlotUnavailable   = errors.New("requested time is not an offered slot")
	ErrSlotTaken         = errors.New("slot already booked")
	ErrInvalidStatus     = errors.New("invalid appointment status")
)

// DoctorDirectory is the slice of the doctors service the booking flow needs.
type DoctorDirectory interface {
	GetByID(ctx context.Context, id string) (doctors.Doctor, error)
}

// Notifier receives booking events. Implementations send email; calls are
// fire-and-forget from a goroutine so a slow provider never delays a booking.
type Notifier interface {
	AppointmentBooked(appt Appointment)
	AppointmentStatusChanged(appt Appointment)
}

type Service struct {
	repo     Repository
	doctors  DoctorDirectory
	cache    cache.Cache
	notifier Notifier
	location *time.Location
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(repo Repository, directory DoctorDirectory, c cache.Cache, notifier Notifier, location *time.Location, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		doctors:  directory,
		cache:    c,
		notifier: notifier,
		location: location,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

func slotsCacheKey(doctorID, date string) string {
	return "slots:" + doctorID + ":" + date
}

// AvailableSlots runs the full planning pipeline for one doctor and date:
// weekday window lookup, slot enumeration, then removal of already booked
// start times. Results are cached per doctor and date.
func (s *Service) AvailableSlots(ctx context.Context, doctorID, date string) ([]schedule.Slot, error) {
	doctorID = strings.TrimSpace(doctorID)
	date = strings.TrimSpace(date)

	key := slotsCacheKey(doctorID, date)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var cached []schedule.Slot
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	slots, err := s.computeAvailableSlots(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(slots); err == nil {
		_ = s.cache.Set(ctx, key, data, s.cacheTTL)
	}
	return slots, nil
}

func (s *Service) computeAvailableSlots(ctx context.Context, doctorID, date string) ([]schedule.Slot, error) {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, doctors.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	past, err := schedule.IsDatePast(date, s.location, s.now())
	if err != nil {
		return nil, err
	}
	if past || !doctor.IsAvailable {
		return []schedule.Slot{}, nil
	}

	slots, err := schedule.SlotsForDate(date, doctor.Availability, s.slotDuration(doctor), s.location)
	if err != nil {
		return nil, err
	}

	reserved, err := s.repo.BookedStartTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	return schedule.FilterReserved(slots, reserved), nil
}

// Create books a slot. The requested start time must be one the planner
// generates for that date; bookings always enter the lifecycle as pending.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Appointment, error) {
	doctorID := strings.TrimSpace(req.DoctorID)
	date := strings.TrimSpace(req.AppointmentDate)

	slot, err := s.validateSlot(ctx, doctorID, date, req.StartTime)
	if err != nil {
		return Appointment{}, err
	}

	now := s.now().In(s.location)
	appt := Appointment{
		ID:              primitive.NewObjectID().Hex(),
		DoctorID:        doctorID,
		PatientID:       strings.TrimSpace(req.PatientID),
		AppointmentDate: date,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		Fee:             slot.Fee,
		Status:          StatusPending,
		Reason:          strings.TrimSpace(req.Reason),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		// The unique (doctorId, appointmentDate, startTime) index turns a
		// concurrent double-submit into a duplicate key error.
		if mongo.IsDuplicateKeyError(err) {
			return Appointment{}, ErrSlotTaken
		}
		return Appointment{}, err
	}

	s.invalidateSlots(doctorID, date)
	if s.notifier != nil {
		go s.notifier.AppointmentBooked(appt)
	}
	return appt, nil
}

// validateSlot runs booking validation and returns the matched slot with its
// fee taken from the weekday window.
func (s *Service) validateSlot(ctx context.Context, doctorID, date, startTime string) (schedule.Slot, error) {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, doctors.ErrNotFound) {
			return schedule.Slot{}, ErrDoctorNotFound
		}
		return schedule.Slot{}, err
	}
	if !doctor.IsAvailable {
		return schedule.Slot{}, ErrDoctorUnavailable
	}

	past, err := schedule.IsDatePast(date, s.location, s.now())
	if err != nil {
		return schedule.Slot{}, err
	}
	if past {
		return schedule.Slot{}, ErrDateInPast
	}

	window, err := schedule.WindowForDate(date, doctor.Availability, s.location)
	if err != nil {
		return schedule.Slot{}, err
	}
	if window == nil {
		return schedule.Slot{}, ErrDateNotBookable
	}

	slots, err := schedule.GenerateSlots(*window, s.slotDuration(doctor))
	if err != nil {
		return schedule.Slot{}, err
	}

	slot := schedule.FindSlot(slots, startTime)
	if slot == nil {
		return schedule.Slot{}, ErrSlotUnavailable
	}

	reserved, err := s.repo.BookedStartTimes(ctx, doctorID, date)
	if err != nil {
		return schedule.Slot{}, err
	}
	if reserved[slot.StartTime] {
		return schedule.Slot{}, ErrSlotTaken
	}

	return *slot, nil
}

func (s *Service) slotDuration(doctor doctors.Doctor) int {
	if doctor.DefaultSlotDuration > 0 {
		return doctor.DefaultSlotDuration
	}
	return schedule.DefaultSlotMinutes
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	appt, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Appointment{}, ErrNotFound
		}
		return Appointment{}, err
	}
	return appt, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Appointment, int64, error) {
	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Reschedule moves an appointment to a new validated slot and marks it
// rescheduled. Both the old and the new day's slot caches are flushed.
func (s *Service) Reschedule(ctx context.Context, id string, req RescheduleRequest) (Appointment, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	date := strings.TrimSpace(req.AppointmentDate)
	slot, err := s.validateSlot(ctx, current.DoctorID, date, req.StartTime)
	if err != nil {
		return Appointment{}, err
	}

	updated, err := s.repo.Reschedule(ctx, current.ID, date, slot.StartTime, slot.EndTime, slot.Fee, s.now().In(s.location))
	if err != nil {
		// A booking that lands between the availability check and the update
		// trips the unique index here, same as on Create.
		if mongo.IsDuplicateKeyError(err) {
			return Appointment{}, ErrSlotTaken
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Appointment{}, ErrNotFound
		}
		return Appointment{}, err
	}

	s.invalidateSlots(current.DoctorID, current.AppointmentDate)
	s.invalidateSlots(current.DoctorID, date)
	if s.notifier != nil {
		go s.notifier.AppointmentStatusChanged(updated)
	}
	return updated, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Appointment, error) {
	parsed, ok := ParseStatus(status)
	if !ok {
		return Appointment{}, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, strings.TrimSpace(id), parsed, s.now().In(s.location))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Appointment{}, ErrNotFound
		}
		return Appointment{}, err
	}

	// A canceled appointment releases its slot.
	if parsed == StatusCanceled {
		s.invalidateSlots(updated.DoctorID, updated.AppointmentDate)
	}
	if s.notifier != nil {
		go s.notifier.AppointmentStatusChanged(updated)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, appt.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateSlots(appt.DoctorID, appt.AppointmentDate)
	return nil
}

// ConfirmByID is the payment webhook's hook: it flips the appointment to
// confirmed once the gateway reports a completed payment.
func (s *Service) ConfirmByID(ctx context.Context, id string) (Appointment, error) {
	return s.UpdateStatus(ctx, id, string(StatusConfirmed))
}

func (s *Service) invalidateSlots(doctorID, date string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = s.cache.Delete(ctx, slotsCacheKey(doctorID, date))
}
