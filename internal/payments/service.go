package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aura-backend/internal/appointments"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound            = errors.New("payment not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidStatus       = errors.New("invalid payment status")
)

// Appointments is the slice of the appointment service the payment flow
// needs: fee lookup at checkout and confirmation after a completed charge.
type Appointments interface {
	GetByID(ctx context.Context, id string) (appointments.Appointment, error)
	ConfirmByID(ctx context.Context, id string) (appointments.Appointment, error)
}

type Service struct {
	repo         Repository
	appointments Appointments
	gateway      Gateway
	currency     string
	location     *time.Location
}

func NewService(repo Repository, appts Appointments, gateway Gateway, currency string, location *time.Location) *Service {
	return &Service{
		repo:         repo,
		appointments: appts,
		gateway:      gateway,
		currency:     currency,
		location:     location,
	}
}

// Checkout records a pending payment for the appointment fee. Stripe
// payments get a hosted checkout URL to redirect to; cash payments stay
// pending until an admin settles them.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error) {
	appt, err := s.appointments.GetByID(ctx, strings.TrimSpace(req.AppointmentID))
	if err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			return CheckoutResponse{}, ErrAppointmentNotFound
		}
		return CheckoutResponse{}, err
	}

	now := time.Now().In(s.location)
	payment := Payment{
		ID:            primitive.NewObjectID().Hex(),
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		Amount:        appt.Fee,
		Currency:      s.currency,
		Method:        Method(req.Method),
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return CheckoutResponse{}, err
	}

	if payment.Method == MethodCash {
		return CheckoutResponse{Payment: payment}, nil
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, CheckoutParams{
		PaymentID:     payment.ID,
		AppointmentID: appt.ID,
		Description:   fmt.Sprintf("Appointment on %s at %s", appt.AppointmentDate, appt.StartTime),
		Amount:        appt.Fee,
		Currency:      s.currency,
	})
	if err != nil {
		return CheckoutResponse{}, err
	}

	if err := s.repo.SetTransactionID(ctx, payment.ID, sess.ID, time.Now().In(s.location)); err != nil {
		return CheckoutResponse{}, err
	}
	payment.TransactionID = sess.ID

	return CheckoutResponse{Payment: payment, URL: sess.URL}, nil
}

// HandleWebhook settles the payment named by a completed checkout session
// and confirms its appointment.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	if !event.Completed {
		return nil
	}

	payment, err := s.lookupWebhookPayment(ctx, event)
	if err != nil {
		return err
	}
	// Replayed events are acknowledged without a second confirmation.
	if payment.Status == StatusCompleted {
		return nil
	}

	if _, err := s.repo.UpdateStatus(ctx, payment.ID, StatusCompleted, time.Now().In(s.location)); err != nil {
		return err
	}
	if _, err := s.appointments.ConfirmByID(ctx, payment.AppointmentID); err != nil && !errors.Is(err, appointments.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) lookupWebhookPayment(ctx context.Context, event WebhookEvent) (Payment, error) {
	if event.PaymentID != "" {
		payment, err := s.repo.GetByID(ctx, event.PaymentID)
		if err == nil {
			return payment, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return Payment{}, err
		}
	}
	payment, err := s.repo.GetByTransactionID(ctx, event.SessionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}
	return payment, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Payment, error) {
	payment, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}
	return payment, nil
}

func (s *Service) List(ctx context.Context, limit, offset int64) ([]Payment, int64, error) {
	return s.listByQuery(ctx, bson.M{}, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int64) ([]Payment, int64, error) {
	return s.listByQuery(ctx, bson.M{"patientId": strings.TrimSpace(patientID)}, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID string, limit, offset int64) ([]Payment, int64, error) {
	return s.listByQuery(ctx, bson.M{"doctorId": strings.TrimSpace(doctorID)}, limit, offset)
}

func (s *Service) listByQuery(ctx context.Context, query bson.M, limit, offset int64) ([]Payment, int64, error) {
	items, err := s.repo.List(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateStatus is the admin path for settling cash payments and recording
// refunds. Completing a payment confirms its appointment just like the
// webhook does.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Payment, error) {
	parsed, ok := ParseStatus(status)
	if !ok {
		return Payment{}, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, strings.TrimSpace(id), parsed, time.Now().In(s.location))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}

	if parsed == StatusCompleted {
		if _, err := s.appointments.ConfirmByID(ctx, updated.AppointmentID); err != nil && !errors.Is(err, appointments.ErrNotFound) {
			return Payment{}, err
		}
	}
	return updated, nil
}
