package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"aura-backend/internal/appointments"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items map[string]Payment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Payment)}
}

func (f *fakeRepo) Create(ctx context.Context, payment Payment) error {
	f.items[payment.ID] = payment
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Payment, error) {
	payment, ok := f.items[id]
	if !ok {
		return Payment{}, mongo.ErrNoDocuments
	}
	return payment, nil
}

func (f *fakeRepo) GetByTransactionID(ctx context.Context, transactionID string) (Payment, error) {
	for _, payment := range f.items {
		if payment.TransactionID == transactionID {
			return payment, nil
		}
	}
	return Payment{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) List(ctx context.Context, query bson.M, limit, offset int64) ([]Payment, error) {
	out := make([]Payment, 0, len(f.items))
	for _, payment := range f.items {
		out = append(out, payment)
	}
	return out, nil
}

func (f *fakeRepo) Count(ctx context.Context, query bson.M) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeRepo) SetTransactionID(ctx context.Context, id, transactionID string, now time.Time) error {
	payment, ok := f.items[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	payment.TransactionID = transactionID
	payment.UpdatedAt = now
	f.items[id] = payment
	return nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id string, status Status, now time.Time) (Payment, error) {
	payment, ok := f.items[id]
	if !ok {
		return Payment{}, mongo.ErrNoDocuments
	}
	payment.Status = status
	payment.UpdatedAt = now
	f.items[id] = payment
	return payment, nil
}

type fakeAppointments struct {
	appt      appointments.Appointment
	confirmed []string
}

func (f *fakeAppointments) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	if id != f.appt.ID {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return f.appt, nil
}

func (f *fakeAppointments) ConfirmByID(ctx context.Context, id string) (appointments.Appointment, error) {
	if id != f.appt.ID {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	f.confirmed = append(f.confirmed, id)
	f.appt.Status = appointments.StatusConfirmed
	return f.appt, nil
}

type fakeGateway struct {
	session CheckoutSession
	event   WebhookEvent
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (CheckoutSession, error) {
	return f.session, nil
}

func (f *fakeGateway) ParseWebhook(payload []byte, signature string) (WebhookEvent, error) {
	return f.event, nil
}

func newTestService(t *testing.T, repo *fakeRepo, appts *fakeAppointments, gw *fakeGateway) *Service {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return NewService(repo, appts, gw, "kes", loc)
}

func testAppointment() appointments.Appointment {
	return appointments.Appointment{
		ID:              "appt-1",
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		AppointmentDate: "2025-07-30",
		StartTime:       "09:00",
		Fee:             500,
		Status:          appointments.StatusPending,
	}
}

func TestCheckoutStripeReturnsRedirect(t *testing.T) {
	repo := newFakeRepo()
	appts := &fakeAppointments{appt: testAppointment()}
	gw := &fakeGateway{session: CheckoutSession{ID: "cs_123", URL: "https://checkout.example/cs_123"}}
	svc := newTestService(t, repo, appts, gw)

	resp, err := svc.Checkout(context.Background(), CheckoutRequest{AppointmentID: "appt-1", Method: "stripe"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if resp.URL != "https://checkout.example/cs_123" {
		t.Fatalf("url = %q", resp.URL)
	}
	if resp.Payment.Status != StatusPending {
		t.Fatalf("status = %q, want pending", resp.Payment.Status)
	}
	if resp.Payment.Amount != 500 {
		t.Fatalf("amount = %v, want appointment fee 500", resp.Payment.Amount)
	}
	if resp.Payment.TransactionID != "cs_123" {
		t.Fatalf("transactionId = %q, want cs_123", resp.Payment.TransactionID)
	}
}

func TestCheckoutCashHasNoRedirect(t *testing.T) {
	repo := newFakeRepo()
	appts := &fakeAppointments{appt: testAppointment()}
	svc := newTestService(t, repo, appts, &fakeGateway{})

	resp, err := svc.Checkout(context.Background(), CheckoutRequest{AppointmentID: "appt-1", Method: "cash"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if resp.URL != "" {
		t.Fatalf("url = %q, want empty for cash", resp.URL)
	}
	if resp.Payment.Method != MethodCash {
		t.Fatalf("method = %q, want cash", resp.Payment.Method)
	}
}

func TestCheckoutUnknownAppointment(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), &fakeAppointments{appt: testAppointment()}, &fakeGateway{})

	_, err := svc.Checkout(context.Background(), CheckoutRequest{AppointmentID: "missing", Method: "cash"})
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("err = %v, want ErrAppointmentNotFound", err)
	}
}

func TestWebhookCompletesPaymentAndConfirmsAppointment(t *testing.T) {
	repo := newFakeRepo()
	appts := &fakeAppointments{appt: testAppointment()}
	gw := &fakeGateway{session: CheckoutSession{ID: "cs_123", URL: "https://checkout.example/cs_123"}}
	svc := newTestService(t, repo, appts, gw)

	resp, err := svc.Checkout(context.Background(), CheckoutRequest{AppointmentID: "appt-1", Method: "stripe"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	gw.event = WebhookEvent{Completed: true, SessionID: "cs_123", PaymentID: resp.Payment.ID}
	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	settled, err := svc.GetByID(context.Background(), resp.Payment.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if settled.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", settled.Status)
	}
	if len(appts.confirmed) != 1 || appts.confirmed[0] != "appt-1" {
		t.Fatalf("confirmed = %v, want [appt-1]", appts.confirmed)
	}

	// A replayed event must not confirm twice.
	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("webhook replay: %v", err)
	}
	if len(appts.confirmed) != 1 {
		t.Fatalf("confirmed = %v after replay, want single entry", appts.confirmed)
	}
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	repo := newFakeRepo()
	appts := &fakeAppointments{appt: testAppointment()}
	gw := &fakeGateway{event: WebhookEvent{Completed: false}}
	svc := newTestService(t, repo, appts, gw)

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if len(appts.confirmed) != 0 {
		t.Fatalf("confirmed = %v, want none", appts.confirmed)
	}
}

func TestUpdateStatusSettlesCash(t *testing.T) {
	repo := newFakeRepo()
	appts := &fakeAppointments{appt: testAppointment()}
	svc := newTestService(t, repo, appts, &fakeGateway{})

	resp, err := svc.Checkout(context.Background(), CheckoutRequest{AppointmentID: "appt-1", Method: "cash"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	settled, err := svc.UpdateStatus(context.Background(), resp.Payment.ID, "completed")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if settled.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", settled.Status)
	}
	if len(appts.confirmed) != 1 {
		t.Fatalf("confirmed = %v, want [appt-1]", appts.confirmed)
	}

	if _, err := svc.UpdateStatus(context.Background(), resp.Payment.ID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}
