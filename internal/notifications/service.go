package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aura-backend/internal/appointments"
	"aura-backend/internal/doctors"
	"aura-backend/internal/patients"
	"aura-backend/internal/users"
)

type UserDirectory interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

type PatientDirectory interface {
	GetByID(ctx context.Context, id string) (patients.Patient, error)
}

type DoctorDirectory interface {
	GetByID(ctx context.Context, id string) (doctors.Doctor, error)
}

// Service resolves appointment ids into recipient emails and sends booking
// mail through Brevo. It satisfies the appointment service's Notifier
// interface; with a nil client every call is a logged no-op.
type Service struct {
	client   *BrevoClient
	users    UserDirectory
	patients PatientDirectory
	doctors  DoctorDirectory
	log      *slog.Logger
}

func NewService(client *BrevoClient, userDir UserDirectory, patientDir PatientDirectory, doctorDir DoctorDirectory, log *slog.Logger) *Service {
	return &Service{
		client:   client,
		users:    userDir,
		patients: patientDir,
		doctors:  doctorDir,
		log:      log,
	}
}

func (s *Service) AppointmentBooked(appt appointments.Appointment) {
	s.send(appt, "Your appointment request has been received.", "Appointment request received")
}

func (s *Service) AppointmentStatusChanged(appt appointments.Appointment) {
	badge := appointments.BadgeFor(appt.Status)
	s.send(appt,
		fmt.Sprintf("Your appointment is now %s.", badge.Label),
		fmt.Sprintf("Appointment %s", badge.Label))
}

func (s *Service) send(appt appointments.Appointment, headline, subject string) {
	if s.client == nil {
		s.log.Debug("notifications: email disabled, skipping", slog.String("appointment_id", appt.ID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	patient, err := s.patients.GetByID(ctx, appt.PatientID)
	if err != nil {
		s.log.Warn("notifications: patient lookup failed",
			slog.String("appointment_id", appt.ID), slog.String("error", err.Error()))
		return
	}
	account, err := s.users.GetByID(ctx, patient.UserID)
	if err != nil {
		s.log.Warn("notifications: user lookup failed",
			slog.String("appointment_id", appt.ID), slog.String("error", err.Error()))
		return
	}

	doctorName := "your doctor"
	if doctor, err := s.doctors.GetByID(ctx, appt.DoctorID); err == nil {
		doctorName = fmt.Sprintf("Dr. %s %s", doctor.FirstName, doctor.LastName)
	}

	html, err := buildAppointmentEmailHTML(appointmentEmailData{
		PatientName:   patient.FirstName + " " + patient.LastName,
		Headline:      headline,
		DoctorName:    doctorName,
		Date:          appt.AppointmentDate,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
		Fee:           appt.Fee,
		StatusLabel:   appointments.BadgeFor(appt.Status).Label,
		AppointmentID: appt.ID,
	})
	if err != nil {
		s.log.Error("notifications: build email failed", slog.String("error", err.Error()))
		return
	}

	messageID, err := s.client.SendHTML(ctx, account.Email, patient.FirstName, subject, html)
	if err != nil {
		s.log.Warn("notifications: send failed",
			slog.String("appointment_id", appt.ID), slog.String("error", err.Error()))
		return
	}
	s.log.Info("notifications: sent",
		slog.String("appointment_id", appt.ID), slog.String("message_id", messageID))
}
