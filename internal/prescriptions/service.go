package prescriptions

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("prescription not found")

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Prescription, error) {
	now := time.Now().In(s.location)
	presc := Prescription{
		ID:            primitive.NewObjectID().Hex(),
		AppointmentID: strings.TrimSpace(req.AppointmentID),
		DoctorID:      strings.TrimSpace(req.DoctorID),
		PatientID:     strings.TrimSpace(req.PatientID),
		Medications:   req.Medications,
		TotalAmount:   req.TotalAmount,
		IssueDate:     strings.TrimSpace(req.IssueDate),
		ExpiryDate:    strings.TrimSpace(req.ExpiryDate),
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, presc); err != nil {
		return Prescription{}, err
	}
	return presc, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Prescription, error) {
	presc, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Prescription{}, ErrNotFound
		}
		return Prescription{}, err
	}
	return presc, nil
}

func (s *Service) List(ctx context.Context, limit, offset int64) ([]Prescription, int64, error) {
	return s.listByQuery(ctx, bson.M{}, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int64) ([]Prescription, int64, error) {
	return s.listByQuery(ctx, bson.M{"patientId": strings.TrimSpace(patientID)}, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID string, limit, offset int64) ([]Prescription, int64, error) {
	return s.listByQuery(ctx, bson.M{"doctorId": strings.TrimSpace(doctorID)}, limit, offset)
}

func (s *Service) listByQuery(ctx context.Context, query bson.M, limit, offset int64) ([]Prescription, int64, error) {
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

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Prescription, error) {
	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), req, time.Now().In(s.location))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Prescription{}, ErrNotFound
		}
		return Prescription{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
