package patients

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("patient not found")

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

// RegisterPatientProfile creates the patient record that backs a newly
// registered patient account. Called by the users service on signup.
func (s *Service) RegisterPatientProfile(ctx context.Context, userID, firstName, lastName, contactPhone string) error {
	now := time.Now().In(s.location)
	return s.repo.Create(ctx, Patient{
		ID:           primitive.NewObjectID().Hex(),
		UserID:       userID,
		FirstName:    firstName,
		LastName:     lastName,
		ContactPhone: contactPhone,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	patient, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Patient{}, ErrNotFound
		}
		return Patient{}, err
	}
	return patient, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (Patient, error) {
	patient, err := s.repo.GetByUserID(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Patient{}, ErrNotFound
		}
		return Patient{}, err
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context, limit, offset int64) ([]Patient, int64, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Patient, error) {
	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), req, time.Now().In(s.location))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Patient{}, ErrNotFound
		}
		return Patient{}, err
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
