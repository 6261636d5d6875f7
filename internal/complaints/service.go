package complaints

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("complaint not found")
	ErrInvalidStatus = errors.New("invalid complaint status")
)

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

func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (Complaint, error) {
	now := time.Now().In(s.location)
	complaint := Complaint{
		ID:            primitive.NewObjectID().Hex(),
		UserID:        strings.TrimSpace(userID),
		AppointmentID: strings.TrimSpace(req.AppointmentID),
		Subject:       strings.TrimSpace(req.Subject),
		Description:   strings.TrimSpace(req.Description),
		Status:        StatusOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, complaint); err != nil {
		return Complaint{}, err
	}
	return complaint, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Complaint, error) {
	complaint, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Complaint{}, ErrNotFound
		}
		return Complaint{}, err
	}
	return complaint, nil
}

func (s *Service) List(ctx context.Context, status string, limit, offset int64) ([]Complaint, int64, error) {
	query := bson.M{}
	if status != "" {
		query["status"] = status
	}
	return s.listByQuery(ctx, query, limit, offset)
}

func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int64) ([]Complaint, int64, error) {
	return s.listByQuery(ctx, bson.M{"userId": strings.TrimSpace(userID)}, limit, offset)
}

func (s *Service) listByQuery(ctx context.Context, query bson.M, limit, offset int64) ([]Complaint, int64, error) {
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

func (s *Service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (Complaint, error) {
	parsed, ok := ParseStatus(req.Status)
	if !ok {
		return Complaint{}, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, strings.TrimSpace(id), parsed, strings.TrimSpace(req.Resolution), time.Now().In(s.location))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Complaint{}, ErrNotFound
		}
		return Complaint{}, err
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
