package doctors

import (
	"context"
	"errors"
	"strings"
	"time"

	"aura-backend/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound          = errors.New("doctor not found")
	ErrUserAlreadyLinked = errors.New("user already linked to a doctor")
	ErrDuplicateWeekday  = errors.New("duplicate weekday in availability")
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

func (s *Service) Create(ctx context.Context, req CreateRequest) (Doctor, error) {
	now := time.Now().In(s.location)
	doctor := Doctor{
		ID:                  primitive.NewObjectID().Hex(),
		UserID:              strings.TrimSpace(req.UserID),
		FirstName:           strings.TrimSpace(req.FirstName),
		LastName:            strings.TrimSpace(req.LastName),
		Specialization:      strings.TrimSpace(req.Specialization),
		ContactPhone:        strings.TrimSpace(req.ContactPhone),
		IsAvailable:         req.IsAvailable,
		DefaultSlotDuration: schedule.DefaultSlotMinutes,
		Availability:        []schedule.AvailabilityWindow{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Doctor{}, ErrUserAlreadyLinked
		}
		return Doctor{}, err
	}
	return doctor, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Doctor, error) {
	doctor, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Doctor{}, ErrNotFound
		}
		return Doctor{}, err
	}
	return doctor, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (Doctor, error) {
	doctor, err := s.repo.GetByUserID(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Doctor{}, ErrNotFound
		}
		return Doctor{}, err
	}
	return doctor, nil
}

func (s *Service) List(ctx context.Context, limit, offset int64) ([]Doctor, int64, error) {
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

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Doctor, error) {
	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), req, time.Now().In(s.location))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Doctor{}, ErrNotFound
		}
		return Doctor{}, err
	}
	return updated, nil
}

// SetAvailability replaces the doctor's weekly windows. Each window is
// validated through the planner and a weekday may appear only once, so
// WindowForDate never has to disambiguate.
func (s *Service) SetAvailability(ctx context.Context, id string, windows []schedule.AvailabilityWindow) (Doctor, error) {
	seen := make(map[string]bool, len(windows))
	for _, window := range windows {
		if err := schedule.ValidateWindow(window); err != nil {
			return Doctor{}, err
		}
		if seen[window.Weekday] {
			return Doctor{}, ErrDuplicateWeekday
		}
		seen[window.Weekday] = true
	}

	updated, err := s.repo.SetAvailability(ctx, strings.TrimSpace(id), windows, time.Now().In(s.location))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Doctor{}, ErrNotFound
		}
		return Doctor{}, err
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
