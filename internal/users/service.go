package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"aura-backend/internal/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is wrong")
	ErrAuthNotConfigured  = errors.New("auth not configured")
)

// ProfileRegistrar creates the role-specific profile record (patient or
// doctor) that the dashboards look up by user id.
type ProfileRegistrar interface {
	RegisterPatientProfile(ctx context.Context, userID, firstName, lastName, contactPhone string) error
}

type Service struct {
	repo      Repository
	tokens    *auth.Manager
	location  *time.Location
	registrar ProfileRegistrar
}

func NewService(repo Repository, tokens *auth.Manager, location *time.Location, registrar ProfileRegistrar) *Service {
	return &Service{
		repo:      repo,
		tokens:    tokens,
		location:  location,
		registrar: registrar,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, error) {
	role := auth.RolePatient
	if req.Role != "" {
		parsed, ok := auth.ParseRole(req.Role)
		if !ok {
			return User{}, ErrInvalidCredentials
		}
		role = parsed
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return User{}, err
	}

	now := time.Now().In(s.location)
	user := User{
		ID:           primitive.NewObjectID().Hex(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		Address:      strings.TrimSpace(req.Address),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}

	if role == auth.RolePatient && s.registrar != nil {
		if err := s.registrar.RegisterPatientProfile(ctx, user.ID, user.FirstName, user.LastName, user.ContactPhone); err != nil {
			return User{}, err
		}
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	// Registration works without a token manager, login cannot.
	if s.tokens == nil {
		return LoginResponse{}, ErrAuthNotConfigured
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return LoginResponse{}, ErrInvalidCredentials
		}
		return LoginResponse{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.NewAccessToken(user.ID, string(user.Role))
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{Token: token, User: user}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	user, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, limit, offset int64) ([]User, int64, error) {
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

func (s *Service) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (User, error) {
	updated, err := s.repo.UpdateProfile(ctx, strings.TrimSpace(id), req, time.Now().In(s.location))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return updated, nil
}

func (s *Service) ChangePassword(ctx context.Context, id string, req ChangePasswordRequest) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := auth.ComparePassword(user.PasswordHash, req.CurrentPassword); err != nil {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, id, hash, time.Now().In(s.location)); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
