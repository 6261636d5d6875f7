package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"aura-backend/internal/auth"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	byEmail map[string]User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: make(map[string]User)}
}

func (f *fakeRepo) Create(ctx context.Context, user User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return User{}, mongo.ErrNoDocuments
	}
	return user, nil
}

func (f *fakeRepo) List(ctx context.Context, limit, offset int64) ([]User, error) {
	out := make([]User, 0, len(f.byEmail))
	for _, user := range f.byEmail {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.byEmail)), nil
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest, now time.Time) (User, error) {
	for email, user := range f.byEmail {
		if user.ID == id {
			user.FirstName = req.FirstName
			user.LastName = req.LastName
			user.UpdatedAt = now
			f.byEmail[email] = user
			return user, nil
		}
	}
	return User{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) error {
	for email, user := range f.byEmail {
		if user.ID == id {
			user.PasswordHash = passwordHash
			user.UpdatedAt = now
			f.byEmail[email] = user
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func seedAccount(t *testing.T, repo *fakeRepo, email, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo.byEmail[email] = User{
		ID:           "user-1",
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RolePatient,
	}
}

func TestLoginIssuesToken(t *testing.T) {
	repo := newFakeRepo()
	seedAccount(t, repo, "amina@example.com", "correct-horse")

	manager := &auth.Manager{Secret: []byte("test-secret"), AccessTTL: time.Hour, Issuer: "aura-backend"}
	svc := NewService(repo, manager, time.UTC, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Amina@Example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("token is empty")
	}
	if resp.User.ID != "user-1" {
		t.Fatalf("user id = %q, want user-1", resp.User.ID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newFakeRepo()
	seedAccount(t, repo, "amina@example.com", "correct-horse")

	manager := &auth.Manager{Secret: []byte("test-secret"), AccessTTL: time.Hour, Issuer: "aura-backend"}
	svc := NewService(repo, manager, time.UTC, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "amina@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

// A deployment without JWT_SECRET has no token manager; login must fail
// cleanly instead of dereferencing it.
func TestLoginWithoutTokenManager(t *testing.T) {
	repo := newFakeRepo()
	seedAccount(t, repo, "amina@example.com", "correct-horse")

	svc := NewService(repo, nil, time.UTC, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "amina@example.com", Password: "correct-horse"})
	if !errors.Is(err, ErrAuthNotConfigured) {
		t.Fatalf("err = %v, want ErrAuthNotConfigured", err)
	}
}
