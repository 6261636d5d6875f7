package users

import (
	"time"

	"aura-backend/internal/auth"
)

type User struct {
	ID             string    `bson:"_id,omitempty" json:"userId"`
	FirstName      string    `bson:"firstName" json:"firstName"`
	LastName       string    `bson:"lastName" json:"lastName"`
	Email          string    `bson:"email" json:"email"`
	PasswordHash   string    `bson:"passwordHash" json:"-"`
	Role           auth.Role `bson:"role" json:"role"`
	ContactPhone   string    `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	Address        string    `bson:"address,omitempty" json:"address,omitempty"`
	ProfilePicture string    `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

type RegisterRequest struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	ContactPhone string `json:"contactPhone" validate:"omitempty,phone"`
	Address      string `json:"address"`
	Role         string `json:"role" validate:"omitempty,oneof=admin doctor patient"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse mirrors what the dashboards expect from /auth/login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateProfileRequest struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	ContactPhone   string `json:"contactPhone" validate:"omitempty,phone"`
	Address        string `json:"address"`
	ProfilePicture string `json:"profilePicture"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}
