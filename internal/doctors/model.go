package doctors

import (
	"time"

	"aura-backend/internal/schedule"
)

// Doctor is a directory entry. Availability holds at most one window per
// weekday; the booking flow looks up "the" window for a date's weekday.
type Doctor struct {
	ID                  string                        `bson:"_id,omitempty" json:"doctorId"`
	UserID              string                        `bson:"userId" json:"userId"`
	FirstName           string                        `bson:"firstName" json:"firstName"`
	LastName            string                        `bson:"lastName" json:"lastName"`
	Specialization      string                        `bson:"specialization,omitempty" json:"specialization,omitempty"`
	ContactPhone        string                        `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	IsAvailable         bool                          `bson:"isAvailable" json:"isAvailable"`
	DefaultSlotDuration int                           `bson:"defaultSlotDuration" json:"defaultSlotDuration"`
	Availability        []schedule.AvailabilityWindow `bson:"availability" json:"availability"`
	CreatedAt           time.Time                     `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time                     `bson:"updatedAt" json:"updatedAt"`
}

type CreateRequest struct {
	UserID         string `json:"userId" validate:"required"`
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Specialization string `json:"specialization" validate:"required"`
	ContactPhone   string `json:"contactPhone" validate:"required,phone"`
	IsAvailable    bool   `json:"isAvailable"`
}

type UpdateRequest struct {
	FirstName           string `json:"firstName" validate:"required"`
	LastName            string `json:"lastName" validate:"required"`
	Specialization      string `json:"specialization" validate:"required"`
	ContactPhone        string `json:"contactPhone" validate:"required,phone"`
	IsAvailable         bool   `json:"isAvailable"`
	DefaultSlotDuration int    `json:"defaultSlotDuration" validate:"omitempty,gt=0,lte=240"`
}

type SetAvailabilityRequest struct {
	Availability []schedule.AvailabilityWindow `json:"availability" validate:"required,dive"`
}
