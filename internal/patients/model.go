package patients

import "time"

type Patient struct {
	ID               string    `bson:"_id,omitempty" json:"patientId"`
	UserID           string    `bson:"userId" json:"userId"`
	FirstName        string    `bson:"firstName" json:"firstName"`
	LastName         string    `bson:"lastName" json:"lastName"`
	ContactPhone     string    `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	DateOfBirth      string    `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Gender           string    `bson:"gender,omitempty" json:"gender,omitempty"`
	Address          string    `bson:"address,omitempty" json:"address,omitempty"`
	EmergencyContact string    `bson:"emergencyContact,omitempty" json:"emergencyContact,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

type UpdateRequest struct {
	FirstName        string `json:"firstName" validate:"required"`
	LastName         string `json:"lastName" validate:"required"`
	ContactPhone     string `json:"contactPhone" validate:"omitempty,phone"`
	DateOfBirth      string `json:"dateOfBirth" validate:"omitempty,date"`
	Gender           string `json:"gender" validate:"omitempty,oneof=male female other"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergencyContact" validate:"omitempty,phone"`
}
