package prescriptions

import "time"

type Medication struct {
	Name         string `bson:"name" json:"name" validate:"required"`
	Dosage       string `bson:"dosage" json:"dosage" validate:"required"`
	Frequency    string `bson:"frequency" json:"frequency" validate:"required"`
	DurationDays int    `bson:"durationDays" json:"durationDays" validate:"gt=0,lte=365"`
}

// IssueDate and ExpiryDate are YYYY-MM-DD strings like appointment dates;
// TotalAmount is the charge for the whole prescription.
type Prescription struct {
	ID            string       `bson:"_id,omitempty" json:"prescriptionId"`
	AppointmentID string       `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	DoctorID      string       `bson:"doctorId" json:"doctorId"`
	PatientID     string       `bson:"patientId" json:"patientId"`
	Medications   []Medication `bson:"medications" json:"medications"`
	TotalAmount   float64      `bson:"totalAmount" json:"totalAmount"`
	IssueDate     string       `bson:"issueDate" json:"issueDate"`
	ExpiryDate    string       `bson:"expiryDate" json:"expiryDate"`
	Notes         string       `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time    `bson:"updatedAt" json:"updatedAt"`
}

type CreateRequest struct {
	AppointmentID string       `json:"appointmentId"`
	DoctorID      string       `json:"doctorId" validate:"required"`
	PatientID     string       `json:"patientId" validate:"required"`
	Medications   []Medication `json:"medications" validate:"required,min=1,dive"`
	TotalAmount   float64      `json:"totalAmount" validate:"gte=0"`
	IssueDate     string       `json:"issueDate" validate:"required,date"`
	ExpiryDate    string       `json:"expiryDate" validate:"required,date"`
	Notes         string       `json:"notes" validate:"max=1000"`
}

type UpdateRequest struct {
	Medications []Medication `json:"medications" validate:"required,min=1,dive"`
	TotalAmount float64      `json:"totalAmount" validate:"gte=0"`
	IssueDate   string       `json:"issueDate" validate:"required,date"`
	ExpiryDate  string       `json:"expiryDate" validate:"required,date"`
	Notes       string       `json:"notes" validate:"max=1000"`
}
