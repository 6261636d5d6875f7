package appointments

import "time"

// Status is the appointment lifecycle vocabulary. Every write path goes
// through ParseStatus so nothing else ever lands in the database.
type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusCompleted   Status = "completed"
	StatusCanceled    Status = "canceled"
	StatusRescheduled Status = "rescheduled"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled, StatusRescheduled:
		return Status(s), true
	}
	return "", false
}

// Badge is the display form of a status used by the dashboards.
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusBadges = map[Status]Badge{
	StatusPending:     {Label: "Pending", Color: "yellow"},
	StatusConfirmed:   {Label: "Confirmed", Color: "green"},
	StatusCompleted:   {Label: "Completed", Color: "blue"},
	StatusCanceled:    {Label: "Canceled", Color: "red"},
	StatusRescheduled: {Label: "Rescheduled", Color: "orange"},
}

// BadgeFor returns the badge for a status. Unrecognized values get a
// neutral badge instead of breaking the listing.
func BadgeFor(status Status) Badge {
	if badge, ok := statusBadges[status]; ok {
		return badge
	}
	return Badge{Label: "Unknown", Color: "gray"}
}

type Appointment struct {
	ID              string    `bson:"_id,omitempty" json:"appointmentId"`
	DoctorID        string    `bson:"doctorId" json:"doctorId"`
	PatientID       string    `bson:"patientId" json:"patientId"`
	AppointmentDate string    `bson:"appointmentDate" json:"appointmentDate"`
	StartTime       string    `bson:"startTime" json:"startTime"`
	EndTime         string    `bson:"endTime" json:"endTime"`
	Fee             float64   `bson:"fee" json:"fee"`
	Status          Status    `bson:"status" json:"status"`
	Reason          string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

type CreateRequest struct {
	DoctorID        string `json:"doctorId" validate:"required"`
	PatientID       string `json:"patientId" validate:"required"`
	AppointmentDate string `json:"appointmentDate" validate:"required,date"`
	StartTime       string `json:"startTime" validate:"required,clock"`
	Reason          string `json:"reason" validate:"max=500"`
}

type RescheduleRequest struct {
	AppointmentDate string `json:"appointmentDate" validate:"required,date"`
	StartTime       string `json:"startTime" validate:"required,clock"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed canceled rescheduled"`
}

// ListFilter narrows List to one doctor, one patient, a status, or a date.
// Zero values mean no constraint.
type ListFilter struct {
	DoctorID  string
	PatientID string
	Status    string
	Date      string
}
