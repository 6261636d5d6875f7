package complaints

import "time"

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return Status(s), true
	}
	return "", false
}

type Complaint struct {
	ID            string    `bson:"_id,omitempty" json:"complaintId"`
	UserID        string    `bson:"userId" json:"userId"`
	AppointmentID string    `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	Subject       string    `bson:"subject" json:"subject"`
	Description   string    `bson:"description" json:"description"`
	Status        Status    `bson:"status" json:"status"`
	Resolution    string    `bson:"resolution,omitempty" json:"resolution,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

type CreateRequest struct {
	AppointmentID string `json:"appointmentId"`
	Subject       string `json:"subject" validate:"required,max=200"`
	Description   string `json:"description" validate:"required,max=2000"`
}

type UpdateStatusRequest struct {
	Status     string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
	Resolution string `json:"resolution" validate:"max=2000"`
}
