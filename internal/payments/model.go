package payments

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return Status(s), true
	}
	return "", false
}

type Method string

const (
	MethodStripe Method = "stripe"
	MethodCash   Method = "cash"
)

type Payment struct {
	ID            string    `bson:"_id,omitempty" json:"paymentId"`
	AppointmentID string    `bson:"appointmentId" json:"appointmentId"`
	PatientID     string    `bson:"patientId" json:"patientId"`
	DoctorID      string    `bson:"doctorId" json:"doctorId"`
	Amount        float64   `bson:"amount" json:"amount"`
	Currency      string    `bson:"currency" json:"currency"`
	Method        Method    `bson:"method" json:"method"`
	Status        Status    `bson:"status" json:"status"`
	TransactionID string    `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

type CheckoutRequest struct {
	AppointmentID string `json:"appointmentId" validate:"required"`
	Method        string `json:"method" validate:"required,oneof=stripe cash"`
}

// CheckoutResponse carries the gateway redirect for stripe payments. URL is
// empty for cash, which settles at the clinic.
type CheckoutResponse struct {
	Payment Payment `json:"payment"`
	URL     string  `json:"url,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed failed refunded"`
}
