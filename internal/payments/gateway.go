package payments

import "context"

// CheckoutParams is what the gateway needs to open a hosted payment page.
type CheckoutParams struct {
	PaymentID     string
	AppointmentID string
	Description   string
	Amount        float64
	Currency      string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent is the gateway-neutral form of a payment notification.
type WebhookEvent struct {
	Completed bool
	SessionID string
	PaymentID string
}

// Gateway abstracts the hosted checkout provider so the service and its
// tests never touch gateway SDK types.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (WebhookEvent, error)
}
