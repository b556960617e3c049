package domain

import "time"

// CheckoutMode selects the gateway checkout flavor.
type CheckoutMode string

const (
	ModePayment      CheckoutMode = "payment"
	ModeSubscription CheckoutMode = "subscription"
)

// CheckoutRequest is the ephemeral value object sent to the payment gateway.
// It is constructed immediately before a gateway call and never persisted.
type CheckoutRequest struct {
	PriceID       string       `json:"priceId"`
	Mode          CheckoutMode `json:"mode"`
	CustomerID    string       `json:"customerId,omitempty"`
	CustomerEmail string       `json:"customerEmail,omitempty"`
	SuccessURL    string       `json:"successUrl"`
	CancelURL     string       `json:"cancelUrl"`
}

// CheckoutAttempt is the audit record written for each purchase action that
// reaches the gateway.
type CheckoutAttempt struct {
	ID        string
	UserID    string
	ProductID string
	PriceID   string
	Mode      CheckoutMode
	Outcome   string
	Message   string
	CreatedAt time.Time
}
