package domain

import "context"

// CheckoutAttemptRepository persists the purchase audit trail. Recording is
// best effort: callers must never fail a purchase because a write failed.
type CheckoutAttemptRepository interface {
	Create(ctx context.Context, attempt *CheckoutAttempt) error
	ListRecent(ctx context.Context, limit int) ([]CheckoutAttempt, error)
}
