package cache

import (
	"context"
	"errors"

	"github.com/betterchoicedev/checkout-api/internal/domain"
)

// SubscriptionCache holds short-lived copies of gateway subscription lists so
// repeated catalog views do not hammer the payment backend. The gateway stays
// authoritative; entries are dropped on any subscription mutation.
type SubscriptionCache interface {
	Get(ctx context.Context, customerID string) ([]domain.Subscription, error)
	Set(ctx context.Context, customerID string, subs []domain.Subscription) error
	Delete(ctx context.Context, customerID string) error
}

var ErrCacheMiss = errors.New("cache miss")
