package domain

// Subscription mirrors the payment gateway's view of a recurring purchase.
// The gateway is the source of truth; this type is a read-only projection.
type Subscription struct {
	ID                string `json:"id"`
	CustomerID        string `json:"customerId"`
	ProductID         string `json:"productId"`
	PriceID           string `json:"priceId"`
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancelAtPeriodEnd"`
	CurrentPeriodEnd  int64  `json:"currentPeriodEnd"`
}

// Active reports whether the subscription currently entitles the customer.
func (s Subscription) Active() bool {
	return s.Status == "active" || s.Status == "trialing"
}

// SubscriptionSnapshot is the caller-supplied view of a user's holdings taken
// at decision time. It is never re-fetched mid-flow.
type SubscriptionSnapshot struct {
	HasActive       bool
	ActiveProductID string
}

// SnapshotFromSubscriptions reduces a gateway subscription list to the
// snapshot the checkout coordinator consumes.
func SnapshotFromSubscriptions(subs []Subscription) SubscriptionSnapshot {
	var snap SubscriptionSnapshot
	for _, s := range subs {
		if !s.Active() {
			continue
		}
		snap.HasActive = true
		if snap.ActiveProductID == "" {
			snap.ActiveProductID = s.ProductID
		}
	}
	return snap
}
