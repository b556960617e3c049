package checkout

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/betterchoicedev/checkout-api/internal/catalog"
	"github.com/betterchoicedev/checkout-api/internal/domain"
	"github.com/betterchoicedev/checkout-api/internal/gateway/stripe"
)

// Gateway is the slice of the payment client the coordinator needs.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*stripe.CheckoutSession, error)
}

// Availability describes whether the current user may purchase a product.
// AlreadyActive and NotAvailable both disable purchase but are user-visible
// distinct states and must not be collapsed.
type Availability string

const (
	Available     Availability = "available"
	AlreadyActive Availability = "already_active"
	NotAvailable  Availability = "not_available"
)

// PurchaseStatus tags the outcome of a purchase action.
type PurchaseStatus string

const (
	StatusCheckout       PurchaseStatus = "checkout"
	StatusLoginRequired  PurchaseStatus = "login_required"
	StatusUnknownProduct PurchaseStatus = "unknown_product"
	StatusBlocked        PurchaseStatus = "blocked"
	StatusNoPrice        PurchaseStatus = "no_price_selected"
	StatusInProgress     PurchaseStatus = "in_progress"
	StatusGatewayError   PurchaseStatus = "gateway_error"
)

// AuthUser identifies the authenticated caller of a purchase action.
type AuthUser struct {
	ID    string
	Email string
}

// PurchaseInput is everything a purchase decision needs; the subscription
// snapshot is supplied by the caller and never re-fetched mid-flow.
type PurchaseInput struct {
	User       *AuthUser // nil means anonymous
	ProductID  string
	PriceID    string // optional explicit selection, wins over the default
	SuccessURL string // optional override
	CancelURL  string // optional override
	Snapshot   domain.SubscriptionSnapshot
}

// PurchaseResult is the outcome union of a purchase action. Precondition
// failures and gateway failures are values here, never panics.
type PurchaseResult struct {
	Status      PurchaseStatus `json:"status"`
	SessionID   string         `json:"sessionId,omitempty"`
	RedirectURL string         `json:"url,omitempty"`
	LoginURL    string         `json:"loginUrl,omitempty"`
	Message     string         `json:"message,omitempty"`
}

// Config carries the product-policy knobs of the coordinator.
type Config struct {
	// OneTimePriceID pins the consultation session price to the one-time
	// checkout mode by identifier, independent of its interval field.
	OneTimePriceID string
	SuccessURL     string // must embed {CHECKOUT_SESSION_ID}
	CancelURL      string
	LoginURL       string
}

// Coordinator ties product configuration, subscription status and payment
// session creation together. It holds no subscription state of its own; the
// payment gateway stays the source of truth.
type Coordinator struct {
	catalog  *catalog.Catalog
	gateway  Gateway
	attempts domain.CheckoutAttemptRepository // optional
	logger   zerolog.Logger
	cfg      Config

	mu       sync.Mutex
	inFlight map[string]struct{} // user ids with a purchase in flight
}

func NewCoordinator(cat *catalog.Catalog, gw Gateway, attempts domain.CheckoutAttemptRepository, logger zerolog.Logger, cfg Config) *Coordinator {
	return &Coordinator{
		catalog:  cat,
		gateway:  gw,
		attempts: attempts,
		logger:   logger,
		cfg:      cfg,
		inFlight: make(map[string]struct{}),
	}
}

// DefaultPrice resolves the pre-selected price for a product. An explicit
// selection always wins; otherwise the six-month commitment is preferred and
// the first declared price is the fallback. Ties break on declaration order,
// never on amount or the popular flag.
func (c *Coordinator) DefaultPrice(product domain.Product, selectedID string) (domain.Price, bool) {
	if selectedID != "" {
		for _, p := range product.Prices {
			if p.ID == selectedID {
				return p, true
			}
		}
		return domain.Price{}, false
	}
	for _, p := range product.Prices {
		if p.CommitmentMonths == 6 {
			return p, true
		}
	}
	if len(product.Prices) > 0 {
		return product.Prices[0], true
	}
	return domain.Price{}, false
}

// ProductAvailability applies the subscription-exclusivity rule: any active
// subscription blocks every non-consultation product except the one already
// held, which reports AlreadyActive instead.
func (c *Coordinator) ProductAvailability(product domain.Product, snap domain.SubscriptionSnapshot) Availability {
	if !snap.HasActive {
		return Available
	}
	if product.Category == domain.CategoryConsultation {
		return Available
	}
	if snap.ActiveProductID == product.ID {
		return AlreadyActive
	}
	return NotAvailable
}

// IsBlocked reports whether the purchase action is disabled for the product.
func (c *Coordinator) IsBlocked(product domain.Product, snap domain.SubscriptionSnapshot) bool {
	return c.ProductAvailability(product, snap) != Available
}

// Mode classifies a price for the gateway. A price with no recurrence is a
// one-time payment; the consultation session price is pinned to one-time by
// identifier because its interval field is not reliably absent in every
// configuration.
// TODO: confirm with billing whether the identifier pin can be dropped once
// all one-time prices are declared without an interval.
func (c *Coordinator) Mode(price domain.Price) domain.CheckoutMode {
	if !price.Recurring() || price.ID == c.cfg.OneTimePriceID {
		return domain.ModePayment
	}
	return domain.ModeSubscription
}

// Purchase runs the full purchase action. Preconditions are checked in a
// fixed order, short-circuiting before any network call: authentication,
// product availability, price selection. A second purchase for the same user
// while one is in flight is rejected without queuing.
func (c *Coordinator) Purchase(ctx context.Context, in PurchaseInput) PurchaseResult {
	if in.User == nil || in.User.ID == "" {
		return PurchaseResult{Status: StatusLoginRequired, LoginURL: c.cfg.LoginURL}
	}

	product, ok := c.catalog.Product(in.ProductID)
	if !ok {
		return PurchaseResult{Status: StatusUnknownProduct, Message: "unknown product"}
	}

	switch c.ProductAvailability(product, in.Snapshot) {
	case AlreadyActive:
		return PurchaseResult{Status: StatusBlocked, Message: "you already have an active subscription for this plan"}
	case NotAvailable:
		return PurchaseResult{Status: StatusBlocked, Message: "this plan is not available while another subscription is active"}
	}

	price, ok := c.DefaultPrice(product, in.PriceID)
	if !ok {
		return PurchaseResult{Status: StatusNoPrice, Message: "please select a plan"}
	}

	if !c.begin(in.User.ID) {
		return PurchaseResult{Status: StatusInProgress, Message: "a checkout is already in progress"}
	}
	defer c.finish(in.User.ID)

	mode := c.Mode(price)
	req := domain.CheckoutRequest{
		PriceID:       price.ID,
		Mode:          mode,
		CustomerID:    in.User.ID,
		CustomerEmail: in.User.Email,
		SuccessURL:    firstNonEmpty(in.SuccessURL, c.cfg.SuccessURL),
		CancelURL:     firstNonEmpty(in.CancelURL, c.cfg.CancelURL),
	}

	session, err := c.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		c.logger.Error().Err(err).
			Str("user_id", in.User.ID).
			Str("price_id", price.ID).
			Msg("checkout session creation failed")
		c.record(ctx, in.User.ID, product.ID, price.ID, mode, "gateway_error", err.Error())
		return PurchaseResult{Status: StatusGatewayError, Message: userMessage(err)}
	}

	c.record(ctx, in.User.ID, product.ID, price.ID, mode, "checkout_created", session.SessionID)
	return PurchaseResult{
		Status:      StatusCheckout,
		SessionID:   session.SessionID,
		RedirectURL: session.URL,
	}
}

func (c *Coordinator) begin(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[userID]; busy {
		return false
	}
	c.inFlight[userID] = struct{}{}
	return true
}

func (c *Coordinator) finish(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, userID)
}

// record writes the audit trail entry. Best effort: a failed write is logged
// and the purchase outcome is unaffected.
func (c *Coordinator) record(ctx context.Context, userID, productID, priceID string, mode domain.CheckoutMode, outcome, message string) {
	if c.attempts == nil {
		return
	}
	attempt := &domain.CheckoutAttempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		PriceID:   priceID,
		Mode:      mode,
		Outcome:   outcome,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.attempts.Create(ctx, attempt); err != nil {
		c.logger.Warn().Err(err).Str("user_id", userID).Msg("checkout attempt not recorded")
	}
}

// userMessage strips the package prefix from gateway errors so the remainder
// reads as a user-facing sentence.
func userMessage(err error) string {
	msg := err.Error()
	return strings.TrimPrefix(msg, "stripe: ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
