package checkout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/betterchoicedev/checkout-api/internal/catalog"
	"github.com/betterchoicedev/checkout-api/internal/domain"
	"github.com/betterchoicedev/checkout-api/internal/gateway/stripe"
)

type fakeGateway struct {
	calls   atomic.Int64
	session *stripe.CheckoutSession
	err     error
	block   chan struct{} // when set, CreateCheckoutSession waits for a close
	entered chan struct{} // signalled once per call before blocking
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*stripe.CheckoutSession, error) {
	f.calls.Add(1)
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.session != nil {
		return f.session, nil
	}
	return &stripe.CheckoutSession{SessionID: "cs_test"}, nil
}

func newTestCoordinator(gw Gateway) *Coordinator {
	return NewCoordinator(catalog.New(), gw, nil, zerolog.Nop(), Config{
		OneTimePriceID: catalog.ConsultationSinglePriceID,
		SuccessURL:     "https://example.com/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:      "https://example.com/pricing",
		LoginURL:       "https://example.com/login",
	})
}

func mustProduct(t *testing.T, c *catalog.Catalog, id string) domain.Product {
	t.Helper()
	p, ok := c.Product(id)
	if !ok {
		t.Fatalf("product %s missing from catalog", id)
	}
	return p
}

func TestDefaultPrice_PrefersSixMonthCommitment(t *testing.T) {
	co := newTestCoordinator(&fakeGateway{})
	cat := catalog.New()

	tests := []struct {
		name      string
		productID string
		selected  string
		wantID    string
		wantOK    bool
	}{
		{
			name:      "six month commitment wins",
			productID: "NUTRITION_ONLY",
			wantID:    "price_no_6m",
			wantOK:    true,
		},
		{
			name:      "explicit selection wins over default",
			productID: "NUTRITION_ONLY",
			selected:  "price_no_3m",
			wantID:    "price_no_3m",
			wantOK:    true,
		},
		{
			name:      "no six month falls back to first declared",
			productID: "RECIPE_LIBRARY",
			wantID:    "price_recipes_monthly",
			wantOK:    true,
		},
		{
			name:      "selection outside the product yields absent",
			productID: "NUTRITION_ONLY",
			selected:  "price_recipes_monthly",
			wantOK:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			price, ok := co.DefaultPrice(mustProduct(t, cat, tc.productID), tc.selected)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && price.ID != tc.wantID {
				t.Fatalf("price = %q, want %q", price.ID, tc.wantID)
			}
		})
	}
}

func TestDefaultPrice_IgnoresPopularAndAmount(t *testing.T) {
	co := newTestCoordinator(&fakeGateway{})

	// The popular flag sits on the 3-month price and the 6-month price is the
	// cheaper one; neither fact may influence the selection order.
	product := mustProduct(t, catalog.New(), "NUTRITION_ONLY")
	if !product.Prices[0].Popular {
		t.Fatal("fixture expects the first declared price to carry the popular flag")
	}
	price, ok := co.DefaultPrice(product, "")
	if !ok || price.CommitmentMonths != 6 {
		t.Fatalf("selected %+v, want the 6-month commitment", price)
	}
}

func TestProductAvailability(t *testing.T) {
	co := newTestCoordinator(&fakeGateway{})
	cat := catalog.New()

	active := domain.SubscriptionSnapshot{HasActive: true, ActiveProductID: "NUTRITION_TRAINING"}

	tests := []struct {
		name      string
		productID string
		snap      domain.SubscriptionSnapshot
		want      Availability
	}{
		{
			name:      "no subscription leaves everything available",
			productID: "NUTRITION_ONLY",
			want:      Available,
		},
		{
			name:      "different subscription blocks the product",
			productID: "NUTRITION_ONLY",
			snap:      active,
			want:      NotAvailable,
		},
		{
			name:      "own subscription reports already active",
			productID: "NUTRITION_TRAINING",
			snap:      active,
			want:      AlreadyActive,
		},
		{
			name:      "consultation is never blocked",
			productID: "CONSULTATION",
			snap:      active,
			want:      Available,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := co.ProductAvailability(mustProduct(t, cat, tc.productID), tc.snap)
			if got != tc.want {
				t.Fatalf("availability = %q, want %q", got, tc.want)
			}
			blocked := co.IsBlocked(mustProduct(t, cat, tc.productID), tc.snap)
			if blocked != (tc.want != Available) {
				t.Fatalf("IsBlocked = %v for availability %q", blocked, got)
			}
		})
	}
}

func TestMode(t *testing.T) {
	co := newTestCoordinator(&fakeGateway{})

	tests := []struct {
		name  string
		price domain.Price
		want  domain.CheckoutMode
	}{
		{
			name:  "recurring price is a subscription",
			price: domain.Price{ID: "price_no_6m", Interval: domain.IntervalMonth},
			want:  domain.ModeSubscription,
		},
		{
			name:  "no interval is a one-time payment",
			price: domain.Price{ID: "price_whatever"},
			want:  domain.ModePayment,
		},
		{
			name: "consultation price is pinned to payment by id",
			price: domain.Price{
				ID:       catalog.ConsultationSinglePriceID,
				Interval: domain.IntervalMonth, // inconsistent declaration
			},
			want: domain.ModePayment,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := co.Mode(tc.price); got != tc.want {
				t.Fatalf("mode = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPurchase_AnonymousRedirectsToLoginWithoutNetworkCall(t *testing.T) {
	gw := &fakeGateway{}
	co := newTestCoordinator(gw)

	result := co.Purchase(context.Background(), PurchaseInput{ProductID: "NUTRITION_ONLY"})

	if result.Status != StatusLoginRequired {
		t.Fatalf("status = %q, want %q", result.Status, StatusLoginRequired)
	}
	if result.LoginURL == "" {
		t.Fatal("expected a login url")
	}
	if gw.calls.Load() != 0 {
		t.Fatalf("expected zero gateway calls, got %d", gw.calls.Load())
	}
}

func TestPurchase_BlockedProductFailsFast(t *testing.T) {
	gw := &fakeGateway{}
	co := newTestCoordinator(gw)

	result := co.Purchase(context.Background(), PurchaseInput{
		User:      &AuthUser{ID: "user-1", Email: "dana@example.com"},
		ProductID: "NUTRITION_ONLY",
		Snapshot:  domain.SubscriptionSnapshot{HasActive: true, ActiveProductID: "NUTRITION_TRAINING"},
	})

	if result.Status != StatusBlocked {
		t.Fatalf("status = %q, want %q", result.Status, StatusBlocked)
	}
	if gw.calls.Load() != 0 {
		t.Fatalf("expected zero gateway calls, got %d", gw.calls.Load())
	}
}

func TestPurchase_AlreadyActiveMessageIsDistinct(t *testing.T) {
	co := newTestCoordinator(&fakeGateway{})
	snap := domain.SubscriptionSnapshot{HasActive: true, ActiveProductID: "NUTRITION_ONLY"}

	own := co.Purchase(context.Background(), PurchaseInput{
		User:      &AuthUser{ID: "user-1"},
		ProductID: "NUTRITION_ONLY",
		Snapshot:  snap,
	})
	other := co.Purchase(context.Background(), PurchaseInput{
		User:      &AuthUser{ID: "user-1"},
		ProductID: "NUTRITION_TRAINING",
		Snapshot:  snap,
	})

	if own.Status != StatusBlocked || other.Status != StatusBlocked {
		t.Fatalf("both purchases must be blocked, got %q and %q", own.Status, other.Status)
	}
	if own.Message == other.Message {
		t.Fatalf("already-active and not-available messages must differ, both %q", own.Message)
	}
}

func TestPurchase_SuccessUsesDefaultsAndOverrides(t *testing.T) {
	var seen domain.CheckoutRequest
	gw := &captureGateway{}
	co := newTestCoordinator(gw)

	result := co.Purchase(context.Background(), PurchaseInput{
		User:      &AuthUser{ID: "user-1", Email: "dana@example.com"},
		ProductID: "NUTRITION_ONLY",
	})
	seen = gw.last

	if result.Status != StatusCheckout {
		t.Fatalf("status = %q: %s", result.Status, result.Message)
	}
	if result.SessionID != "cs_test" {
		t.Fatalf("session id = %q", result.SessionID)
	}
	if seen.PriceID != "price_no_6m" {
		t.Fatalf("gateway got price %q, want the 6-month default", seen.PriceID)
	}
	if seen.Mode != domain.ModeSubscription {
		t.Fatalf("mode = %q, want subscription", seen.Mode)
	}
	if seen.SuccessURL != "https://example.com/success?session_id={CHECKOUT_SESSION_ID}" {
		t.Fatalf("success url = %q", seen.SuccessURL)
	}

	co.Purchase(context.Background(), PurchaseInput{
		User:       &AuthUser{ID: "user-1"},
		ProductID:  "CONSULTATION",
		SuccessURL: "https://example.com/booked?session_id={CHECKOUT_SESSION_ID}",
	})
	seen = gw.last
	if seen.Mode != domain.ModePayment {
		t.Fatalf("consultation mode = %q, want payment", seen.Mode)
	}
	if seen.SuccessURL != "https://example.com/booked?session_id={CHECKOUT_SESSION_ID}" {
		t.Fatalf("success url override not honored: %q", seen.SuccessURL)
	}
}

func TestPurchase_GatewayFailureSurfacesSingleMessage(t *testing.T) {
	gw := &fakeGateway{err: errors.New("stripe: card was declined")}
	co := newTestCoordinator(gw)

	result := co.Purchase(context.Background(), PurchaseInput{
		User:      &AuthUser{ID: "user-1"},
		ProductID: "NUTRITION_ONLY",
	})

	if result.Status != StatusGatewayError {
		t.Fatalf("status = %q", result.Status)
	}
	if result.Message != "card was declined" {
		t.Fatalf("message = %q", result.Message)
	}

	// The in-flight guard must be clear again: a retry reaches the gateway.
	result = co.Purchase(context.Background(), PurchaseInput{
		User:      &AuthUser{ID: "user-1"},
		ProductID: "NUTRITION_ONLY",
	})
	if result.Status != StatusGatewayError {
		t.Fatalf("retry status = %q", result.Status)
	}
	if gw.calls.Load() != 2 {
		t.Fatalf("expected 2 gateway calls, got %d", gw.calls.Load())
	}
}

func TestPurchase_SecondCallWhileInFlightMakesNoNetworkCall(t *testing.T) {
	gw := &fakeGateway{
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	co := newTestCoordinator(gw)

	in := PurchaseInput{
		User:      &AuthUser{ID: "user-1"},
		ProductID: "NUTRITION_ONLY",
	}

	done := make(chan PurchaseResult, 1)
	go func() {
		done <- co.Purchase(context.Background(), in)
	}()

	// Wait until the first purchase is inside the gateway call.
	select {
	case <-gw.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first purchase never reached the gateway")
	}

	second := co.Purchase(context.Background(), in)
	if second.Status != StatusInProgress {
		t.Fatalf("second purchase status = %q, want %q", second.Status, StatusInProgress)
	}

	close(gw.block)
	first := <-done
	if first.Status != StatusCheckout {
		t.Fatalf("first purchase status = %q: %s", first.Status, first.Message)
	}
	if gw.calls.Load() != 1 {
		t.Fatalf("expected exactly one gateway call, got %d", gw.calls.Load())
	}

	// A different user is not affected by the guard.
	otherGw := &fakeGateway{}
	otherCo := newTestCoordinator(otherGw)
	if r := otherCo.Purchase(context.Background(), in); r.Status != StatusCheckout {
		t.Fatalf("fresh coordinator purchase = %q", r.Status)
	}
}

func TestPurchase_EndToEndScenario(t *testing.T) {
	co := newTestCoordinator(&fakeGateway{})
	cat := catalog.New()

	nutritionOnly := mustProduct(t, cat, "NUTRITION_ONLY")
	price, ok := co.DefaultPrice(nutritionOnly, "")
	if !ok || price.ID != "price_no_6m" || price.AmountILS != 50000 || price.Discount != "14% off" {
		t.Fatalf("default selection = %+v", price)
	}

	snap := domain.SubscriptionSnapshot{HasActive: true, ActiveProductID: "NUTRITION_TRAINING"}
	if !co.IsBlocked(nutritionOnly, snap) {
		t.Fatal("NUTRITION_ONLY must be blocked for a NUTRITION_TRAINING subscriber")
	}
	if co.IsBlocked(mustProduct(t, cat, "CONSULTATION"), snap) {
		t.Fatal("CONSULTATION must never be blocked")
	}
}

type captureGateway struct {
	last domain.CheckoutRequest
}

func (c *captureGateway) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*stripe.CheckoutSession, error) {
	c.last = req
	return &stripe.CheckoutSession{SessionID: "cs_test"}, nil
}
