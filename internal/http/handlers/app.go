package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/betterchoicedev/checkout-api/internal/cache"
	"github.com/betterchoicedev/checkout-api/internal/catalog"
	"github.com/betterchoicedev/checkout-api/internal/checkout"
	"github.com/betterchoicedev/checkout-api/internal/domain"
	"github.com/betterchoicedev/checkout-api/internal/gateway/stripe"
	"github.com/betterchoicedev/checkout-api/internal/middleware"
)

// PaymentGateway is the gateway surface the handlers consume directly; the
// checkout flow itself runs through the Coordinator.
type PaymentGateway interface {
	CustomerSubscriptions(ctx context.Context, customerID string) ([]domain.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string, cancelAtPeriodEnd bool) (*stripe.SubscriptionResult, error)
	ReactivateSubscription(ctx context.Context, subscriptionID string) (*stripe.SubscriptionResult, error)
	UpdatePaymentMethod(ctx context.Context, subscriptionID, paymentMethodID string) (*stripe.SubscriptionResult, error)
	CheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSessionDetail, error)
	CreatePaymentIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error)
	PublishableKey() string
}

// App is the handler container; dependencies are injected once at startup.
type App struct {
	Catalog     *catalog.Catalog
	Coordinator *checkout.Coordinator
	Gateway     PaymentGateway
	Subs        cache.SubscriptionCache // optional
	Logger      zerolog.Logger
}

func NewApp(cat *catalog.Catalog, co *checkout.Coordinator, gw PaymentGateway, subs cache.SubscriptionCache, logger zerolog.Logger) *App {
	return &App{
		Catalog:     cat,
		Coordinator: co,
		Gateway:     gw,
		Subs:        subs,
		Logger:      logger,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}

func (a *App) currentUser(r *http.Request) *checkout.AuthUser {
	id := middleware.UserIDFromContext(r.Context())
	if id == "" {
		return nil
	}
	return &checkout.AuthUser{
		ID:    id,
		Email: middleware.UserEmailFromContext(r.Context()),
	}
}

// subscriptions returns the caller's subscription list, consulting the cache
// first when one is configured. The gateway stays authoritative.
func (a *App) subscriptions(ctx context.Context, customerID string) ([]domain.Subscription, error) {
	if a.Subs != nil {
		subs, err := a.Subs.Get(ctx, customerID)
		if err == nil {
			return subs, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			a.Logger.Warn().Err(err).Msg("subscription cache read failed")
		}
	}
	subs, err := a.Gateway.CustomerSubscriptions(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if a.Subs != nil {
		if err := a.Subs.Set(ctx, customerID, subs); err != nil {
			a.Logger.Warn().Err(err).Msg("subscription cache write failed")
		}
	}
	return subs, nil
}

func (a *App) invalidateSubscriptions(ctx context.Context, customerID string) {
	if a.Subs == nil {
		return
	}
	if err := a.Subs.Delete(ctx, customerID); err != nil {
		a.Logger.Warn().Err(err).Msg("subscription cache invalidation failed")
	}
}
