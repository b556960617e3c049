package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SubscriptionsList returns the authenticated user's subscriptions.
func (a *App) SubscriptionsList(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(r)
	if user == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	subs, err := a.subscriptions(r.Context(), user.ID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", user.ID).Msg("list subscriptions")
		a.error(w, http.StatusBadGateway, "gateway_error", "failed to load subscriptions")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"subscriptions": subs})
}

type cancelRequest struct {
	CancelAtPeriodEnd *bool `json:"cancelAtPeriodEnd"`
}

// SubscriptionCancel schedules or performs a cancellation. Absent flag means
// cancel at period end.
func (a *App) SubscriptionCancel(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(r)
	if user == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		a.error(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	atPeriodEnd := true
	if req.CancelAtPeriodEnd != nil {
		atPeriodEnd = *req.CancelAtPeriodEnd
	}

	subID := chi.URLParam(r, "id")
	result, err := a.Gateway.CancelSubscription(r.Context(), subID, atPeriodEnd)
	if err != nil {
		a.Logger.Error().Err(err).Str("subscription_id", subID).Msg("cancel subscription")
		a.error(w, http.StatusBadGateway, "gateway_error", "failed to cancel subscription")
		return
	}
	a.invalidateSubscriptions(r.Context(), user.ID)
	a.json(w, http.StatusOK, result)
}

// SubscriptionReactivate clears a pending period-end cancellation.
func (a *App) SubscriptionReactivate(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(r)
	if user == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	subID := chi.URLParam(r, "id")
	result, err := a.Gateway.ReactivateSubscription(r.Context(), subID)
	if err != nil {
		a.Logger.Error().Err(err).Str("subscription_id", subID).Msg("reactivate subscription")
		a.error(w, http.StatusBadGateway, "gateway_error", "failed to reactivate subscription")
		return
	}
	a.invalidateSubscriptions(r.Context(), user.ID)
	a.json(w, http.StatusOK, result)
}

type paymentMethodRequest struct {
	PaymentMethodID string `json:"paymentMethodId"`
}

// SubscriptionPaymentMethod swaps the payment method backing a subscription.
func (a *App) SubscriptionPaymentMethod(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(r)
	if user == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var req paymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if req.PaymentMethodID == "" {
		a.error(w, http.StatusBadRequest, "invalid_body", "paymentMethodId is required")
		return
	}

	subID := chi.URLParam(r, "id")
	session, err := a.Gateway.UpdatePaymentMethod(r.Context(), subID, req.PaymentMethodID)
	if err != nil {
		a.Logger.Error().Err(err).Str("subscription_id", subID).Msg("update payment method")
		a.error(w, http.StatusBadGateway, "gateway_error", "failed to start payment method update")
		return
	}
	a.json(w, http.StatusOK, session)
}
