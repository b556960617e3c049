package handlers

import (
	"encoding/json"
	"net/http"
)

type paymentIntentRequest struct {
	Amount   float64           `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

// PaymentIntentCreate starts a one-time payment. The consultation flow uses
// this instead of a checkout session.
func (a *App) PaymentIntentCreate(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(r)
	if user == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var req paymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if req.Amount <= 0 {
		a.error(w, http.StatusBadRequest, "invalid_body", "amount must be positive")
		return
	}
	if req.Currency == "" {
		req.Currency = "ils"
	}
	if req.Metadata == nil {
		req.Metadata = map[string]string{}
	}
	req.Metadata["customerId"] = user.ID

	intent, err := a.Gateway.CreatePaymentIntent(r.Context(), req.Amount, req.Currency, req.Metadata)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", user.ID).Msg("create payment intent")
		a.error(w, http.StatusBadGateway, "gateway_error", "failed to create payment intent")
		return
	}
	a.json(w, http.StatusCreated, intent)
}
