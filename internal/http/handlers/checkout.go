package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/betterchoicedev/checkout-api/internal/checkout"
	"github.com/betterchoicedev/checkout-api/internal/domain"
)

type checkoutRequest struct {
	ProductID  string `json:"productId"`
	PriceID    string `json:"priceId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

// CheckoutCreate runs the purchase action and translates its outcome to HTTP.
func (a *App) CheckoutCreate(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		a.error(w, http.StatusBadRequest, "invalid_body", "productId is required")
		return
	}

	in := checkout.PurchaseInput{
		User:       a.currentUser(r),
		ProductID:  req.ProductID,
		PriceID:    req.PriceID,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	}
	if in.User != nil {
		subs, err := a.subscriptions(r.Context(), in.User.ID)
		if err != nil {
			a.Logger.Error().Err(err).Str("user_id", in.User.ID).Msg("load subscriptions for checkout")
			a.error(w, http.StatusBadGateway, "gateway_error", "failed to load subscription state")
			return
		}
		in.Snapshot = domain.SnapshotFromSubscriptions(subs)
	}

	result := a.Coordinator.Purchase(r.Context(), in)
	a.json(w, purchaseHTTPStatus(result.Status), result)
}

// CheckoutSessionGet returns the post-payment confirmation view for a session.
func (a *App) CheckoutSessionGet(w http.ResponseWriter, r *http.Request) {
	detail, err := a.Gateway.CheckoutSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusBadGateway, "gateway_error", "failed to load checkout session")
		return
	}
	a.json(w, http.StatusOK, detail)
}

func purchaseHTTPStatus(status checkout.PurchaseStatus) int {
	switch status {
	case checkout.StatusCheckout:
		return http.StatusOK
	case checkout.StatusLoginRequired:
		return http.StatusUnauthorized
	case checkout.StatusUnknownProduct:
		return http.StatusNotFound
	case checkout.StatusBlocked:
		return http.StatusConflict
	case checkout.StatusNoPrice:
		return http.StatusUnprocessableEntity
	case checkout.StatusInProgress:
		return http.StatusTooManyRequests
	case checkout.StatusGatewayError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
