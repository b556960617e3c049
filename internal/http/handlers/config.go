package handlers

import (
	"net/http"

	"github.com/betterchoicedev/checkout-api/internal/middleware"
)

// ClientConfig exposes what a browser client needs before rendering the
// payment flow: the gateway's publishable key plus the negotiated locale and
// display currency.
func (a *App) ClientConfig(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"publishableKey": a.Gateway.PublishableKey(),
		"locale":         middleware.LocaleFromContext(r.Context()),
		"currency":       middleware.CurrencyFromContext(r.Context()),
	})
}
