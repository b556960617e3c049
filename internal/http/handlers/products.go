package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/betterchoicedev/checkout-api/internal/domain"
	"github.com/betterchoicedev/checkout-api/internal/middleware"
)

type priceDTO struct {
	ID               string `json:"id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Interval         string `json:"interval,omitempty"`
	CommitmentMonths int    `json:"commitmentMonths,omitempty"`
	Popular          bool   `json:"popular,omitempty"`
	Discount         string `json:"discount,omitempty"`
}

type productDTO struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Prices         []priceDTO `json:"prices"`
	Features       []string   `json:"features"`
	DefaultPriceID string     `json:"defaultPriceId"`
	Availability   string     `json:"availability"`
}

// ProductsList returns the catalog in the request's locale and display
// currency. Availability reflects the caller's subscriptions when the
// request is authenticated; anonymous callers see everything available.
func (a *App) ProductsList(w http.ResponseWriter, r *http.Request) {
	products := a.Catalog.All()
	if category := r.URL.Query().Get("category"); category != "" {
		products = a.Catalog.ByCategory(domain.Category(category))
	}

	snap, err := a.snapshotForRequest(r)
	if err != nil {
		a.error(w, http.StatusBadGateway, "gateway_error", "failed to load subscription state")
		return
	}

	locale := middleware.LocaleFromContext(r.Context())
	currency := middleware.CurrencyFromContext(r.Context())

	items := make([]productDTO, 0, len(products))
	for _, p := range products {
		items = append(items, a.productDTO(p, snap, locale, currency))
	}
	a.json(w, http.StatusOK, map[string]any{"products": items})
}

// ProductGet returns one product by identifier.
func (a *App) ProductGet(w http.ResponseWriter, r *http.Request) {
	product, ok := a.Catalog.Product(chi.URLParam(r, "id"))
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "unknown product")
		return
	}

	snap, err := a.snapshotForRequest(r)
	if err != nil {
		a.error(w, http.StatusBadGateway, "gateway_error", "failed to load subscription state")
		return
	}

	locale := middleware.LocaleFromContext(r.Context())
	currency := middleware.CurrencyFromContext(r.Context())
	a.json(w, http.StatusOK, a.productDTO(product, snap, locale, currency))
}

// PriceGet resolves a price identifier to the price and its owning product.
func (a *App) PriceGet(w http.ResponseWriter, r *http.Request) {
	price, product, ok := a.Catalog.PriceByID(chi.URLParam(r, "id"))
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "unknown price")
		return
	}
	currency := middleware.CurrencyFromContext(r.Context())
	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, http.StatusOK, map[string]any{
		"price": toPriceDTO(price, currency),
		"product": map[string]string{
			"id":   product.ID,
			"name": product.Name.In(locale),
		},
	})
}

func (a *App) productDTO(p domain.Product, snap domain.SubscriptionSnapshot, locale, currency string) productDTO {
	prices := make([]priceDTO, 0, len(p.Prices))
	for _, price := range p.Prices {
		prices = append(prices, toPriceDTO(price, currency))
	}
	features := make([]string, 0, len(p.Features))
	for _, f := range p.Features {
		features = append(features, f.In(locale))
	}
	dto := productDTO{
		ID:          p.ID,
		Name:        p.Name.In(locale),
		Description: p.Description.In(locale),
		Category:    string(p.Category),
		Prices:      prices,
		Features:    features,
	}
	if price, ok := a.Coordinator.DefaultPrice(p, ""); ok {
		dto.DefaultPriceID = price.ID
	}
	dto.Availability = string(a.Coordinator.ProductAvailability(p, snap))
	return dto
}

// snapshotForRequest reduces the caller's subscriptions to the decision-time
// snapshot. Anonymous requests get the zero snapshot.
func (a *App) snapshotForRequest(r *http.Request) (domain.SubscriptionSnapshot, error) {
	user := a.currentUser(r)
	if user == nil {
		return domain.SubscriptionSnapshot{}, nil
	}
	subs, err := a.subscriptions(r.Context(), user.ID)
	if err != nil {
		return domain.SubscriptionSnapshot{}, err
	}
	return domain.SnapshotFromSubscriptions(subs), nil
}

func toPriceDTO(p domain.Price, currency string) priceDTO {
	dto := priceDTO{
		ID:               p.ID,
		Amount:           p.Amount(currency),
		Currency:         currency,
		CommitmentMonths: p.CommitmentMonths,
		Popular:          p.Popular,
		Discount:         p.Discount,
	}
	if p.Recurring() {
		dto.Interval = string(p.Interval)
	}
	return dto
}
