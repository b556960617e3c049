package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/betterchoicedev/checkout-api/internal/http/handlers"
	"github.com/betterchoicedev/checkout-api/internal/middleware"
)

// Options carries the router's middleware configuration.
type Options struct {
	JWTSecret       string
	DefaultLocale   string
	AllowedOrigins  []string
	RateLimitPerMin int
	CountryLookup   middleware.CountryLookup
	Logger          zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.Logger(opts.Logger),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/config", app.ClientConfig)

	r.Route("/v1/products", func(r chi.Router) {
		r.Use(middleware.OptionalAuthJWT(opts.JWTSecret))
		r.Get("/", app.ProductsList)
		r.Get("/{id}", app.ProductGet)
	})
	r.With(middleware.OptionalAuthJWT(opts.JWTSecret)).Get("/v1/prices/{id}", app.PriceGet)

	r.Route("/v1/checkout", func(r chi.Router) {
		r.With(middleware.OptionalAuthJWT(opts.JWTSecret)).Post("/", app.CheckoutCreate)
		r.Get("/sessions/{id}", app.CheckoutSessionGet)
	})

	r.Route("/v1/subscriptions", func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))
		r.Get("/", app.SubscriptionsList)
		r.Post("/{id}/cancel", app.SubscriptionCancel)
		r.Post("/{id}/reactivate", app.SubscriptionReactivate)
		r.Post("/{id}/payment-method", app.SubscriptionPaymentMethod)
	})

	r.With(middleware.AuthJWT(opts.JWTSecret)).Post("/v1/payment-intents", app.PaymentIntentCreate)

	return r
}
