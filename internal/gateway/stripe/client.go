package stripe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/betterchoicedev/checkout-api/internal/domain"
)

// ErrMissingBaseURL indicates the client was configured without a gateway address.
var ErrMissingBaseURL = errors.New("stripe: base url is required")

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("stripe: payment service unavailable")

const genericErrorMessage = "payment service error"

// Options configures the payment gateway client.
type Options struct {
	BaseURL        string
	PublishableKey string
	HTTPClient     *http.Client
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
	DisableBreaker bool
}

// Client performs HTTP calls to the payment backend that fronts Stripe. All
// network I/O to the gateway lives here; callers receive normalized errors
// whose message is safe to show to a user.
type Client struct {
	baseURL        string
	publishableKey string
	httpClient     *http.Client
	logger         zerolog.Logger
	breaker        *gobreaker.CircuitBreaker[[]byte]
}

// CheckoutSession is the gateway response to a session creation request.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url,omitempty"`
}

// CheckoutSessionDetail is the post-payment confirmation view of a session.
type CheckoutSessionDetail struct {
	SessionID     string `json:"sessionId"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	AmountTotal   int64  `json:"amountTotal"`
	Currency      string `json:"currency"`
}

// PaymentIntent is the provider payment-intent object.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// SubscriptionResult is the gateway acknowledgement for subscription mutations.
type SubscriptionResult struct {
	Subscription domain.Subscription `json:"subscription"`
	Message      string              `json:"message,omitempty"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	c := &Client{
		baseURL:        baseURL,
		publishableKey: strings.TrimSpace(opts.PublishableKey),
		httpClient:     httpClient,
		logger:         logger,
	}
	if !opts.DisableBreaker {
		c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "stripe-gateway",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("gateway circuit breaker state changed")
			},
		})
	}
	return c, nil
}

// PublishableKey returns the browser SDK key for clients that need it.
func (c *Client) PublishableKey() string {
	return c.publishableKey
}

// CreateCheckoutSession asks the gateway for a hosted checkout session.
func (c *Client) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*CheckoutSession, error) {
	if req.PriceID == "" {
		return nil, errors.New("stripe: price id is required")
	}
	raw, err := c.do(ctx, http.MethodPost, "/api/stripe/create-checkout-session", req)
	if err != nil {
		return nil, err
	}
	var session CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("stripe: decode checkout session: %w", err)
	}
	if session.SessionID == "" {
		return nil, errors.New("stripe: gateway returned no session id")
	}
	return &session, nil
}

// MinorUnits converts a major-unit amount to integer minor units, rounding
// half away from zero. This is the only conversion point in the codebase.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreatePaymentIntent creates a one-time payment intent. The amount is given
// in major currency units and converted to minor units exactly once here.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	if amount <= 0 {
		return nil, errors.New("stripe: amount must be positive")
	}
	body := map[string]any{
		"amount":   MinorUnits(amount),
		"currency": strings.ToLower(currency),
	}
	if len(metadata) > 0 {
		body["metadata"] = metadata
	}
	raw, err := c.do(ctx, http.MethodPost, "/api/stripe/create-payment-intent", body)
	if err != nil {
		return nil, err
	}
	var intent PaymentIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, fmt.Errorf("stripe: decode payment intent: %w", err)
	}
	return &intent, nil
}

// CustomerSubscriptions lists a customer's subscriptions. The result is an
// empty slice, never nil, when the customer has none.
func (c *Client) CustomerSubscriptions(ctx context.Context, customerID string) ([]domain.Subscription, error) {
	if customerID == "" {
		return nil, errors.New("stripe: customer id is required")
	}
	path := "/api/stripe/subscriptions?customerId=" + url.QueryEscape(customerID)
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var decoded struct {
		Subscriptions []domain.Subscription `json:"subscriptions"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("stripe: decode subscriptions: %w", err)
	}
	if decoded.Subscriptions == nil {
		return []domain.Subscription{}, nil
	}
	return decoded.Subscriptions, nil
}

// CancelSubscription cancels a subscription. With cancelAtPeriodEnd true the
// cancellation takes effect at the end of the current billing period.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string, cancelAtPeriodEnd bool) (*SubscriptionResult, error) {
	if subscriptionID == "" {
		return nil, errors.New("stripe: subscription id is required")
	}
	body := map[string]any{"cancelAtPeriodEnd": cancelAtPeriodEnd}
	raw, err := c.do(ctx, http.MethodPost, "/api/stripe/subscriptions/"+url.PathEscape(subscriptionID)+"/cancel", body)
	if err != nil {
		return nil, err
	}
	return decodeSubscriptionResult(raw)
}

// ReactivateSubscription undoes a pending period-end cancellation.
func (c *Client) ReactivateSubscription(ctx context.Context, subscriptionID string) (*SubscriptionResult, error) {
	if subscriptionID == "" {
		return nil, errors.New("stripe: subscription id is required")
	}
	raw, err := c.do(ctx, http.MethodPost, "/api/stripe/subscriptions/"+url.PathEscape(subscriptionID)+"/reactivate", nil)
	if err != nil {
		return nil, err
	}
	return decodeSubscriptionResult(raw)
}

// CheckoutSession fetches the detail of a finished checkout session.
func (c *Client) CheckoutSession(ctx context.Context, sessionID string) (*CheckoutSessionDetail, error) {
	if sessionID == "" {
		return nil, errors.New("stripe: session id is required")
	}
	raw, err := c.do(ctx, http.MethodGet, "/api/stripe/checkout-session/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, err
	}
	var detail CheckoutSessionDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, fmt.Errorf("stripe: decode session detail: %w", err)
	}
	return &detail, nil
}

// UpdatePaymentMethod swaps the payment method backing a subscription.
func (c *Client) UpdatePaymentMethod(ctx context.Context, subscriptionID, paymentMethodID string) (*SubscriptionResult, error) {
	if subscriptionID == "" || paymentMethodID == "" {
		return nil, errors.New("stripe: subscription id and payment method id are required")
	}
	body := map[string]any{"paymentMethodId": paymentMethodID}
	raw, err := c.do(ctx, http.MethodPost, "/api/stripe/subscriptions/"+url.PathEscape(subscriptionID)+"/payment-method", body)
	if err != nil {
		return nil, err
	}
	return decodeSubscriptionResult(raw)
}

func decodeSubscriptionResult(raw []byte) (*SubscriptionResult, error) {
	var result SubscriptionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("stripe: decode subscription result: %w", err)
	}
	return &result, nil
}

// do runs one round trip against the gateway and returns the raw 2xx body.
// Non-2xx responses are normalized: the body's "error" field when present,
// otherwise a generic message. Never retries.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	call := func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, body)
	}
	if c.breaker == nil {
		return call()
	}
	raw, err := c.breaker.Execute(call)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	return raw, err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("stripe: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("stripe: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stripe: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("gateway call failed")
		return nil, fmt.Errorf("stripe: %s", errorMessage(raw, resp.StatusCode))
	}
	return raw, nil
}

// errorMessage extracts the body's "error" field; absence of that field (or a
// body that is not JSON) yields the generic fallback.
func errorMessage(raw []byte, status int) string {
	var decoded struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &decoded); err == nil && decoded.Error != "" {
		return decoded.Error
	}
	return fmt.Sprintf("%s (status %d)", genericErrorMessage, status)
}
