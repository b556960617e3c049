package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrProductBlocked   = errors.New("product not available")
	ErrNoPriceSelected  = errors.New("no price selected")
	ErrCheckoutInFlight = errors.New("checkout already in progress")
	ErrGatewayFailure   = errors.New("payment gateway failure")
)
