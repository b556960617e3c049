package domain

import "strings"

// Category classifies purchasable offerings. Consultations are an add-on
// service and are exempt from the subscription-exclusivity rule; every other
// category is mutually exclusive per user.
type Category string

const (
	CategoryComplete     Category = "complete"
	CategoryNutrition    Category = "nutrition"
	CategoryConsultation Category = "consultation"
	CategoryContent      Category = "content"
)

// Interval is a billing recurrence. An empty interval means a one-time charge.
type Interval string

const IntervalMonth Interval = "month"

// LocalizedText carries the English and Hebrew renderings of a copy string.
type LocalizedText struct {
	EN string `json:"en"`
	HE string `json:"he"`
}

// In returns the rendering for the given locale, falling back to English.
func (t LocalizedText) In(locale string) string {
	if locale == "he" && t.HE != "" {
		return t.HE
	}
	return t.EN
}

// Price is one payable variant of a Product. Amounts are integers in minor
// units for both supported display currencies; monetary values are never
// floating point.
type Price struct {
	ID               string   `json:"id"`
	AmountILS        int64    `json:"amountIls"`
	AmountUSD        int64    `json:"amountUsd"`
	Currency         string   `json:"currency"`
	Interval         Interval `json:"interval,omitempty"`
	CommitmentMonths int      `json:"commitmentMonths,omitempty"`
	Popular          bool     `json:"popular,omitempty"`
	Discount         string   `json:"discount,omitempty"`
}

// Recurring reports whether the price bills on an interval.
func (p Price) Recurring() bool {
	return p.Interval != ""
}

// Amount returns the minor-unit amount for a display currency code.
func (p Price) Amount(currency string) int64 {
	if strings.EqualFold(currency, "USD") {
		return p.AmountUSD
	}
	return p.AmountILS
}

// Product is a purchasable offering. Products are declared at build time and
// never mutated at runtime; every product owns at least one price.
type Product struct {
	ID          string          `json:"id"`
	Name        LocalizedText   `json:"name"`
	Description LocalizedText   `json:"description"`
	Category    Category        `json:"category"`
	Prices      []Price         `json:"prices"`
	Features    []LocalizedText `json:"features"`
}
