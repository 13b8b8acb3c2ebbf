// Package domain contains the core entities and rules of the fare tracker.
// These types are independent of the booking API wire format and of the
// storage backend, and form the vocabulary shared by every other package.
package domain

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// DefaultCurrency is the currency the booking API quotes fares in.
const DefaultCurrency = "RUB"

// DayResult is the upstream payload for one SearchKey.
// A DayResult without flights and prices is a valid "no flights that day" fact.
type DayResult struct {
	// Date is the departure date this payload covers
	Date Date `json:"date"`

	// Origin is the departure city code
	Origin string `json:"origin"`

	// Destination is the arrival city code
	Destination string `json:"destination"`

	// PromoCode is the promo code the fares were quoted with (may be empty)
	PromoCode string `json:"promo_code,omitempty"`

	// Flights lists the flight chains operated that day
	Flights []FlightGroup `json:"flights"`

	// Prices holds the fare table keyed by chain id
	Prices []PriceGroup `json:"prices"`
}

// FlightGroup is one bookable chain of legs.
type FlightGroup struct {
	ChainID string      `json:"chainId"`
	Flights []FlightLeg `json:"flights"`
}

// FlightLeg describes a single flight within a chain.
type FlightLeg struct {
	RaceNumber      string `json:"racenumber,omitempty"`
	OriginPort      string `json:"originport,omitempty"`
	DestinationPort string `json:"destinationport,omitempty"`
	DepartureTime   string `json:"departuretime,omitempty"`
	ArrivalTime     string `json:"arrivaltime,omitempty"`
	FlightTime      string `json:"flighttime,omitempty"`
	Airplane        string `json:"airplane,omitempty"`
}

// PriceGroup maps a chain id to the tariffs offered on it.
type PriceGroup map[string][]Tariff

// Tariff is one fare class offered on a chain.
type Tariff struct {
	Brand     string `json:"brand"`
	Price     Amount `json:"price"`
	Available int    `json:"available"`
	Currency  string `json:"currency,omitempty"`
}

// Amount is a price that may be missing or non-numeric in the upstream payload.
// Invalid amounts never take part in price comparisons.
type Amount struct {
	Value float64
	Valid bool
}

// NewAmount returns a valid Amount.
func NewAmount(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// UnmarshalJSON accepts JSON numbers and numeric strings.
// Anything else decodes to an invalid Amount rather than failing the payload.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{}

	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		return nil
	}
	raw = strings.TrimSpace(strings.Trim(raw, `"`))
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	*a = NewAmount(v)
	return nil
}

// MarshalJSON writes invalid amounts as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(a.Value, 'f', -1, 64)), nil
}

// HasData reports whether the day carries any flights or prices.
func (d *DayResult) HasData() bool {
	return d != nil && (len(d.Flights) > 0 || len(d.Prices) > 0)
}

// MinPrice returns the cheapest valid fare across every chain and fare class.
// ok is false when no tariff carries a numeric price.
func (d *DayResult) MinPrice() (price float64, ok bool) {
	if d == nil {
		return 0, false
	}

	price = math.Inf(1)
	for _, group := range d.Prices {
		for _, tariffs := range group {
			for _, t := range tariffs {
				if t.Price.Valid && t.Price.Value < price {
					price = t.Price.Value
				}
			}
		}
	}

	if math.IsInf(price, 1) {
		return 0, false
	}
	return price, true
}

// Key returns the SearchKey this payload answers.
func (d *DayResult) Key() SearchKey {
	return SearchKey{
		Origin:      d.Origin,
		Destination: d.Destination,
		Date:        d.Date,
		PromoCode:   d.PromoCode,
	}
}
