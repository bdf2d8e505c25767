// Package extract pulls structured flight offers out of the search result
// markup. The document is never modeled in full: offer rows are located by
// structural selectors and each field is read independently, so a layout
// drift in one corner degrades one field instead of the whole parse.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// PriceLevel is the document-level judgement of current fares.
type PriceLevel string

const (
	PriceLevelLow     PriceLevel = "low"
	PriceLevelTypical PriceLevel = "typical"
	PriceLevelHigh    PriceLevel = "high"
	PriceLevelUnknown PriceLevel = "unknown"
)

// Price is an offer price: an integer amount plus the currency-like unit
// glyph it was rendered with.
type Price struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"`
}

var priceRe = regexp.MustCompile(`^([^\d]*)(\d+)`)

// parsePrice splits a rendered price like "$1,234" or "€89" into amount and
// unit. The boolean is false when no digits are present at all.
func parsePrice(text string) (Price, bool) {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return Price{}, false
	}
	amount, err := strconv.Atoi(m[2])
	if err != nil {
		return Price{}, false
	}
	return Price{Amount: amount, Unit: strings.TrimSpace(m[1])}, true
}

// FlightRecord is one extracted offer.
type FlightRecord struct {
	Airline      string `json:"airline"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	ArrivalAhead string `json:"arrival_ahead,omitempty"` // e.g. "+1" when landing on a later day
	Duration     string `json:"duration"`
	Stops        int    `json:"stops"`
	Delay        string `json:"delay,omitempty"`
	Price        Price  `json:"price"`
	Best         bool   `json:"best"`
	AirlineCode  string `json:"airline_code,omitempty"`
	FlightNumber string `json:"flight_number,omitempty"`
}

// FlightResult is the complete outcome of one extraction. Offer order is
// preserved from the document: it encodes the upstream ranking.
type FlightResult struct {
	PriceLevel PriceLevel     `json:"price_level"`
	Offers     []FlightRecord `json:"offers"`
	// Discarded counts offer rows dropped because a required field could
	// not be located. Diagnostic only.
	Discarded int `json:"discarded,omitempty"`
}
