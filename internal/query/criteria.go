// Package query builds the binary search descriptor understood by the
// flight search endpoint and carries the request-side data model.
package query

import (
	"fmt"
	"time"
)

// TripType selects the itinerary shape. Values are the wire codes the
// external schema expects.
type TripType int32

const (
	TripUnknown   TripType = 0
	TripRoundTrip TripType = 1
	TripOneWay    TripType = 2
	TripMultiCity TripType = 3
)

// ParseTripType parses a textual trip type.
func ParseTripType(s string) (TripType, error) {
	switch s {
	case "round-trip", "roundtrip":
		return TripRoundTrip, nil
	case "one-way", "oneway":
		return TripOneWay, nil
	case "multi-city", "multicity":
		return TripMultiCity, nil
	}
	return TripUnknown, fmt.Errorf("invalid trip type: %q", s)
}

func (t TripType) String() string {
	switch t {
	case TripRoundTrip:
		return "round-trip"
	case TripOneWay:
		return "one-way"
	case TripMultiCity:
		return "multi-city"
	}
	return "unknown"
}

// SeatClass selects the cabin. Values are the wire codes the external
// schema expects.
type SeatClass int32

const (
	SeatUnknown        SeatClass = 0
	SeatEconomy        SeatClass = 1
	SeatPremiumEconomy SeatClass = 2
	SeatBusiness       SeatClass = 3
	SeatFirst          SeatClass = 4
)

// ParseSeatClass parses a textual seat class.
func ParseSeatClass(s string) (SeatClass, error) {
	switch s {
	case "economy":
		return SeatEconomy, nil
	case "premium-economy", "premium_economy":
		return SeatPremiumEconomy, nil
	case "business":
		return SeatBusiness, nil
	case "first":
		return SeatFirst, nil
	}
	return SeatUnknown, fmt.Errorf("invalid seat class: %q", s)
}

func (s SeatClass) String() string {
	switch s {
	case SeatEconomy:
		return "economy"
	case SeatPremiumEconomy:
		return "premium-economy"
	case SeatBusiness:
		return "business"
	case SeatFirst:
		return "first"
	}
	return "unknown"
}

// PassengerCategory is one traveller category. Values are the wire codes
// the external schema expects.
type PassengerCategory int32

const (
	PassengerUnknown      PassengerCategory = 0
	PassengerAdult        PassengerCategory = 1
	PassengerChild        PassengerCategory = 2
	PassengerInfantInSeat PassengerCategory = 3
	PassengerInfantOnLap  PassengerCategory = 4
)

// Passengers holds the traveller counts by category.
type Passengers struct {
	Adults        int `json:"adults"`
	Children      int `json:"children"`
	InfantsInSeat int `json:"infants_in_seat"`
	InfantsOnLap  int `json:"infants_on_lap"`
}

// DefaultPassengers is a single adult.
func DefaultPassengers() Passengers {
	return Passengers{Adults: 1}
}

// Expand returns one category entry per individual traveller, grouped by
// category in adult, child, infant-in-seat, infant-on-lap order. The
// external service expects the list in this expanded form, not counts.
func (p Passengers) Expand() []PassengerCategory {
	out := make([]PassengerCategory, 0, p.Adults+p.Children+p.InfantsInSeat+p.InfantsOnLap)
	for i := 0; i < p.Adults; i++ {
		out = append(out, PassengerAdult)
	}
	for i := 0; i < p.Children; i++ {
		out = append(out, PassengerChild)
	}
	for i := 0; i < p.InfantsInSeat; i++ {
		out = append(out, PassengerInfantInSeat)
	}
	for i := 0; i < p.InfantsOnLap; i++ {
		out = append(out, PassengerInfantOnLap)
	}
	return out
}

// SelectedFlight pins a specific carrier and flight number for one leg of
// an already-chosen itinerary.
type SelectedFlight struct {
	Origin       string `json:"origin"`
	Date         string `json:"date"`
	Destination  string `json:"destination"`
	AirlineCode  string `json:"airline_code"`
	FlightNumber string `json:"flight_number"`
}

// FlightLeg is one origin/date/destination segment of an itinerary.
type FlightLeg struct {
	Date        string          `json:"date"` // YYYY-MM-DD
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	MaxStops    *int            `json:"max_stops,omitempty"`
	Airlines    []string        `json:"airlines,omitempty"`
	Departure   *TimeWindow     `json:"departure_window,omitempty"`
	Arrival     *TimeWindow     `json:"arrival_window,omitempty"`
	Selected    *SelectedFlight `json:"selected_flight,omitempty"`
}

// SearchCriteria is a complete, encoder-ready search request.
type SearchCriteria struct {
	Legs       []FlightLeg `json:"legs"`
	Trip       TripType    `json:"trip"`
	Seat       SeatClass   `json:"seat"`
	Passengers Passengers  `json:"passengers"`
}

// ValidationError reports a malformed SearchCriteria. It is always raised
// before encoding; the encoder itself never fails.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid search criteria: " + e.Msg
	}
	return fmt.Sprintf("invalid search criteria: %s: %s", e.Field, e.Msg)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Validate checks the criteria invariants. Criteria that pass validation
// are guaranteed encodable.
func (c SearchCriteria) Validate() error {
	if len(c.Legs) == 0 {
		return invalid("legs", "at least one flight leg is required")
	}

	switch c.Trip {
	case TripOneWay, TripRoundTrip:
	case TripMultiCity:
		return invalid("trip", "multi-city itineraries are not supported")
	default:
		return invalid("trip", "trip type is required")
	}

	if c.Trip == TripRoundTrip {
		if len(c.Legs) != 2 {
			return invalid("legs", "round-trip requires exactly two legs, got %d", len(c.Legs))
		}
		out, back := c.Legs[0], c.Legs[1]
		if back.Origin != out.Destination || back.Destination != out.Origin {
			return invalid("legs", "round-trip return leg must mirror the outbound leg")
		}
	}

	if c.Seat == SeatUnknown {
		return invalid("seat", "seat class is required")
	}

	p := c.Passengers
	if p.Adults < 0 || p.Children < 0 || p.InfantsInSeat < 0 || p.InfantsOnLap < 0 {
		return invalid("passengers", "passenger counts must be non-negative")
	}
	if p.Adults < 1 {
		return invalid("passengers", "at least one adult is required")
	}

	for i, leg := range c.Legs {
		field := fmt.Sprintf("legs[%d]", i)
		if leg.Origin == "" {
			return invalid(field+".origin", "origin airport is required")
		}
		if leg.Destination == "" {
			return invalid(field+".destination", "destination airport is required")
		}
		if _, err := time.Parse("2006-01-02", leg.Date); err != nil {
			return invalid(field+".date", "date must be YYYY-MM-DD, got %q", leg.Date)
		}
		if leg.MaxStops != nil && *leg.MaxStops < 0 {
			return invalid(field+".max_stops", "max stops must be non-negative")
		}
		for _, w := range []*TimeWindow{leg.Departure, leg.Arrival} {
			if w == nil {
				continue
			}
			if err := w.validate(); err != nil {
				return invalid(field, "%v", err)
			}
		}
	}

	return nil
}
