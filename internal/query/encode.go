package query

import (
	"encoding/base64"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the external schema. The upstream service is the source
// of truth here; none of these may drift.
const (
	fieldInfoLegs       = 3
	fieldInfoPassengers = 8
	fieldInfoSeat       = 9
	fieldInfoTrip       = 19

	fieldLegDate              = 2
	fieldLegSelected          = 4
	fieldLegMaxStops          = 5
	fieldLegAirlines          = 6
	fieldLegDepartureEarliest = 8
	fieldLegDepartureLatest   = 9
	fieldLegArrivalEarliest   = 10
	fieldLegArrivalLatest     = 11
	fieldLegOrigin            = 13
	fieldLegDestination       = 14

	fieldAirportCode = 2

	fieldSelectedOrigin       = 1
	fieldSelectedDate         = 2
	fieldSelectedDestination  = 3
	fieldSelectedAirlineCode  = 5
	fieldSelectedFlightNumber = 6
)

// Encode serializes the criteria into the external binary schema. It is a
// total function: criteria must have passed Validate first, and every
// optional field that is absent is omitted from the output entirely.
func Encode(c SearchCriteria) []byte {
	var buf []byte

	for _, leg := range c.Legs {
		buf = protowire.AppendTag(buf, fieldInfoLegs, protowire.BytesType)
		buf = protowire.AppendBytes(buf, encodeLeg(leg))
	}

	// One entry per individual traveller, packed.
	if list := c.Passengers.Expand(); len(list) > 0 {
		var packed []byte
		for _, p := range list {
			packed = protowire.AppendVarint(packed, uint64(p))
		}
		buf = protowire.AppendTag(buf, fieldInfoPassengers, protowire.BytesType)
		buf = protowire.AppendBytes(buf, packed)
	}

	if c.Seat != SeatUnknown {
		buf = protowire.AppendTag(buf, fieldInfoSeat, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(c.Seat))
	}

	if c.Trip != TripUnknown {
		buf = protowire.AppendTag(buf, fieldInfoTrip, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(c.Trip))
	}

	return buf
}

func encodeLeg(leg FlightLeg) []byte {
	var buf []byte

	buf = appendString(buf, fieldLegDate, leg.Date)

	if leg.Selected != nil {
		buf = protowire.AppendTag(buf, fieldLegSelected, protowire.BytesType)
		buf = protowire.AppendBytes(buf, encodeSelected(*leg.Selected))
	}

	if leg.MaxStops != nil {
		buf = protowire.AppendTag(buf, fieldLegMaxStops, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(*leg.MaxStops))
	}

	for _, airline := range leg.Airlines {
		buf = appendString(buf, fieldLegAirlines, airline)
	}

	// Hour bounds carry presence: hour zero is a real constraint and must
	// still be encoded, so the nil check is the only presence gate.
	if w := leg.Departure; w != nil {
		buf = appendHour(buf, fieldLegDepartureEarliest, w.Earliest)
		buf = appendHour(buf, fieldLegDepartureLatest, w.Latest)
	}
	if w := leg.Arrival; w != nil {
		buf = appendHour(buf, fieldLegArrivalEarliest, w.Earliest)
		buf = appendHour(buf, fieldLegArrivalLatest, w.Latest)
	}

	buf = protowire.AppendTag(buf, fieldLegOrigin, protowire.BytesType)
	buf = protowire.AppendBytes(buf, encodeAirport(leg.Origin))

	buf = protowire.AppendTag(buf, fieldLegDestination, protowire.BytesType)
	buf = protowire.AppendBytes(buf, encodeAirport(leg.Destination))

	return buf
}

func encodeAirport(code string) []byte {
	return appendString(nil, fieldAirportCode, code)
}

func encodeSelected(sel SelectedFlight) []byte {
	var buf []byte
	buf = appendString(buf, fieldSelectedOrigin, sel.Origin)
	buf = appendString(buf, fieldSelectedDate, sel.Date)
	buf = appendString(buf, fieldSelectedDestination, sel.Destination)
	buf = appendString(buf, fieldSelectedAirlineCode, sel.AirlineCode)
	buf = appendString(buf, fieldSelectedFlightNumber, sel.FlightNumber)
	return buf
}

func appendString(buf []byte, field protowire.Number, s string) []byte {
	buf = protowire.AppendTag(buf, field, protowire.BytesType)
	return protowire.AppendString(buf, s)
}

func appendHour(buf []byte, field protowire.Number, hour int) []byte {
	buf = protowire.AppendTag(buf, field, protowire.VarintType)
	return protowire.AppendVarint(buf, uint64(hour))
}

// EncodeQuery encodes the criteria and wraps them into the URL-safe query
// value (base64url, no padding).
func EncodeQuery(c SearchCriteria) string {
	return base64.RawURLEncoding.EncodeToString(Encode(c))
}

// BuildURL assembles the final request URL for an encoded query value.
func BuildURL(baseURL, encoded string) string {
	return baseURL + "?tfs=" + encoded
}
