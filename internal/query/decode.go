package query

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Decode is the reference decoder for the external schema. It exists so the
// encoder can be verified round-trip and so captured query strings can be
// inspected; the search path itself never decodes.
func Decode(data []byte) (SearchCriteria, error) {
	var c SearchCriteria
	var passengers []PassengerCategory

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return c, fmt.Errorf("malformed tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldInfoLegs:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return c, fmt.Errorf("legs: %w", err)
			}
			data = data[n:]
			leg, err := decodeLeg(raw)
			if err != nil {
				return c, err
			}
			c.Legs = append(c.Legs, leg)

		case fieldInfoPassengers:
			// Accept both packed and unpacked forms.
			switch typ {
			case protowire.BytesType:
				raw, n := protowire.ConsumeBytes(data)
				if n < 0 {
					return c, fmt.Errorf("passengers: %w", protowire.ParseError(n))
				}
				data = data[n:]
				for len(raw) > 0 {
					v, n := protowire.ConsumeVarint(raw)
					if n < 0 {
						return c, fmt.Errorf("packed passenger: %w", protowire.ParseError(n))
					}
					raw = raw[n:]
					passengers = append(passengers, PassengerCategory(v))
				}
			case protowire.VarintType:
				v, n := protowire.ConsumeVarint(data)
				if n < 0 {
					return c, fmt.Errorf("passenger: %w", protowire.ParseError(n))
				}
				data = data[n:]
				passengers = append(passengers, PassengerCategory(v))
			default:
				return c, fmt.Errorf("passengers: unexpected wire type %d", typ)
			}

		case fieldInfoSeat:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return c, fmt.Errorf("seat: %w", err)
			}
			data = data[n:]
			c.Seat = SeatClass(v)

		case fieldInfoTrip:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return c, fmt.Errorf("trip: %w", err)
			}
			data = data[n:]
			c.Trip = TripType(v)

		default:
			return c, fmt.Errorf("unexpected field %d in search descriptor", num)
		}
	}

	for _, p := range passengers {
		switch p {
		case PassengerAdult:
			c.Passengers.Adults++
		case PassengerChild:
			c.Passengers.Children++
		case PassengerInfantInSeat:
			c.Passengers.InfantsInSeat++
		case PassengerInfantOnLap:
			c.Passengers.InfantsOnLap++
		default:
			return c, fmt.Errorf("unknown passenger category %d", p)
		}
	}

	return c, nil
}

// DecodeQuery decodes a URL-safe query value produced by EncodeQuery.
func DecodeQuery(encoded string) (SearchCriteria, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return SearchCriteria{}, fmt.Errorf("invalid base64url query value: %w", err)
	}
	return Decode(raw)
}

func decodeLeg(data []byte) (FlightLeg, error) {
	var leg FlightLeg
	var depEarliest, depLatest, arrEarliest, arrLatest *int

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return leg, fmt.Errorf("malformed leg tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldLegDate:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return leg, fmt.Errorf("leg date: %w", err)
			}
			data = data[n:]
			leg.Date = s

		case fieldLegSelected:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return leg, fmt.Errorf("selected flight: %w", err)
			}
			data = data[n:]
			sel, err := decodeSelected(raw)
			if err != nil {
				return leg, err
			}
			leg.Selected = &sel

		case fieldLegMaxStops:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return leg, fmt.Errorf("max stops: %w", err)
			}
			data = data[n:]
			stops := int(v)
			leg.MaxStops = &stops

		case fieldLegAirlines:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return leg, fmt.Errorf("airline: %w", err)
			}
			data = data[n:]
			leg.Airlines = append(leg.Airlines, s)

		case fieldLegDepartureEarliest, fieldLegDepartureLatest, fieldLegArrivalEarliest, fieldLegArrivalLatest:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return leg, fmt.Errorf("hour bound: %w", err)
			}
			data = data[n:]
			hour := int(v)
			switch num {
			case fieldLegDepartureEarliest:
				depEarliest = &hour
			case fieldLegDepartureLatest:
				depLatest = &hour
			case fieldLegArrivalEarliest:
				arrEarliest = &hour
			case fieldLegArrivalLatest:
				arrLatest = &hour
			}

		case fieldLegOrigin, fieldLegDestination:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return leg, fmt.Errorf("airport: %w", err)
			}
			data = data[n:]
			code, err := decodeAirport(raw)
			if err != nil {
				return leg, err
			}
			if num == fieldLegOrigin {
				leg.Origin = code
			} else {
				leg.Destination = code
			}

		default:
			return leg, fmt.Errorf("unexpected field %d in flight leg", num)
		}
	}

	if w := windowFromBounds(depEarliest, depLatest); w != nil {
		leg.Departure = w
	}
	if w := windowFromBounds(arrEarliest, arrLatest); w != nil {
		leg.Arrival = w
	}
	return leg, nil
}

func windowFromBounds(earliest, latest *int) *TimeWindow {
	if earliest == nil && latest == nil {
		return nil
	}
	w := &TimeWindow{}
	if earliest != nil {
		w.Earliest = *earliest
	}
	if latest != nil {
		w.Latest = *latest
	}
	return w
}

func decodeAirport(data []byte) (string, error) {
	var code string
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return "", fmt.Errorf("malformed airport tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		if num != fieldAirportCode {
			return "", fmt.Errorf("unexpected field %d in airport", num)
		}
		s, n, err := consumeString(data, typ)
		if err != nil {
			return "", fmt.Errorf("airport code: %w", err)
		}
		data = data[n:]
		code = s
	}
	return code, nil
}

func decodeSelected(data []byte) (SelectedFlight, error) {
	var sel SelectedFlight
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return sel, fmt.Errorf("malformed selected flight tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		s, n, err := consumeString(data, typ)
		if err != nil {
			return sel, fmt.Errorf("selected flight field %d: %w", num, err)
		}
		data = data[n:]

		switch num {
		case fieldSelectedOrigin:
			sel.Origin = s
		case fieldSelectedDate:
			sel.Date = s
		case fieldSelectedDestination:
			sel.Destination = s
		case fieldSelectedAirlineCode:
			sel.AirlineCode = s
		case fieldSelectedFlightNumber:
			sel.FlightNumber = s
		default:
			return sel, fmt.Errorf("unexpected field %d in selected flight", num)
		}
	}
	return sel, nil
}

func consumeVarint(data []byte, typ protowire.Type) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, fmt.Errorf("expected varint, got wire type %d", typ)
	}
	v, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeBytes(data []byte, typ protowire.Type) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, fmt.Errorf("expected length-delimited, got wire type %d", typ)
	}
	v, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeString(data []byte, typ protowire.Type) (string, int, error) {
	v, n, err := consumeBytes(data, typ)
	return string(v), n, err
}
