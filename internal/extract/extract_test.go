package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/skyfare/pkg/logger"
)

type rowOpts struct {
	airline   string
	departure string
	arrival   string
	ahead     string
	duration  string
	stops     string
	delay     string
	price     string
	infoURL   string
}

// offerRow renders one offer row with the structural markers the extractor
// keys on. Empty fields are left out of the markup entirely.
func offerRow(o rowOpts) string {
	var b strings.Builder
	b.WriteString(`<li>`)
	if o.airline != "" {
		fmt.Fprintf(&b, `<div class="sSHqwe tPgKwe ogfYpf"><span>%s</span></div>`, o.airline)
	}
	if o.departure != "" || o.arrival != "" {
		fmt.Fprintf(&b, `<span class="mv1WYe"><div>%s</div><div>%s</div></span>`, o.departure, o.arrival)
	}
	if o.ahead != "" {
		fmt.Fprintf(&b, `<span class="bOzv6">%s</span>`, o.ahead)
	}
	if o.duration != "" {
		fmt.Fprintf(&b, `<div class="Ak5kof"><div>%s</div></div>`, o.duration)
	}
	if o.stops != "" {
		fmt.Fprintf(&b, `<div class="BbR8Ec"><span class="ogfYpf">%s</span></div>`, o.stops)
	}
	if o.delay != "" {
		fmt.Fprintf(&b, `<span class="GsCCve">%s</span>`, o.delay)
	}
	if o.price != "" {
		fmt.Fprintf(&b, `<div class="YMlIz FpEdX"><span>%s</span></div>`, o.price)
	}
	if o.infoURL != "" {
		fmt.Fprintf(&b, `<div class="NZRfve" data-travelimpactmodelwebsiteurl="%s"></div>`, o.infoURL)
	}
	b.WriteString(`</li>`)
	return b.String()
}

func section(jsname string, rows ...string) string {
	return fmt.Sprintf(`<div jsname="%s"><ul class="Rk10dc">%s</ul></div>`,
		jsname, strings.Join(rows, ""))
}

func document(body string) string {
	return `<html><body>` + body + `</body></html>`
}

func completeRow() rowOpts {
	return rowOpts{
		airline:   "Delta",
		departure: "8:30 AM",
		arrival:   "4:45 PM",
		duration:  "5 hr 15 min",
		stops:     "Nonstop",
		price:     "$342",
		infoURL:   "https://travelimpactmodel.example/lookup?itinerary=LAX-JFK-DL-118-20251101",
	}
}

func newTestExtractor() *Extractor {
	return NewExtractor(logger.Nop())
}

func TestExtractCompleteOffer(t *testing.T) {
	markup := document(
		`<span class="gOatQ">Prices are currently low</span>` +
			section("IWWDBc", offerRow(completeRow())),
	)

	result, err := newTestExtractor().Extract(markup)
	require.NoError(t, err)

	assert.Equal(t, PriceLevelLow, result.PriceLevel)
	assert.Zero(t, result.Discarded)
	require.Len(t, result.Offers, 1)

	offer := result.Offers[0]
	assert.Equal(t, "Delta", offer.Airline)
	assert.Equal(t, "8:30 AM", offer.Departure)
	assert.Equal(t, "4:45 PM", offer.Arrival)
	assert.Equal(t, "5 hr 15 min", offer.Duration)
	assert.Equal(t, 0, offer.Stops)
	assert.Equal(t, Price{Amount: 342, Unit: "$"}, offer.Price)
	assert.True(t, offer.Best)
	assert.Equal(t, "DL", offer.AirlineCode)
	assert.Equal(t, "118", offer.FlightNumber)
}

func TestExtractOffersNotFound(t *testing.T) {
	_, err := newTestExtractor().Extract(document(`<div>nothing here</div>`))
	assert.ErrorIs(t, err, ErrOffersNotFound)
}

func TestExtractEmptySectionIsNotAnError(t *testing.T) {
	result, err := newTestExtractor().Extract(document(section("IWWDBc")))
	require.NoError(t, err)
	assert.Empty(t, result.Offers)
	assert.Zero(t, result.Discarded)
	assert.Equal(t, PriceLevelUnknown, result.PriceLevel)
}

func TestExtractNonBestSectionDropsTrailingRow(t *testing.T) {
	other := completeRow()
	other.airline = "United"
	stub := completeRow()
	stub.airline = "ViewMoreStub"

	markup := document(
		section("IWWDBc", offerRow(completeRow())) +
			section("YdtKid", offerRow(other), offerRow(stub)),
	)

	result, err := newTestExtractor().Extract(markup)
	require.NoError(t, err)
	require.Len(t, result.Offers, 2)

	assert.True(t, result.Offers[0].Best)
	assert.Equal(t, "Delta", result.Offers[0].Airline)
	assert.False(t, result.Offers[1].Best)
	assert.Equal(t, "United", result.Offers[1].Airline)
}

func TestExtractDiscardsRowsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*rowOpts)
	}{
		{"no airline", func(o *rowOpts) { o.airline = "" }},
		{"no times", func(o *rowOpts) { o.departure, o.arrival = "", "" }},
		{"no duration", func(o *rowOpts) { o.duration = "" }},
		{"no stops", func(o *rowOpts) { o.stops = "" }},
		{"unparseable stops", func(o *rowOpts) { o.stops = "several stops" }},
		{"no price", func(o *rowOpts) { o.price = "" }},
		{"unparseable price", func(o *rowOpts) { o.price = "call us" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broken := completeRow()
			tt.mutate(&broken)

			markup := document(section("IWWDBc", offerRow(broken), offerRow(completeRow())))
			result, err := newTestExtractor().Extract(markup)
			require.NoError(t, err)

			assert.Equal(t, 1, result.Discarded)
			require.Len(t, result.Offers, 1)
			assert.Equal(t, "Delta", result.Offers[0].Airline)
		})
	}
}

func TestExtractOptionalFieldsDegradeGracefully(t *testing.T) {
	row := completeRow()
	row.infoURL = ""

	result, err := newTestExtractor().Extract(document(section("IWWDBc", offerRow(row))))
	require.NoError(t, err)
	require.Len(t, result.Offers, 1)

	offer := result.Offers[0]
	assert.Empty(t, offer.AirlineCode)
	assert.Empty(t, offer.FlightNumber)
	assert.Empty(t, offer.Delay)
	assert.Empty(t, offer.ArrivalAhead)
}

func TestExtractOptionalFieldsWhenPresent(t *testing.T) {
	row := completeRow()
	row.stops = "2 stops"
	row.delay = "Delayed 30 min"
	row.ahead = "+1"

	result, err := newTestExtractor().Extract(document(section("IWWDBc", offerRow(row))))
	require.NoError(t, err)
	require.Len(t, result.Offers, 1)

	offer := result.Offers[0]
	assert.Equal(t, 2, offer.Stops)
	assert.Equal(t, "Delayed 30 min", offer.Delay)
	assert.Equal(t, "+1", offer.ArrivalAhead)
}

func TestExtractFlightIdentityMultiLeg(t *testing.T) {
	row := completeRow()
	row.infoURL = "https://travelimpactmodel.example/lookup?itinerary=LAX-ORD-UA-500-20251101,ORD-JFK-UA-612-20251101"

	result, err := newTestExtractor().Extract(document(section("IWWDBc", offerRow(row))))
	require.NoError(t, err)
	require.Len(t, result.Offers, 1)

	assert.Equal(t, "UA", result.Offers[0].AirlineCode)
	assert.Equal(t, "500", result.Offers[0].FlightNumber)
}

func TestExtractPriceLevels(t *testing.T) {
	tests := []struct {
		text string
		want PriceLevel
	}{
		{"Prices are currently low", PriceLevelLow},
		{"Prices are currently typical", PriceLevelTypical},
		{"Prices are currently high", PriceLevelHigh},
		{"No price trend available", PriceLevelUnknown},
	}

	for _, tt := range tests {
		markup := document(
			fmt.Sprintf(`<span class="gOatQ">%s</span>`, tt.text) +
				section("IWWDBc", offerRow(completeRow())),
		)
		result, err := newTestExtractor().Extract(markup)
		require.NoError(t, err)
		assert.Equal(t, tt.want, result.PriceLevel, tt.text)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in     string
		amount int
		unit   string
	}{
		{"$342", 342, "$"},
		{"$1,234", 1234, "$"},
		{"€89", 89, "€"},
		{"1500", 1500, ""},
	}
	for _, tt := range tests {
		p, ok := parsePrice(tt.in)
		require.True(t, ok, tt.in)
		assert.Equal(t, tt.amount, p.Amount, tt.in)
		assert.Equal(t, tt.unit, p.Unit, tt.in)
	}

	_, ok := parsePrice("price unavailable")
	assert.False(t, ok)
}
