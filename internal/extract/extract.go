package extract

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/avoronov/skyfare/pkg/logger"
)

// ErrOffersNotFound means the offers container could not be located at all.
// That is the signature of a layout change or a challenge page, not of a
// search with zero results: an empty result list inside a recognized
// container is returned as a valid empty FlightResult.
var ErrOffersNotFound = errors.New("extract: offers container not found in document")

// Structural markers of the result document. Offer sections are the
// "best" and "other" departure lists; rows live in a list inside each.
const (
	sectionBestMarker  = "IWWDBc"
	sectionOtherMarker = "YdtKid"
	offerListClass     = "Rk10dc"
	priceLevelClass    = "gOatQ"
	delayClass         = "GsCCve"
	arrivalAheadClass  = "bOzv6"
	flightInfoClass    = "NZRfve"
	flightInfoAttr     = "data-travelimpactmodelwebsiteurl"
)

// Extractor parses search result documents into FlightResults.
type Extractor struct {
	logger *logger.Logger
}

// NewExtractor creates a new result extractor.
func NewExtractor(logger *logger.Logger) *Extractor {
	return &Extractor{logger: logger.Named("extract")}
}

// Extract parses the document markup and returns the offers it describes.
func (e *Extractor) Extract(markup string) (*FlightResult, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// html.Parse recovers from almost anything; an error here means
		// the input is not a document at all.
		return nil, ErrOffersNotFound
	}

	sections := findAll(doc, func(n *html.Node) bool {
		if !isElement(n, "div") {
			return false
		}
		v, ok := attrVal(n, "jsname")
		return ok && (v == sectionBestMarker || v == sectionOtherMarker)
	})
	if len(sections) == 0 {
		return nil, ErrOffersNotFound
	}

	result := &FlightResult{
		PriceLevel: e.extractPriceLevel(doc),
		Offers:     []FlightRecord{},
	}

	for i, section := range sections {
		best := i == 0
		rows := offerRows(section)
		// The trailing row of a non-best section is a "view more" stub,
		// not an offer.
		if !best && len(rows) > 0 {
			rows = rows[:len(rows)-1]
		}
		for _, row := range rows {
			record, ok := e.extractRecord(row, best)
			if !ok {
				result.Discarded++
				continue
			}
			result.Offers = append(result.Offers, record)
		}
	}

	e.logger.Debug("Extracted flight offers",
		logger.Int("offers", len(result.Offers)),
		logger.Int("discarded", result.Discarded),
		logger.String("price_level", string(result.PriceLevel)),
	)

	return result, nil
}

func offerRows(section *html.Node) []*html.Node {
	var rows []*html.Node
	lists := findAll(section, func(n *html.Node) bool {
		return isElement(n, "ul") && hasClasses(n, offerListClass)
	})
	for _, list := range lists {
		rows = append(rows, childElements(list, "li")...)
	}
	return rows
}

// extractRecord reads one offer row. Required fields (airline, departure,
// arrival, duration, price) cause the row to be discarded when missing;
// optional fields degrade to their zero values.
func (e *Extractor) extractRecord(row *html.Node, best bool) (FlightRecord, bool) {
	record := FlightRecord{Best: best}

	nameEl := findFirst(row, func(n *html.Node) bool {
		return isElement(n, "div") && hasClasses(n, "sSHqwe", "tPgKwe", "ogfYpf")
	})
	if nameEl != nil {
		if span := findFirst(nameEl, func(n *html.Node) bool { return isElement(n, "span") }); span != nil {
			record.Airline = textContent(span)
		}
	}
	if record.Airline == "" {
		e.logger.Debug("Discarding offer row: airline name not found")
		return record, false
	}

	record.Departure, record.Arrival = extractTimes(row)
	if record.Departure == "" || record.Arrival == "" {
		e.logger.Debug("Discarding offer row: departure/arrival not found",
			logger.String("airline", record.Airline))
		return record, false
	}

	if ahead := findFirst(row, func(n *html.Node) bool {
		return isElement(n, "span") && hasClasses(n, arrivalAheadClass)
	}); ahead != nil {
		record.ArrivalAhead = textContent(ahead)
	}

	record.Duration = extractDuration(row)
	if record.Duration == "" {
		e.logger.Debug("Discarding offer row: duration not found",
			logger.String("airline", record.Airline))
		return record, false
	}

	stops, ok := extractStops(row)
	if !ok {
		e.logger.Debug("Discarding offer row: stop count not found",
			logger.String("airline", record.Airline))
		return record, false
	}
	record.Stops = stops

	if delayEl := findFirst(row, func(n *html.Node) bool { return hasClasses(n, delayClass) }); delayEl != nil {
		record.Delay = textContent(delayEl)
	}

	priceEl := findFirst(row, func(n *html.Node) bool { return hasClasses(n, "YMlIz", "FpEdX") })
	if priceEl == nil {
		e.logger.Debug("Discarding offer row: price not found",
			logger.String("airline", record.Airline))
		return record, false
	}
	price, ok := parsePrice(textContent(priceEl))
	if !ok {
		e.logger.Debug("Discarding offer row: unparseable price",
			logger.String("airline", record.Airline))
		return record, false
	}
	record.Price = price

	record.AirlineCode, record.FlightNumber = extractFlightIdentity(row)

	return record, true
}

// extractTimes returns the departure and arrival time texts: the first two
// entries under the time container, in document order.
func extractTimes(row *html.Node) (string, string) {
	container := findFirst(row, func(n *html.Node) bool {
		return isElement(n, "span") && hasClasses(n, "mv1WYe")
	})
	if container == nil {
		return "", ""
	}
	divs := findAll(container, func(n *html.Node) bool { return isElement(n, "div") })
	var times []string
	for _, d := range divs {
		if t := textContent(d); t != "" {
			times = append(times, t)
		}
	}
	if len(times) < 2 {
		return "", ""
	}
	return times[0], times[1]
}

func extractDuration(row *html.Node) string {
	container := findFirst(row, func(n *html.Node) bool {
		return isElement(n, "div") && hasClasses(n, "Ak5kof")
	})
	if container == nil {
		return ""
	}
	if d := findFirst(container, func(n *html.Node) bool { return isElement(n, "div") }); d != nil {
		return textContent(d)
	}
	return ""
}

// extractStops maps the rendered stop text to a count. "Nonstop" is zero;
// anything else must start with the stop count.
func extractStops(row *html.Node) (int, bool) {
	container := findFirst(row, func(n *html.Node) bool { return hasClasses(n, "BbR8Ec") })
	if container == nil {
		return 0, false
	}
	stopsEl := findFirst(container, func(n *html.Node) bool { return hasClasses(n, "ogfYpf") })
	if stopsEl == nil {
		return 0, false
	}
	text := textContent(stopsEl)
	if strings.EqualFold(text, "Nonstop") {
		return 0, true
	}
	first, _, _ := strings.Cut(text, " ")
	n, err := strconv.Atoi(first)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

var itineraryRe = regexp.MustCompile(`itinerary=([^&]+)`)

// extractFlightIdentity derives the normalized airline code and flight
// number from the emissions-lookup URL attached to the row, when present.
// The itinerary parameter has the form ORIGIN-DEST-AIRLINE-NUMBER-DATE,
// comma-separated for multi-leg offers; only the first leg is taken.
func extractFlightIdentity(row *html.Node) (string, string) {
	infoEl := findFirst(row, func(n *html.Node) bool { return hasClasses(n, flightInfoClass) })
	if infoEl == nil {
		return "", ""
	}
	url, ok := attrVal(infoEl, flightInfoAttr)
	if !ok {
		return "", ""
	}
	m := itineraryRe.FindStringSubmatch(url)
	if m == nil {
		return "", ""
	}
	firstLeg, _, _ := strings.Cut(m[1], ",")
	parts := strings.Split(firstLeg, "-")
	if len(parts) < 4 {
		return "", ""
	}
	return parts[2], parts[3]
}

func (e *Extractor) extractPriceLevel(doc *html.Node) PriceLevel {
	el := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, "span") && hasClasses(n, priceLevelClass)
	})
	if el == nil {
		return PriceLevelUnknown
	}
	text := strings.ToLower(textContent(el))
	for _, level := range []PriceLevel{PriceLevelLow, PriceLevelTypical, PriceLevelHigh} {
		if strings.Contains(text, string(level)) {
			return level
		}
	}
	return PriceLevelUnknown
}
