// Package search composes city resolution, query encoding, transport, and
// extraction into whole flight searches. It owns no mechanism of its own:
// failures from the stages pass through with leg context attached, never
// rewritten.
package search

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/avoronov/skyfare/internal/cache"
	"github.com/avoronov/skyfare/internal/cities"
	"github.com/avoronov/skyfare/internal/extract"
	"github.com/avoronov/skyfare/internal/query"
	"github.com/avoronov/skyfare/pkg/logger"
)

// Transport performs the single network fetch of a search.
type Transport interface {
	Fetch(ctx context.Context, encoded string) (string, error)
}

// Service runs flight searches.
type Service struct {
	transport Transport
	extractor *extract.Extractor
	resolver  *cities.Resolver
	cache     cache.ResultCache
	logger    *logger.Logger
}

// NewService creates a search service. The cache may be a NoOpCache; the
// resolver may be nil when only airport-code searches are needed.
func NewService(transport Transport, extractor *extract.Extractor, resolver *cities.Resolver, resultCache cache.ResultCache, log *logger.Logger) *Service {
	if resultCache == nil {
		resultCache = cache.NewNoOpCache()
	}
	return &Service{
		transport: transport,
		extractor: extractor,
		resolver:  resolver,
		cache:     resultCache,
		logger:    log.Named("search"),
	}
}

// Search validates and executes an airport-code search.
func (s *Service) Search(ctx context.Context, criteria query.SearchCriteria) (*extract.FlightResult, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	encoded := query.EncodeQuery(criteria)

	if result, ok := s.cache.Get(ctx, encoded); ok {
		s.logger.Debug("Search served from cache",
			logger.Int("offers", len(result.Offers)))
		return result, nil
	}

	body, err := s.transport.Fetch(ctx, encoded)
	if err != nil {
		return nil, fmt.Errorf("search fetch failed: %w", err)
	}

	result, err := s.extractor.Extract(body)
	if err != nil {
		return nil, fmt.Errorf("search extraction failed: %w", err)
	}

	if err := s.cache.Set(ctx, encoded, result); err != nil {
		s.logger.Warn("Failed to cache search result", logger.Error(err))
	}

	s.logger.Info("Search completed",
		logger.Int("legs", len(criteria.Legs)),
		logger.Int("offers", len(result.Offers)),
		logger.Int("discarded", result.Discarded),
		logger.String("price_level", string(result.PriceLevel)),
	)

	return result, nil
}

// CityLeg is one itinerary segment addressed by city names instead of
// airport codes.
type CityLeg struct {
	Date            string          `json:"date"`
	OriginCity      string          `json:"origin_city"`
	DestinationCity string          `json:"destination_city"`
	MaxStops        *int            `json:"max_stops,omitempty"`
	Airlines        []string        `json:"airlines,omitempty"`
	Departure       *query.TimeWindow `json:"departure_window,omitempty"`
	Arrival         *query.TimeWindow `json:"arrival_window,omitempty"`
}

// CityRequest is a search request addressed by city names.
type CityRequest struct {
	Legs       []CityLeg        `json:"legs"`
	Trip       query.TripType   `json:"trip"`
	Seat       query.SeatClass  `json:"seat"`
	Passengers query.Passengers `json:"passengers"`
}

// SearchByCity resolves every city to an airport code and then runs the
// search. Legs resolve concurrently but are reassembled in request order
// before encoding: leg order is meaningful to the external schema. The
// first unresolvable city fails the whole request.
func (s *Service) SearchByCity(ctx context.Context, req CityRequest) (*extract.FlightResult, error) {
	if s.resolver == nil {
		return nil, fmt.Errorf("city search requires a city resolver")
	}

	legs := make([]query.FlightLeg, len(req.Legs))
	g, gctx := errgroup.WithContext(ctx)

	for i, cityLeg := range req.Legs {
		g.Go(func() error {
			origin, err := s.resolver.Resolve(gctx, cityLeg.OriginCity)
			if err != nil {
				return fmt.Errorf("leg %d origin: %w", i+1, err)
			}
			destination, err := s.resolver.Resolve(gctx, cityLeg.DestinationCity)
			if err != nil {
				return fmt.Errorf("leg %d destination: %w", i+1, err)
			}
			legs[i] = query.FlightLeg{
				Date:        cityLeg.Date,
				Origin:      origin,
				Destination: destination,
				MaxStops:    cityLeg.MaxStops,
				Airlines:    cityLeg.Airlines,
				Departure:   cityLeg.Departure,
				Arrival:     cityLeg.Arrival,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.Search(ctx, query.SearchCriteria{
		Legs:       legs,
		Trip:       req.Trip,
		Seat:       req.Seat,
		Passengers: req.Passengers,
	})
}

// ResolveCity exposes resolution for callers that need codes without a
// search (the API's resolution probe).
func (s *Service) ResolveCity(ctx context.Context, name string) (string, error) {
	if s.resolver == nil {
		return "", fmt.Errorf("city resolution is not configured")
	}
	return s.resolver.Resolve(ctx, name)
}
