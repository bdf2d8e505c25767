package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avoronov/skyfare/internal/cities"
	"github.com/avoronov/skyfare/internal/extract"
	"github.com/avoronov/skyfare/internal/fetch"
	"github.com/avoronov/skyfare/internal/query"
	"github.com/avoronov/skyfare/internal/search"
	"github.com/avoronov/skyfare/pkg/logger"
)

// Handler handles API requests
type Handler struct {
	service *search.Service
	logger  *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(service *search.Service, logger *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("api-handler"),
	}
}

// searchLeg is the wire form of one leg. Airport codes and city names are
// alternatives; exactly one pair must be set per leg.
type searchLeg struct {
	Date            string   `json:"date"`
	Origin          string   `json:"origin,omitempty"`
	Destination     string   `json:"destination,omitempty"`
	OriginCity      string   `json:"origin_city,omitempty"`
	DestinationCity string   `json:"destination_city,omitempty"`
	MaxStops        *int     `json:"max_stops,omitempty"`
	Airlines        []string `json:"airlines,omitempty"`
	DepartureWindow string   `json:"departure_window,omitempty"` // HH:MM-HH:MM
	ArrivalWindow   string   `json:"arrival_window,omitempty"`
}

// searchRequest is the wire form of a search.
type searchRequest struct {
	Legs       []searchLeg      `json:"legs"`
	Trip       string           `json:"trip"`
	Seat       string           `json:"seat"`
	Passengers query.Passengers `json:"passengers"`
}

type errorResponse struct {
	Error      string   `json:"error"`
	Candidates []string `json:"candidates,omitempty"`
}

// Search handles POST /api/v1/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	result, err := h.runSearch(r, req)
	if err != nil {
		h.writeSearchError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) runSearch(r *http.Request, req searchRequest) (*extract.FlightResult, error) {
	trip, err := query.ParseTripType(req.Trip)
	if err != nil {
		return nil, &query.ValidationError{Field: "trip", Msg: err.Error()}
	}
	seat, err := query.ParseSeatClass(req.Seat)
	if err != nil {
		return nil, &query.ValidationError{Field: "seat", Msg: err.Error()}
	}

	byCity := false
	for _, leg := range req.Legs {
		if leg.OriginCity != "" || leg.DestinationCity != "" {
			byCity = true
			break
		}
	}

	if byCity {
		cityReq := search.CityRequest{Trip: trip, Seat: seat, Passengers: req.Passengers}
		for _, leg := range req.Legs {
			dep, arr, err := parseWindows(leg)
			if err != nil {
				return nil, err
			}
			cityReq.Legs = append(cityReq.Legs, search.CityLeg{
				Date:            leg.Date,
				OriginCity:      leg.OriginCity,
				DestinationCity: leg.DestinationCity,
				MaxStops:        leg.MaxStops,
				Airlines:        leg.Airlines,
				Departure:       dep,
				Arrival:         arr,
			})
		}
		return h.service.SearchByCity(r.Context(), cityReq)
	}

	criteria := query.SearchCriteria{Trip: trip, Seat: seat, Passengers: req.Passengers}
	for _, leg := range req.Legs {
		dep, arr, err := parseWindows(leg)
		if err != nil {
			return nil, err
		}
		criteria.Legs = append(criteria.Legs, query.FlightLeg{
			Date:        leg.Date,
			Origin:      leg.Origin,
			Destination: leg.Destination,
			MaxStops:    leg.MaxStops,
			Airlines:    leg.Airlines,
			Departure:   dep,
			Arrival:     arr,
		})
	}
	return h.service.Search(r.Context(), criteria)
}

func parseWindows(leg searchLeg) (*query.TimeWindow, *query.TimeWindow, error) {
	var dep, arr *query.TimeWindow
	var err error
	if leg.DepartureWindow != "" {
		if dep, err = query.ParseTimeWindow(leg.DepartureWindow); err != nil {
			return nil, nil, &query.ValidationError{Field: "departure_window", Msg: err.Error()}
		}
	}
	if leg.ArrivalWindow != "" {
		if arr, err = query.ParseTimeWindow(leg.ArrivalWindow); err != nil {
			return nil, nil, &query.ValidationError{Field: "arrival_window", Msg: err.Error()}
		}
	}
	return dep, arr, nil
}

// writeSearchError maps the error taxonomy onto status codes: caller
// mistakes are 400s, upstream trouble is a 502.
func (h *Handler) writeSearchError(w http.ResponseWriter, err error) {
	var validationErr *query.ValidationError
	var unknownCity *cities.UnknownCityError
	var ambiguousCity *cities.AmbiguousCityError
	var transportErr *fetch.Error

	switch {
	case errors.As(err, &validationErr):
		h.writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &unknownCity):
		h.writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &ambiguousCity):
		h.writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Candidates: ambiguousCity.Candidates})
	case errors.As(err, &transportErr):
		h.writeError(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	case errors.Is(err, extract.ErrOffersNotFound):
		h.writeError(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("Unhandled search error", logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// ResolveCity handles GET /api/v1/cities/{name}.
func (h *Handler) ResolveCity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	code, err := h.service.ResolveCity(r.Context(), name)
	if err != nil {
		var unknownCity *cities.UnknownCityError
		var ambiguousCity *cities.AmbiguousCityError
		switch {
		case errors.As(err, &unknownCity):
			h.writeError(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		case errors.As(err, &ambiguousCity):
			h.writeError(w, http.StatusConflict, errorResponse{Error: err.Error(), Candidates: ambiguousCity.Candidates})
		default:
			h.logger.Error("City resolution failed", logger.Error(err))
			h.writeError(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"city":         name,
		"airport_code": code,
	})
}

// GetHealth handles GET /api/v1/health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, resp errorResponse) {
	h.writeJSON(w, status, resp)
}
