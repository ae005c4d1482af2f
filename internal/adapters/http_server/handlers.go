package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
)

const maxBodyBytes = 1 << 20

type Searcher interface {
	Search(ctx context.Context, c domain.SearchCriteria) ([]domain.Hotel, error)
}

type TripManager interface {
	Book(ctx context.Context, req app.BookingRequest) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Cancel(ctx context.Context, id string) (domain.Trip, error)
	Delete(ctx context.Context, id string) error
}

type Handlers struct {
	Search Searcher
	Trips  TripManager
}

type problem struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	Status       int    `json:"status"`
	Detail       string `json:"detail,omitempty"`
	Field        string `json:"field,omitempty"`
	ProviderCode string `json:"providerCode,omitempty"`
}

type searchResponse struct {
	Hotels []domain.Hotel `json:"hotels"`
	Count  int            `json:"count"`
}

type bookingBody struct {
	Hotel    domain.Hotel   `json:"hotel"`
	CheckIn  string         `json:"checkIn"`
	CheckOut string         `json:"checkOut"`
	Guests   int            `json:"guests"`
	Payment  domain.Payment `json:"payment"`
}

type tripsResponse struct {
	Trips []domain.Trip `json:"trips"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hotels/search", h.searchHotels)
	s.mux.Post("/v1/bookings", h.createBooking)
	s.mux.Get("/v1/trips", h.listTrips)
	s.mux.Post("/v1/trips/{id}/cancel", h.cancelTrip)
	s.mux.Delete("/v1/trips/{id}", h.deleteTrip)
}

func writeProblem(w http.ResponseWriter, status int, p problem) {
	p.Type, p.Status = "about:blank", status
	if p.Title == "" {
		p.Title = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal response failed")
		writeProblem(w, http.StatusInternalServerError, problem{})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("write response body failed")
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Messages of
// *domain.Error are user-facing; anything else is reported generically.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrTripNotFound) {
		writeProblem(w, http.StatusNotFound, problem{Title: "Trip Not Found", Detail: err.Error()})
		return
	}
	var de *domain.Error
	if !errors.As(err, &de) {
		log.Error().Err(err).Msg("unclassified error")
		writeProblem(w, http.StatusInternalServerError, problem{Detail: "something went wrong"})
		return
	}
	p := problem{Detail: de.Message, Field: de.Field, ProviderCode: de.ProviderCode}
	switch de.Kind {
	case domain.KindValidation:
		p.Title = "Invalid Request"
		writeProblem(w, http.StatusBadRequest, p)
	case domain.KindLocationNotFound:
		p.Title = "Location Not Found"
		writeProblem(w, http.StatusNotFound, p)
	case domain.KindAuth:
		p.Title = "Provider Authentication Failed"
		writeProblem(w, http.StatusBadGateway, p)
	case domain.KindSearch:
		p.Title = "Search Failed"
		writeProblem(w, http.StatusBadGateway, p)
	case domain.KindNetwork:
		p.Title = "Provider Unreachable"
		writeProblem(w, http.StatusGatewayTimeout, p)
	case domain.KindConfig:
		p.Title = "Service Not Configured"
		writeProblem(w, http.StatusServiceUnavailable, p)
	default:
		writeProblem(w, http.StatusInternalServerError, p)
	}
}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return time.Time{}, domain.ValidationError(field, "%s must be a date in YYYY-MM-DD format", field)
	}
	return t, nil
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	checkIn, err := parseDate("checkIn", q.Get("checkIn"))
	if err != nil {
		writeError(w, err)
		return
	}
	checkOut, err := parseDate("checkOut", q.Get("checkOut"))
	if err != nil {
		writeError(w, err)
		return
	}
	guests := 1
	if gs := q.Get("guests"); gs != "" {
		if guests, err = strconv.Atoi(gs); err != nil {
			writeError(w, domain.ValidationError("guests", "guests must be a whole number"))
			return
		}
	}

	hotels, err := h.Search.Search(r.Context(), domain.SearchCriteria{
		Destination:  q.Get("destination"),
		LocationCode: q.Get("locationCode"),
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Guests:       guests,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Hotels: hotels, Count: len(hotels)})
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var body bookingBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, problem{Title: "Invalid Request", Detail: "request body must be a JSON booking"})
		return
	}
	checkIn, err := parseDate("checkIn", body.CheckIn)
	if err != nil {
		writeError(w, err)
		return
	}
	checkOut, err := parseDate("checkOut", body.CheckOut)
	if err != nil {
		writeError(w, err)
		return
	}

	trip, err := h.Trips.Book(r.Context(), app.BookingRequest{
		Hotel:    body.Hotel,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   body.Guests,
		Payment:  body.Payment,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/trips/"+trip.ID)
	writeJSON(w, http.StatusCreated, trip)
}

func (h *Handlers) listTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Trips.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripsResponse{Trips: trips})
}

func (h *Handlers) cancelTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := h.Trips.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (h *Handlers) deleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.Trips.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
