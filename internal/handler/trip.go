package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/travilink/trip-scheduler/internal/domain"
	"github.com/travilink/trip-scheduler/internal/service"
)

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body CreateTripRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	created, err := s.trips.Create(r.Context(), body.toInput())
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Query parameters: status, driver, vehicle, from, to (YYYY-MM-DD, inclusive),
// q (free-text search), sort (asc|desc, default desc), page and limit
// (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	q, err := parseTripQuery(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
		return
	}

	page, err := s.trips.Query(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, TripListResponse{
		Data: tripsToResponse(page.Trips),
		Pagination: Pagination{
			Page:  page.Page,
			Limit: page.Limit,
			Total: page.Total,
		},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PATCH /trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body UpdateTripRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	updated, err := s.trips.Update(r.Context(), id, body.toPatch())
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// SetTripStatus handles PUT /trips/{id}/status.
func (s *Server) SetTripStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body SetStatusRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	updated, err := s.trips.SetStatus(r.Context(), id, body.Status)
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrips handles DELETE /trips with a body of {"ids": [...]}.
// Unknown ids are ignored; the response reports how many trips existed.
func (s *Server) DeleteTrips(w http.ResponseWriter, r *http.Request) {
	var body DeleteTripsRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	n, err := s.trips.DeleteMany(r.Context(), body.Ids)
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, DeleteTripsResponse{Deleted: n})
}

// PeekTripID handles GET /trip-ids/next?date=YYYY-MM-DD.
func (s *Server) PeekTripID(w http.ResponseWriter, r *http.Request) {
	date, err := requiredDate(r, "date")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
		return
	}

	next, err := s.trips.PeekTripID(r.Context(), date)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, NextTripIdResponse{Date: dateOf(date), TripId: next})
}

// --- request parsing --------------------------------------------------------

// pathID parses the {id} URL parameter, writing a 422 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func parseTripQuery(r *http.Request) (service.TripQuery, error) {
	v := r.URL.Query()
	q := service.TripQuery{
		Descending: true,
		Filter: domain.TripFilter{
			DriverID:  v.Get("driver"),
			VehicleID: v.Get("vehicle"),
			Search:    v.Get("q"),
		},
	}

	if raw := v.Get("status"); raw != "" && raw != "all" {
		st, err := domain.ParseTripStatus(raw)
		if err != nil {
			return service.TripQuery{}, err
		}
		q.Filter.Status = &st
	}
	if q.Filter.DriverID == "all" {
		q.Filter.DriverID = ""
	}
	if q.Filter.VehicleID == "all" {
		q.Filter.VehicleID = ""
	}

	var err error
	if q.Filter.From, err = optionalDate(r, "from"); err != nil {
		return service.TripQuery{}, err
	}
	if q.Filter.To, err = optionalDate(r, "to"); err != nil {
		return service.TripQuery{}, err
	}

	switch v.Get("sort") {
	case "", "desc":
	case "asc":
		q.Descending = false
	default:
		return service.TripQuery{}, errorf("sort must be asc or desc")
	}

	page, err := optionalInt(r, "page")
	if err != nil {
		return service.TripQuery{}, err
	}
	limit, err := optionalInt(r, "limit")
	if err != nil {
		return service.TripQuery{}, err
	}
	q.Page = domain.NewPaginationParams(page, limit)
	return q, nil
}

func optionalInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errorf("%s must be an integer", name)
	}
	return &n, nil
}
