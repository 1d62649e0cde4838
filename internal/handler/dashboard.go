package handler

import (
	"net/http"

	"github.com/travilink/trip-scheduler/internal/domain"
)

// GetKpis handles GET /kpis.
func (s *Server) GetKpis(w http.ResponseWriter, r *http.Request) {
	kpis, err := s.dashboard.Kpis(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, KpiListResponse{Data: kpis})
}

// ListDrivers handles GET /drivers.
func (s *Server) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := s.roster.Drivers(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Driver{"data": drivers})
}

// ListVehicles handles GET /vehicles.
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.roster.Vehicles(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Vehicle{"data": vehicles})
}

// ListStatuses handles GET /statuses: the lifecycle states in order, for
// status pickers.
func (s *Server) ListStatuses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]domain.TripStatus{"data": domain.AllStatuses})
}
