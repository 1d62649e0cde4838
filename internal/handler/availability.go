package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/travilink/trip-scheduler/internal/service"
)

// GetAvailability handles GET /availability?date=&start=&end=&exclude=.
// It is advisory: the form uses it to grey out busy drivers and vehicles,
// but only POST and PATCH actually enforce the no-overlap rule.
func (s *Server) GetAvailability(w http.ResponseWriter, r *http.Request) {
	q, err := parseAvailabilityQuery(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
		return
	}

	avail, err := s.trips.Availability(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	resp := AvailabilityResponse{
		Drivers:  make([]ResourceAvailability, len(avail.Drivers)),
		Vehicles: make([]ResourceAvailability, len(avail.Vehicles)),
	}
	for i, d := range avail.Drivers {
		resp.Drivers[i] = ResourceAvailability{
			Id: d.Driver.ID, Name: d.Driver.Name, Busy: d.Busy(), Conflicts: tripsToResponse(d.Conflicts),
		}
	}
	for i, v := range avail.Vehicles {
		resp.Vehicles[i] = ResourceAvailability{
			Id: v.Vehicle.ID, Name: v.Vehicle.Label + " (" + v.Vehicle.PlateNo + ")", Busy: v.Busy(), Conflicts: tripsToResponse(v.Conflicts),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseAvailabilityQuery(r *http.Request) (service.AvailabilityQuery, error) {
	var (
		q   service.AvailabilityQuery
		err error
	)
	if q.Date, err = requiredDate(r, "date"); err != nil {
		return q, err
	}
	if q.Start, err = requiredTime(r, "start"); err != nil {
		return q, err
	}
	if q.End, err = requiredTime(r, "end"); err != nil {
		return q, err
	}
	if raw := r.URL.Query().Get("exclude"); raw != "" {
		if q.ExcludeID, err = uuid.Parse(raw); err != nil {
			return q, errorf("exclude must be a UUID")
		}
	}
	return q, nil
}
