// Package handler implements the JSON-over-HTTP surface of the trip
// scheduler. All handlers are methods on Server and are mounted on a chi
// router by Routes. Handlers translate requests into service calls and
// service errors into HTTP statuses; they hold no scheduling rules.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/travilink/trip-scheduler/internal/domain"
	"github.com/travilink/trip-scheduler/internal/service"
	"github.com/travilink/trip-scheduler/spec"
)

// TripServicer defines the schedule operations the trip handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching any store.
type TripServicer interface {
	Create(ctx context.Context, in domain.TripInput) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Query(ctx context.Context, q service.TripQuery) (domain.TripPage, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
	PeekTripID(ctx context.Context, date time.Time) (string, error)
	Availability(ctx context.Context, q service.AvailabilityQuery) (service.Availability, error)
}

// DashboardServicer defines the KPI operation used by GET /kpis.
type DashboardServicer interface {
	Kpis(ctx context.Context) ([]domain.Kpi, error)
}

// RosterServicer defines the roster reads used by GET /drivers and GET /vehicles.
type RosterServicer interface {
	Drivers(ctx context.Context) ([]domain.Driver, error)
	Vehicles(ctx context.Context) ([]domain.Vehicle, error)
}

// Server holds the dependencies of every handler.
type Server struct {
	trips     TripServicer
	dashboard DashboardServicer
	roster    RosterServicer
	validate  *validator.Validate
	log       *slog.Logger
}

// NewServer constructs the Server. A nil logger means slog.Default().
func NewServer(trips TripServicer, dashboard DashboardServicer, roster RosterServicer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		trips:     trips,
		dashboard: dashboard,
		roster:    roster,
		validate:  newValidator(),
		log:       logger,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes mounts every endpoint on a fresh chi router. Cross-cutting
// middleware (request id, logging, CORS, body limits) is added by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveSpec)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Delete("/", s.DeleteTrips)
		r.Get("/{id}", s.GetTrip)
		r.Patch("/{id}", s.UpdateTrip)
		r.Put("/{id}/status", s.SetTripStatus)
	})
	r.Get("/trip-ids/next", s.PeekTripID)
	r.Get("/availability", s.GetAvailability)
	r.Get("/kpis", s.GetKpis)
	r.Get("/drivers", s.ListDrivers)
	r.Get("/vehicles", s.ListVehicles)
	r.Get("/statuses", s.ListStatuses)

	return r
}

func serveSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
