package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/travilink/trip-scheduler/internal/domain"
)

// Trip is the wire form of domain.Trip.
type Trip struct {
	Id               openapi_types.UUID `json:"id"`
	TripId           string             `json:"trip_id"`
	RequestId        *string            `json:"request_id,omitempty"`
	Title            string             `json:"title"`
	Origin           string             `json:"origin"`
	Destination      string             `json:"destination"`
	Date             openapi_types.Date `json:"date"`
	StartTime        domain.TimeOfDay   `json:"start_time"`
	EndTime          domain.TimeOfDay   `json:"end_time"`
	DriverId         string             `json:"driver_id"`
	VehicleId        string             `json:"vehicle_id"`
	Status           domain.TripStatus  `json:"status"`
	Notes            *string            `json:"notes,omitempty"`
	OriginPlace      *Place             `json:"origin_place,omitempty"`
	DestinationPlace *Place             `json:"destination_place,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// Place is the wire form of domain.Place.
type Place struct {
	Address string  `json:"address" validate:"required,max=500"`
	PlaceId *string `json:"place_id,omitempty" validate:"omitempty,max=256"`
	Coords  *LatLng `json:"coords,omitempty"`
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	RequestId        *string            `json:"request_id" validate:"omitempty,max=64"`
	Title            string             `json:"title" validate:"max=200"`
	Origin           string             `json:"origin" validate:"max=500"`
	Destination      string             `json:"destination" validate:"max=500"`
	Date             openapi_types.Date `json:"date"`
	StartTime        *domain.TimeOfDay  `json:"start_time" validate:"required"`
	EndTime          *domain.TimeOfDay  `json:"end_time" validate:"required"`
	DriverId         string             `json:"driver_id" validate:"required,max=64"`
	VehicleId        string             `json:"vehicle_id" validate:"required,max=64"`
	Status           *domain.TripStatus `json:"status" validate:"omitempty,oneof=PLANNED ONGOING COMPLETED CANCELLED"`
	Notes            *string            `json:"notes" validate:"omitempty,max=2000"`
	OriginPlace      *Place             `json:"origin_place" validate:"omitempty"`
	DestinationPlace *Place             `json:"destination_place" validate:"omitempty"`
}

// UpdateTripRequest is the body of PATCH /trips/{id}. Absent fields are left
// unchanged. trip_id is accepted for round-tripping a full trip but ignored.
// An empty request_id clears it.
type UpdateTripRequest struct {
	TripId           *string             `json:"trip_id"`
	RequestId        *string             `json:"request_id" validate:"omitempty,max=64"`
	Title            *string             `json:"title" validate:"omitempty,max=200"`
	Origin           *string             `json:"origin" validate:"omitempty,max=500"`
	Destination      *string             `json:"destination" validate:"omitempty,max=500"`
	Date             *openapi_types.Date `json:"date"`
	StartTime        *domain.TimeOfDay   `json:"start_time"`
	EndTime          *domain.TimeOfDay   `json:"end_time"`
	DriverId         *string             `json:"driver_id" validate:"omitempty,min=1,max=64"`
	VehicleId        *string             `json:"vehicle_id" validate:"omitempty,min=1,max=64"`
	Notes            *string             `json:"notes" validate:"omitempty,max=2000"`
	OriginPlace      *Place              `json:"origin_place" validate:"omitempty"`
	DestinationPlace *Place              `json:"destination_place" validate:"omitempty"`
}

// SetStatusRequest is the body of PUT /trips/{id}/status.
type SetStatusRequest struct {
	Status domain.TripStatus `json:"status" validate:"required,oneof=PLANNED ONGOING COMPLETED CANCELLED"`
}

// DeleteTripsRequest is the body of DELETE /trips.
type DeleteTripsRequest struct {
	Ids []openapi_types.UUID `json:"ids" validate:"required,min=1,max=500"`
}

// DeleteTripsResponse reports how many of the requested trips existed.
type DeleteTripsResponse struct {
	Deleted int64 `json:"deleted"`
}

// Pagination describes the page returned by GET /trips.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// TripListResponse is the body of GET /trips.
type TripListResponse struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NextTripIdResponse is the body of GET /trip-ids/next.
type NextTripIdResponse struct {
	Date   openapi_types.Date `json:"date"`
	TripId string             `json:"trip_id"`
}

// ResourceAvailability is one roster entry in GET /availability.
type ResourceAvailability struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Busy      bool   `json:"busy"`
	Conflicts []Trip `json:"conflicts"`
}

// AvailabilityResponse is the body of GET /availability.
type AvailabilityResponse struct {
	Drivers  []ResourceAvailability `json:"drivers"`
	Vehicles []ResourceAvailability `json:"vehicles"`
}

// KpiListResponse is the body of GET /kpis.
type KpiListResponse struct {
	Data []domain.Kpi `json:"data"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the envelope of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a message.
// Conflicts is set only for code "conflict".
type ErrorDetail struct {
	Code      string           `json:"code"`
	Message   string           `json:"message"`
	Conflicts *ConflictDetails `json:"conflicts,omitempty"`
}

// ConflictDetails lists the trips holding the requested driver and vehicle.
type ConflictDetails struct {
	Driver  []Trip `json:"driver"`
	Vehicle []Trip `json:"vehicle"`
}

// --- mapping helpers --------------------------------------------------------

func tripToResponse(t domain.Trip) Trip {
	resp := Trip{
		Id:               t.ID,
		TripId:           t.TripID,
		RequestId:        t.RequestID,
		Title:            t.Title,
		Origin:           t.Origin,
		Destination:      t.Destination,
		Date:             openapi_types.Date{Time: t.Date},
		StartTime:        t.StartTime,
		EndTime:          t.EndTime,
		DriverId:         t.DriverID,
		VehicleId:        t.VehicleID,
		Status:           t.Status,
		OriginPlace:      placeToResponse(t.OriginPlace),
		DestinationPlace: placeToResponse(t.DestinationPlace),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if t.Notes != "" {
		resp.Notes = &t.Notes
	}
	return resp
}

func tripsToResponse(trips []domain.Trip) []Trip {
	out := make([]Trip, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	return out
}

func placeToResponse(p *domain.Place) *Place {
	if p == nil {
		return nil
	}
	out := &Place{Address: p.Address, PlaceId: p.PlaceID}
	if p.Coords != nil {
		out.Coords = &LatLng{Lat: p.Coords.Lat, Lng: p.Coords.Lng}
	}
	return out
}

func placeToDomain(p *Place) *domain.Place {
	if p == nil {
		return nil
	}
	out := &domain.Place{Address: p.Address, PlaceID: p.PlaceId}
	if p.Coords != nil {
		out.Coords = &domain.LatLng{Lat: p.Coords.Lat, Lng: p.Coords.Lng}
	}
	return out
}

func (b CreateTripRequest) toInput() domain.TripInput {
	in := domain.TripInput{
		RequestID:        b.RequestId,
		Title:            b.Title,
		Origin:           b.Origin,
		Destination:      b.Destination,
		Date:             b.Date.Time,
		StartTime:        *b.StartTime,
		EndTime:          *b.EndTime,
		DriverID:         b.DriverId,
		VehicleID:        b.VehicleId,
		OriginPlace:      placeToDomain(b.OriginPlace),
		DestinationPlace: placeToDomain(b.DestinationPlace),
	}
	if b.Status != nil {
		in.Status = *b.Status
	}
	if b.Notes != nil {
		in.Notes = *b.Notes
	}
	return in
}

// toPatch drops TripId: the trip identifier is immutable.
func (b UpdateTripRequest) toPatch() domain.TripPatch {
	p := domain.TripPatch{
		Title:            b.Title,
		Origin:           b.Origin,
		Destination:      b.Destination,
		StartTime:        b.StartTime,
		EndTime:          b.EndTime,
		DriverID:         b.DriverId,
		VehicleID:        b.VehicleId,
		Notes:            b.Notes,
		OriginPlace:      placeToDomain(b.OriginPlace),
		DestinationPlace: placeToDomain(b.DestinationPlace),
	}
	if b.RequestId != nil {
		if *b.RequestId == "" {
			p.ClearRequestID = true
		} else {
			p.RequestID = b.RequestId
		}
	}
	if b.Date != nil {
		d := b.Date.Time
		p.Date = &d
	}
	return p
}
