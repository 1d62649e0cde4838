package handler

import (
	"fmt"
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/travilink/trip-scheduler/internal/domain"
)

// errorf builds a domain.ErrValidation error for a bad query parameter.
func errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

func optionalDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, errorf("%s must be a date (YYYY-MM-DD)", name)
	}
	return &d, nil
}

func requiredDate(r *http.Request, name string) (time.Time, error) {
	d, err := optionalDate(r, name)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, errorf("%s is required", name)
	}
	return *d, nil
}

func requiredTime(r *http.Request, name string) (domain.TimeOfDay, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errorf("%s is required", name)
	}
	t, err := domain.ParseTimeOfDay(raw)
	if err != nil {
		return 0, errorf("%s must be HH:MM", name)
	}
	return t, nil
}

func dateOf(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: domain.DateOf(t)}
}
