package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTripIDPrefix is used when no prefix is configured.
const DefaultTripIDPrefix = "TRIP"

// FormatTripID renders the human-facing identifier PREFIX-YYYYMMDD-NNNN.
// The counter is zero-padded to four digits and grows wider past 9999.
func FormatTripID(prefix string, date time.Time, n int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, date.Format("20060102"), n)
}

// ParseTripID splits a trip identifier back into its prefix, date and counter.
func ParseTripID(s string) (prefix string, date time.Time, n int, err error) {
	i := strings.LastIndex(s, "-")
	if i < 0 {
		return "", time.Time{}, 0, fmt.Errorf("%w: malformed trip id %q", ErrValidation, s)
	}
	j := strings.LastIndex(s[:i], "-")
	if j <= 0 {
		return "", time.Time{}, 0, fmt.Errorf("%w: malformed trip id %q", ErrValidation, s)
	}
	date, err = time.Parse("20060102", s[j+1:i])
	if err != nil {
		return "", time.Time{}, 0, fmt.Errorf("%w: malformed trip id date %q", ErrValidation, s)
	}
	n, err = strconv.Atoi(s[i+1:])
	if err != nil || n < 1 || len(s[i+1:]) < 4 {
		return "", time.Time{}, 0, fmt.Errorf("%w: malformed trip id counter %q", ErrValidation, s)
	}
	return s[:j], date, n, nil
}
