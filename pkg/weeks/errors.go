package weeks

import (
	"errors"
)

var (
	ErrFutureDate      = errors.New("date of birth cannot be in the future")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidTimezone = errors.New("invalid timezone")
	// ErrOutOfRange covers numeric parameters outside their accepted bounds
	// (lifespan years, week index, page size).
	ErrOutOfRange = errors.New("value out of range")
	// ErrInvalidValue is a parameter that could not be read at all.
	ErrInvalidValue = errors.New("invalid value")
)

// ErrorKind is the tag reported to clients for a failed calculation.
type ErrorKind string

const (
	KindFutureDate      ErrorKind = "FutureDateError"
	KindInvalidDate     ErrorKind = "InvalidDateError"
	KindInvalidTimezone ErrorKind = "InvalidTimezoneError"
	KindValue           ErrorKind = "ValueError"
	KindInternal        ErrorKind = "InternalServerError"
)

// Kind classifies err. Anything that is not one of the package sentinels is internal.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrFutureDate):
		return KindFutureDate
	case errors.Is(err, ErrInvalidDate):
		return KindInvalidDate
	case errors.Is(err, ErrInvalidTimezone):
		return KindInvalidTimezone
	case errors.Is(err, ErrOutOfRange), errors.Is(err, ErrInvalidValue):
		return KindValue
	default:
		return KindInternal
	}
}
