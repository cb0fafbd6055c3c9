package services

import "errors"

// Sentinel errors for the research review workflow. Controllers map these to
// HTTP status codes; everything else is treated as an internal error.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidState    = errors.New("invalid submission state")
)
