package domain

import "errors"

var (
	// ErrNotFound is returned when a row identifier has no match.
	ErrNotFound = errors.New("not found")
	// ErrInvalidGeometry is returned for malformed polygon coordinates.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrInvalidFilename is returned when an uploaded filename sanitises to nothing.
	ErrInvalidFilename = errors.New("invalid image filename")
)

// ErrInvalidInput is returned when a required field is missing or malformed.
var ErrInvalidInput = errors.New("invalid input")
