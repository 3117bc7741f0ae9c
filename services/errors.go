package services

import (
	"errors"
	"strings"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrGeocodeFailed      = errors.New("failed to geocode address")
	ErrAddressNotFound    = errors.New("could not find coordinates for the provided address")
	ErrInvalidCoordinates = errors.New("invalid coordinates received from geocoding service")
	ErrPersistence        = errors.New("failed to save issue")
)

// MissingFieldsError lists every required submission field that was blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// FieldError reports a single field that is present but invalid.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}
