package models

import "errors"

// Sentinel errors shared by repositories, services and handlers.
// Wrap them with fmt.Errorf("...: %w", ...) and test with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("lesson progress not found")
	ErrForbidden  = errors.New("forbidden")
)
