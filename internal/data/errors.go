package data

import "errors"

// Shared sentinel errors for data-layer repositories. Callers match
// these with errors.Is to map storage failures onto HTTP responses.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("a user with this email already exists")

	ErrAnimalNotFound = errors.New("animal not found")

	ErrFeedingLogNotFound = errors.New("feeding log not found")
	ErrMedicalLogNotFound = errors.New("medical log not found")
)
